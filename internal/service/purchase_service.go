package service

import (
	"context"
	"fmt"
	"time"

	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/model"
	"github.com/siddronomomos/farmacia/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseService interface {
	// Register books a stock intake: header + items, supplier-article links
	// created on first purchase, stock incremented per line. Atomic.
	Register(ctx context.Context, userID uuid.UUID, req dto.PurchaseRequest) (*dto.PurchaseResponse, error)
	Get(ctx context.Context, folio int) (*dto.PurchaseResponse, error)
	List(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
	// Cancel removes the purchase rows and backs the received stock out
	// again. Fails with ErrInsufficientStock when the units were already sold.
	Cancel(ctx context.Context, folio int) error
}

type purchaseService struct {
	repo         repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
	articleRepo  repository.ArticleRepository
	stockRepo    repository.StockRepository
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	supplierRepo repository.SupplierRepository,
	articleRepo repository.ArticleRepository,
	stockRepo repository.StockRepository,
) PurchaseService {
	return &purchaseService{
		repo:         repo,
		supplierRepo: supplierRepo,
		articleRepo:  articleRepo,
		stockRepo:    stockRepo,
	}
}

func (s *purchaseService) Register(ctx context.Context, userID uuid.UUID, req dto.PurchaseRequest) (*dto.PurchaseResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier_id: %w", err)
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier: %w", err)
	}

	type resolvedLine struct {
		article  *model.Article
		quantity int
		unitCost decimal.Decimal
	}
	lines := make([]resolvedLine, 0, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		articleID, err := uuid.Parse(item.ArticleID)
		if err != nil {
			return nil, fmt.Errorf("invalid article_id: %w", err)
		}
		article, err := s.articleRepo.FindByID(ctx, articleID)
		if err != nil {
			return nil, fmt.Errorf("article %s: %w", item.ArticleID, err)
		}
		lines = append(lines, resolvedLine{article: article, quantity: item.Quantity, unitCost: item.UnitCost})
		total = total.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	var purchase model.Purchase
	txErr := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		folio, err := s.repo.NextFolio(ctx, tx)
		if err != nil {
			return err
		}

		purchase = model.Purchase{
			Folio:      folio,
			Date:       time.Now(),
			UserID:     userID,
			SupplierID: supplierID,
			Total:      total.Round(2),
		}
		for _, l := range lines {
			purchase.Items = append(purchase.Items, model.PurchaseItem{
				Folio:     folio,
				ArticleID: l.article.ID,
				Quantity:  l.quantity,
				UnitCost:  l.unitCost,
			})
		}
		if err := s.repo.CreateTx(ctx, tx, &purchase); err != nil {
			return err
		}

		for _, l := range lines {
			if err := s.stockRepo.EnsureLinkTx(tx, supplierID, l.article.ID, l.unitCost); err != nil {
				return err
			}
			if err := s.stockRepo.AdjustStockTx(tx, supplierID, l.article.ID, l.quantity, repository.MovementPurchase, &folio); err != nil {
				return fmt.Errorf("stock for %s: %w", l.article.Description, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := purchaseToResponse(&purchase)
	resp.SupplierName = supplier.Name
	for i, l := range lines {
		resp.Items[i].Description = l.article.Description
	}
	return resp, nil
}

func (s *purchaseService) Get(ctx context.Context, folio int) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByFolio(ctx, folio)
	if err != nil {
		return nil, err
	}
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) List(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	purchases, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		items = append(items, *purchaseToResponse(&purchases[i]))
	}
	return &dto.PurchaseListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *purchaseService) Cancel(ctx context.Context, folio int) error {
	purchase, err := s.repo.FindByFolio(ctx, folio)
	if err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		for _, item := range purchase.Items {
			if err := s.stockRepo.AdjustStockTx(tx, purchase.SupplierID, item.ArticleID, -item.Quantity, repository.MovementPurchaseCancel, &purchase.Folio); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, folio)
	})
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseLineResponse, 0, len(p.Items))
	for _, item := range p.Items {
		desc := ""
		if item.Article != nil {
			desc = item.Article.Description
		}
		items = append(items, dto.PurchaseLineResponse{
			ArticleID:   item.ArticleID.String(),
			Description: desc,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
		})
	}
	resp := &dto.PurchaseResponse{
		Folio:      p.Folio,
		Date:       p.Date.Format("2006-01-02"),
		SupplierID: p.SupplierID.String(),
		Items:      items,
		Total:      p.Total,
	}
	if p.Supplier != nil {
		resp.SupplierName = p.Supplier.Name
	}
	return resp
}
