package service

import (
	"context"
	"fmt"
	"time"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/config"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/model"
	"github.com/siddronomomos/farmacia/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NoDiscount is the sentinel tier selection that suppresses an otherwise
// eligible discount.
const NoDiscount = "none"

// ReceiptNotifier handles post-commit receipt generation and delivery.
// Failures are logged by the implementation and never affect the sale.
type ReceiptNotifier interface {
	SaleCompleted(ctx context.Context, sale *model.Sale, lines []CartLine, change decimal.Decimal, customerEmail string)
}

type SaleService interface {
	// Checkout drives a full cart through attach → add-lines → price →
	// tender and persists the result atomically.
	Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, folio int) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	// Cancel removes a persisted sale: line rows first, then the header.
	// Stock restoration is a config decision (CANCEL_RESTORES_STOCK).
	Cancel(ctx context.Context, folio int) error
}

type saleService struct {
	repo         repository.SaleRepository
	customerRepo repository.CustomerRepository
	articleRepo  repository.ArticleRepository
	stockRepo    repository.StockRepository
	discounts    DiscountService
	cfg          *config.Config
	receipts     ReceiptNotifier
}

func NewSaleService(
	repo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	articleRepo repository.ArticleRepository,
	stockRepo repository.StockRepository,
	discounts DiscountService,
	cfg *config.Config,
	receipts ReceiptNotifier,
) SaleService {
	return &saleService{
		repo:         repo,
		customerRepo: customerRepo,
		articleRepo:  articleRepo,
		stockRepo:    stockRepo,
		discounts:    discounts,
		cfg:          cfg,
		receipts:     receipts,
	}
}

func (s *saleService) Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer_id: %w", err)
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier_id: %w", err)
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer: %w", err)
	}

	cart := NewCart(s.cfg.Tax())
	if err := cart.AttachCustomer(customer, supplierID); err != nil {
		return nil, err
	}

	// Build the cart against fresh ledger reads. Duplicate articles in the
	// request merge, so the combined quantity is re-checked each time.
	for _, line := range req.Items {
		articleID, err := uuid.Parse(line.ArticleID)
		if err != nil {
			return nil, fmt.Errorf("invalid article_id: %w", err)
		}
		article, err := s.articleRepo.FindByID(ctx, articleID)
		if err != nil {
			return nil, fmt.Errorf("article %s: %w", line.ArticleID, err)
		}
		link, err := s.stockRepo.FindLink(ctx, supplierID, articleID)
		if err != nil {
			return nil, fmt.Errorf("article %s not sourced from supplier: %w", line.ArticleID, err)
		}
		if err := cart.AddLine(article, link.Stock, line.Quantity); err != nil {
			return nil, err
		}
	}

	tier, err := s.resolveTier(ctx, customer.Points, req.DiscountTierID)
	if err != nil {
		return nil, err
	}
	if err := cart.SelectTier(tier); err != nil {
		return nil, err
	}

	if err := cart.ConfirmTender(req.Tender); err != nil {
		return nil, err
	}

	// One atomic unit: folio, header+items, stock decrements, point accrual.
	// Any failure rolls everything back and the sale never happened.
	var sale model.Sale
	txErr := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		folio, err := s.repo.NextFolio(ctx, tx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			Folio:      folio,
			Date:       time.Now(),
			UserID:     userID,
			CustomerID: customer.ID,
			SupplierID: supplierID,
			Subtotal:   cart.Subtotal(),
			Tax:        cart.Tax(),
			Total:      cart.Total(),
			Points:     cart.PointsEarned(),
		}
		if tier != nil {
			tierID := tier.ID
			sale.DiscountTierID = &tierID
		}
		for _, l := range cart.Lines() {
			sale.Items = append(sale.Items, model.SaleItem{
				Folio:     folio,
				ArticleID: l.ArticleID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			})
		}

		if err := s.repo.CreateTx(ctx, tx, &sale); err != nil {
			return err
		}

		for _, l := range cart.Lines() {
			if err := s.stockRepo.AdjustStockTx(tx, supplierID, l.ArticleID, -l.Quantity, repository.MovementSale, &folio); err != nil {
				return fmt.Errorf("stock for %s: %w", l.Description, err)
			}
		}

		return s.customerRepo.AddPointsTx(tx, customer.ID, sale.Points)
	})
	if txErr != nil {
		return nil, txErr
	}
	cart.markPersisted()

	if s.receipts != nil {
		s.receipts.SaleCompleted(ctx, &sale, cart.Lines(), cart.Change(), req.CustomerEmail)
	}

	resp := saleToResponse(&sale, cart.Lines())
	resp.CustomerName = customer.Name
	resp.Discount = cart.Discount()
	resp.Tender = cart.Tender()
	resp.Change = cart.Change()
	return resp, nil
}

// resolveTier applies the discount precedence rule: an explicit pick wins
// when it is eligible, "none" suppresses the discount, and no pick defaults
// to the best eligible tier.
func (s *saleService) resolveTier(ctx context.Context, points int, selection string) (*model.DiscountTier, error) {
	if selection == NoDiscount {
		return nil, nil
	}
	eligible, err := s.discounts.EligibleTiers(ctx, points)
	if err != nil {
		return nil, err
	}
	if selection == "" {
		if len(eligible) == 0 {
			return nil, nil
		}
		return &eligible[0], nil
	}

	tierID, err := uuid.Parse(selection)
	if err != nil {
		return nil, fmt.Errorf("invalid discount_tier_id: %w", err)
	}
	for i := range eligible {
		if eligible[i].ID == tierID {
			return &eligible[i], nil
		}
	}
	return nil, fmt.Errorf("%w: tier %s for %d points", apierror.ErrTierNotEligible, selection, points)
}

func (s *saleService) Get(ctx context.Context, folio int) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByFolio(ctx, folio)
	if err != nil {
		return nil, err
	}
	return persistedSaleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *persistedSaleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *saleService) Cancel(ctx context.Context, folio int) error {
	sale, err := s.repo.FindByFolio(ctx, folio)
	if err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if s.cfg.CancelRestoresStock {
			for _, item := range sale.Items {
				if err := s.stockRepo.AdjustStockTx(tx, sale.SupplierID, item.ArticleID, item.Quantity, repository.MovementCancelRestore, &sale.Folio); err != nil {
					return err
				}
			}
		}
		return s.repo.DeleteTx(tx, folio)
	})
}

func saleToResponse(sale *model.Sale, lines []CartLine) *dto.SaleResponse {
	items := make([]dto.SaleLineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, dto.SaleLineResponse{
			ArticleID:   l.ArticleID.String(),
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		})
	}
	resp := &dto.SaleResponse{
		Folio:        sale.Folio,
		Date:         sale.Date.Format("2006-01-02"),
		CustomerID:   sale.CustomerID.String(),
		Items:        items,
		Subtotal:     sale.Subtotal,
		Tax:          sale.Tax,
		Total:        sale.Total,
		PointsEarned: sale.Points,
	}
	if sale.DiscountTierID != nil {
		resp.DiscountTierID = sale.DiscountTierID.String()
	}
	return resp
}

func persistedSaleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleLineResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		desc := ""
		if item.Article != nil {
			desc = item.Article.Description
		}
		items = append(items, dto.SaleLineResponse{
			ArticleID:   item.ArticleID.String(),
			Description: desc,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	resp := &dto.SaleResponse{
		Folio:        sale.Folio,
		Date:         sale.Date.Format("2006-01-02"),
		CustomerID:   sale.CustomerID.String(),
		Items:        items,
		Subtotal:     sale.Subtotal,
		Tax:          sale.Tax,
		Total:        sale.Total,
		PointsEarned: sale.Points,
	}
	if sale.Customer != nil {
		resp.CustomerName = sale.Customer.Name
	}
	if sale.DiscountTierID != nil {
		resp.DiscountTierID = sale.DiscountTierID.String()
	}
	return resp
}
