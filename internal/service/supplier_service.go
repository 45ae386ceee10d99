package service

import (
	"context"
	"fmt"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/model"
	"github.com/siddronomomos/farmacia/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.SaveSupplierRequest) (*dto.SupplierResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SaveSupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context, search string) ([]dto.SupplierResponse, error)
	// Delete refuses when the supplier still has article links or purchases.
	Delete(ctx context.Context, id uuid.UUID) error

	// LinkArticle creates or reprices the catalog entry for an article
	// sourced from this supplier.
	LinkArticle(ctx context.Context, supplierID, articleID uuid.UUID, req dto.LinkArticleRequest) (*dto.SupplierArticleResponse, error)
	// AdjustStock applies a manual correction to a link's stock. Negative
	// deltas beyond the available quantity are rejected.
	AdjustStock(ctx context.Context, supplierID, articleID uuid.UUID, req dto.AdjustStockRequest) (*dto.SupplierArticleResponse, error)
	Catalog(ctx context.Context, supplierID uuid.UUID) ([]dto.SupplierArticleResponse, error)
}

type supplierService struct {
	repo      repository.SupplierRepository
	stockRepo repository.StockRepository
}

func NewSupplierService(repo repository.SupplierRepository, stockRepo repository.StockRepository) SupplierService {
	return &supplierService{repo: repo, stockRepo: stockRepo}
}

func (s *supplierService) Create(ctx context.Context, req dto.SaveSupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &model.Supplier{
		Name:    req.Name,
		Company: req.Company,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req dto.SaveSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier.Name = req.Name
	supplier.Company = req.Company
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return supplierToResponse(supplier), nil
}

func (s *supplierService) List(ctx context.Context, search string) ([]dto.SupplierResponse, error) {
	var (
		suppliers []model.Supplier
		err       error
	)
	if search != "" {
		suppliers, err = s.repo.Search(ctx, search)
	} else {
		suppliers, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, *supplierToResponse(&suppliers[i]))
	}
	return out, nil
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	hasDeps, err := s.repo.HasDependents(ctx, id)
	if err != nil {
		return err
	}
	if hasDeps {
		return fmt.Errorf("%w: supplier has linked articles or purchases", apierror.ErrReferentialConflict)
	}
	return s.repo.Delete(ctx, id)
}

func (s *supplierService) LinkArticle(ctx context.Context, supplierID, articleID uuid.UUID, req dto.LinkArticleRequest) (*dto.SupplierArticleResponse, error) {
	if _, err := s.repo.FindByID(ctx, supplierID); err != nil {
		return nil, fmt.Errorf("supplier: %w", err)
	}
	link := &model.SupplierArticle{
		SupplierID:    supplierID,
		ArticleID:     articleID,
		PurchasePrice: req.PurchasePrice,
	}
	if err := s.stockRepo.UpsertLink(ctx, link); err != nil {
		return nil, err
	}
	fresh, err := s.stockRepo.FindLink(ctx, supplierID, articleID)
	if err != nil {
		return nil, err
	}
	return linkToResponse(fresh), nil
}

func (s *supplierService) AdjustStock(ctx context.Context, supplierID, articleID uuid.UUID, req dto.AdjustStockRequest) (*dto.SupplierArticleResponse, error) {
	err := s.stockRepo.Transaction(ctx, func(tx *gorm.DB) error {
		return s.stockRepo.AdjustStockTx(tx, supplierID, articleID, req.Delta, repository.MovementManual, nil)
	})
	if err != nil {
		return nil, err
	}
	fresh, err := s.stockRepo.FindLink(ctx, supplierID, articleID)
	if err != nil {
		return nil, err
	}
	return linkToResponse(fresh), nil
}

func (s *supplierService) Catalog(ctx context.Context, supplierID uuid.UUID) ([]dto.SupplierArticleResponse, error) {
	links, err := s.stockRepo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierArticleResponse, 0, len(links))
	for i := range links {
		out = append(out, *linkToResponse(&links[i]))
	}
	return out, nil
}

func supplierToResponse(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:      s.ID.String(),
		Name:    s.Name,
		Company: s.Company,
		Phone:   s.Phone,
		Address: s.Address,
	}
}

func linkToResponse(l *model.SupplierArticle) *dto.SupplierArticleResponse {
	resp := &dto.SupplierArticleResponse{
		SupplierID:    l.SupplierID.String(),
		ArticleID:     l.ArticleID.String(),
		PurchasePrice: l.PurchasePrice,
		Stock:         l.Stock,
	}
	if l.Article != nil {
		resp.Description = l.Article.Description
		resp.SalePrice = l.Article.SalePrice
	}
	return resp
}
