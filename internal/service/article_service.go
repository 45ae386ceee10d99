package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/model"
	"github.com/siddronomomos/farmacia/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Cache is the read-through cache used by the public price check. A nil
// Cache disables caching without changing behavior.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

const priceCheckTTL = 60 * time.Second

type ArticleService interface {
	Create(ctx context.Context, req dto.SaveArticleRequest) (*dto.ArticleResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SaveArticleRequest) (*dto.ArticleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ArticleResponse, error)
	List(ctx context.Context, search string) ([]dto.ArticleResponse, error)
	// Delete refuses when the article appears in links, sales or purchases.
	Delete(ctx context.Context, id uuid.UUID) error

	// PriceCheck is the public lookup: description, sale price and
	// per-supplier availability, cached briefly to absorb counter traffic.
	PriceCheck(ctx context.Context, id uuid.UUID) (*dto.PriceCheckResponse, error)
	Movements(ctx context.Context, id uuid.UUID, limit int) ([]model.StockMovement, error)
}

type articleService struct {
	repo      repository.ArticleRepository
	stockRepo repository.StockRepository
	cache     Cache
}

func NewArticleService(repo repository.ArticleRepository, stockRepo repository.StockRepository, cache Cache) ArticleService {
	return &articleService{repo: repo, stockRepo: stockRepo, cache: cache}
}

func (s *articleService) Create(ctx context.Context, req dto.SaveArticleRequest) (*dto.ArticleResponse, error) {
	article := &model.Article{
		Description: req.Description,
		SalePrice:   req.SalePrice,
	}
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}
	return articleToResponse(article), nil
}

func (s *articleService) Update(ctx context.Context, id uuid.UUID, req dto.SaveArticleRequest) (*dto.ArticleResponse, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	article.Description = req.Description
	article.SalePrice = req.SalePrice
	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return articleToResponse(article), nil
}

func (s *articleService) Get(ctx context.Context, id uuid.UUID) (*dto.ArticleResponse, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return articleToResponse(article), nil
}

func (s *articleService) List(ctx context.Context, search string) ([]dto.ArticleResponse, error) {
	var (
		articles []model.Article
		err      error
	)
	if search != "" {
		articles, err = s.repo.Search(ctx, search)
	} else {
		articles, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		out = append(out, *articleToResponse(&articles[i]))
	}
	return out, nil
}

func (s *articleService) Delete(ctx context.Context, id uuid.UUID) error {
	hasDeps, err := s.repo.HasDependents(ctx, id)
	if err != nil {
		return err
	}
	if hasDeps {
		return fmt.Errorf("%w: article has stock links or movement history", apierror.ErrReferentialConflict)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func priceCheckKey(id uuid.UUID) string { return "pricecheck:" + id.String() }

func (s *articleService) PriceCheck(ctx context.Context, id uuid.UUID) (*dto.PriceCheckResponse, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, priceCheckKey(id)); ok {
			var cached dto.PriceCheckResponse
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
			log.Warn().Str("article_id", id.String()).Msg("discarding corrupt price check cache entry")
		}
	}

	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.stockRepo.ListByArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.PriceCheckResponse{
		Description: article.Description,
		SalePrice:   article.SalePrice,
		Stock:       make([]dto.SupplierStock, 0, len(links)),
	}
	for _, link := range links {
		entry := dto.SupplierStock{SupplierID: link.SupplierID.String(), Stock: link.Stock}
		if link.Supplier != nil {
			entry.SupplierName = link.Supplier.Name
		}
		resp.Stock = append(resp.Stock, entry)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			s.cache.Set(ctx, priceCheckKey(id), string(raw), priceCheckTTL)
		}
	}
	return resp, nil
}

func (s *articleService) Movements(ctx context.Context, id uuid.UUID, limit int) ([]model.StockMovement, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return s.stockRepo.ListMovements(ctx, id, limit)
}

func (s *articleService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		s.cache.Delete(ctx, priceCheckKey(id))
	}
}

func articleToResponse(a *model.Article) *dto.ArticleResponse {
	return &dto.ArticleResponse{
		ID:          a.ID.String(),
		Description: a.Description,
		SalePrice:   a.SalePrice,
	}
}
