package service

import (
	"context"
	"fmt"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/model"
	"github.com/siddronomomos/farmacia/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountService manages point tiers and resolves which tiers a customer's
// balance makes eligible.
type DiscountService interface {
	Create(ctx context.Context, req dto.SaveTierRequest) (*dto.TierResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SaveTierRequest) (*dto.TierResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]dto.TierResponse, error)
	// EligibleTiers returns every tier covering points, best percentage
	// first. Empty result = no discount applies.
	EligibleTiers(ctx context.Context, points int) ([]model.DiscountTier, error)
}

type discountService struct {
	repo repository.DiscountRepository
}

func NewDiscountService(repo repository.DiscountRepository) DiscountService {
	return &discountService{repo: repo}
}

func validateTier(req dto.SaveTierRequest) error {
	if req.MinPoints < 0 || req.MaxPoints < 0 {
		return fmt.Errorf("%w: point bounds must be non-negative", apierror.ErrInvalidState)
	}
	if req.MinPoints >= req.MaxPoints {
		return fmt.Errorf("%w: min_points must be below max_points", apierror.ErrInvalidState)
	}
	if req.Percentage.LessThan(decimal.Zero) || req.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: percentage out of range", apierror.ErrInvalidState)
	}
	return nil
}

func (s *discountService) Create(ctx context.Context, req dto.SaveTierRequest) (*dto.TierResponse, error) {
	if err := validateTier(req); err != nil {
		return nil, err
	}
	tier := &model.DiscountTier{
		MinPoints:  req.MinPoints,
		MaxPoints:  req.MaxPoints,
		Percentage: req.Percentage,
	}
	if err := s.repo.Create(ctx, tier); err != nil {
		return nil, err
	}
	return tierToResponse(tier), nil
}

func (s *discountService) Update(ctx context.Context, id uuid.UUID, req dto.SaveTierRequest) (*dto.TierResponse, error) {
	if err := validateTier(req); err != nil {
		return nil, err
	}
	tier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tier.MinPoints = req.MinPoints
	tier.MaxPoints = req.MaxPoints
	tier.Percentage = req.Percentage
	if err := s.repo.Update(ctx, tier); err != nil {
		return nil, err
	}
	return tierToResponse(tier), nil
}

func (s *discountService) Delete(ctx context.Context, id uuid.UUID) error {
	used, err := s.repo.HasSales(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("%w: tier applied by existing sales", apierror.ErrReferentialConflict)
	}
	return s.repo.Delete(ctx, id)
}

func (s *discountService) List(ctx context.Context) ([]dto.TierResponse, error) {
	tiers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TierResponse, len(tiers))
	for i := range tiers {
		resp[i] = *tierToResponse(&tiers[i])
	}
	return resp, nil
}

func (s *discountService) EligibleTiers(ctx context.Context, points int) ([]model.DiscountTier, error) {
	return s.repo.FindForPoints(ctx, points)
}

func tierToResponse(t *model.DiscountTier) *dto.TierResponse {
	return &dto.TierResponse{
		ID:         t.ID.String(),
		MinPoints:  t.MinPoints,
		MaxPoints:  t.MaxPoints,
		Percentage: t.Percentage,
	}
}
