package repository

import (
	"context"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountRepository interface {
	Create(ctx context.Context, t *model.DiscountTier) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DiscountTier, error)
	List(ctx context.Context) ([]model.DiscountTier, error)
	// FindForPoints returns the tiers whose inclusive band covers points,
	// best discount first.
	FindForPoints(ctx context.Context, points int) ([]model.DiscountTier, error)
	Update(ctx context.Context, t *model.DiscountTier) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasSales(ctx context.Context, id uuid.UUID) (bool, error)
}

type discountRepo struct{ db *gorm.DB }

func NewDiscountRepository(db *gorm.DB) DiscountRepository { return &discountRepo{db: db} }

func (r *discountRepo) Create(ctx context.Context, t *model.DiscountTier) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *discountRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DiscountTier, error) {
	var t model.DiscountTier
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &t, nil
}

func (r *discountRepo) List(ctx context.Context) ([]model.DiscountTier, error) {
	var tiers []model.DiscountTier
	err := r.db.WithContext(ctx).Order("min_points ASC").Find(&tiers).Error
	return tiers, err
}

func (r *discountRepo) FindForPoints(ctx context.Context, points int) ([]model.DiscountTier, error) {
	var tiers []model.DiscountTier
	err := r.db.WithContext(ctx).
		Where("? BETWEEN min_points AND max_points", points).
		Order("percentage DESC").Find(&tiers).Error
	return tiers, err
}

func (r *discountRepo) Update(ctx context.Context, t *model.DiscountTier) error {
	res := r.db.WithContext(ctx).Save(t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrNotFound
	}
	return nil
}

func (r *discountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.DiscountTier{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrNotFound
	}
	return nil
}

func (r *discountRepo) HasSales(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("discount_tier_id = ?", id).Count(&count).Error
	return count > 0, err
}
