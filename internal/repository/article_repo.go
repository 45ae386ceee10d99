package repository

import (
	"context"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArticleRepository interface {
	Create(ctx context.Context, a *model.Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error)
	List(ctx context.Context) ([]model.Article, error)
	Search(ctx context.Context, term string) ([]model.Article, error)
	Update(ctx context.Context, a *model.Article) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasDependents(ctx context.Context, id uuid.UUID) (bool, error)
}

type articleRepo struct{ db *gorm.DB }

func NewArticleRepository(db *gorm.DB) ArticleRepository { return &articleRepo{db: db} }

func (r *articleRepo) Create(ctx context.Context, a *model.Article) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *articleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	var a model.Article
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &a, nil
}

func (r *articleRepo) List(ctx context.Context) ([]model.Article, error) {
	var articles []model.Article
	err := r.db.WithContext(ctx).Order("description ASC").Find(&articles).Error
	return articles, err
}

func (r *articleRepo) Search(ctx context.Context, term string) ([]model.Article, error) {
	var articles []model.Article
	err := r.db.WithContext(ctx).
		Where("description ILIKE ?", "%"+term+"%").
		Order("description ASC").Find(&articles).Error
	return articles, err
}

func (r *articleRepo) Update(ctx context.Context, a *model.Article) error {
	res := r.db.WithContext(ctx).Save(a)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrNotFound
	}
	return nil
}

func (r *articleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Article{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.ErrNotFound
	}
	return nil
}

// HasDependents reports whether the article is referenced by supplier links
// or by sale/purchase lines.
func (r *articleRepo) HasDependents(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, m := range []interface{}{&model.SupplierArticle{}, &model.SaleItem{}, &model.PurchaseItem{}} {
		var count int64
		if err := r.db.WithContext(ctx).Model(m).Where("article_id = ?", id).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
