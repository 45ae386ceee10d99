package repository

import (
	"context"

	"github.com/siddronomomos/farmacia/internal/dto"

	"gorm.io/gorm"
)

// ReportRepository runs the read-only aggregate projections behind the
// report screen. No core logic here — raw queries over the data model.
type ReportRepository interface {
	SalesByPeriod(ctx context.Context, from, to string) ([]dto.SalesReportRow, error)
	PurchasesByPeriod(ctx context.Context, from, to string) ([]dto.PurchasesReportRow, error)
	TopArticles(ctx context.Context, from, to string, limit int) ([]dto.TopArticleRow, error)
	TopCustomers(ctx context.Context, from, to string, limit int) ([]dto.TopCustomerRow, error)
	LowStock(ctx context.Context, limit int) ([]dto.LowStockRow, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) SalesByPeriod(ctx context.Context, from, to string) ([]dto.SalesReportRow, error) {
	var rows []dto.SalesReportRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.folio,
		       to_char(s.date, 'YYYY-MM-DD') AS date,
		       c.name AS customer_name,
		       s.total,
		       s.points
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.date BETWEEN ? AND ?
		ORDER BY s.date DESC, s.folio DESC`, from, to).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) PurchasesByPeriod(ctx context.Context, from, to string) ([]dto.PurchasesReportRow, error) {
	var rows []dto.PurchasesReportRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.folio,
		       to_char(p.date, 'YYYY-MM-DD') AS date,
		       sp.name AS supplier_name,
		       p.total
		FROM purchases p
		JOIN suppliers sp ON sp.id = p.supplier_id
		WHERE p.date BETWEEN ? AND ?
		ORDER BY p.date DESC, p.folio DESC`, from, to).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) TopArticles(ctx context.Context, from, to string, limit int) ([]dto.TopArticleRow, error) {
	var rows []dto.TopArticleRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT a.id AS article_id,
		       a.description,
		       SUM(i.quantity) AS sold,
		       SUM(i.quantity * i.unit_price) AS total
		FROM sale_items i
		JOIN sales s ON s.folio = i.folio
		JOIN articles a ON a.id = i.article_id
		WHERE s.date BETWEEN ? AND ?
		GROUP BY a.id, a.description
		ORDER BY sold DESC
		LIMIT ?`, from, to, limit).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) TopCustomers(ctx context.Context, from, to string, limit int) ([]dto.TopCustomerRow, error) {
	var rows []dto.TopCustomerRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id,
		       c.name,
		       COUNT(*) AS sales,
		       SUM(s.total) AS total
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.date BETWEEN ? AND ?
		GROUP BY c.id, c.name
		ORDER BY total DESC
		LIMIT ?`, from, to, limit).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) LowStock(ctx context.Context, limit int) ([]dto.LowStockRow, error) {
	var rows []dto.LowStockRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT a.id AS article_id,
		       a.description,
		       sp.name AS supplier_name,
		       sa.stock
		FROM supplier_articles sa
		JOIN articles a ON a.id = sa.article_id
		JOIN suppliers sp ON sp.id = sa.supplier_id
		WHERE sa.stock < ?
		ORDER BY sa.stock ASC`, limit).Scan(&rows).Error
	return rows, err
}
