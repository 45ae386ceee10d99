package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/siddronomomos/farmacia/internal/config"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/repository"
)

const topRowsLimit = 10

type ReportService interface {
	Sales(ctx context.Context, period dto.ReportPeriod) ([]dto.SalesReportRow, error)
	Purchases(ctx context.Context, period dto.ReportPeriod) ([]dto.PurchasesReportRow, error)
	TopArticles(ctx context.Context, period dto.ReportPeriod) ([]dto.TopArticleRow, error)
	TopCustomers(ctx context.Context, period dto.ReportPeriod) ([]dto.TopCustomerRow, error)
	LowStock(ctx context.Context) ([]dto.LowStockRow, error)

	// ExportSalesCSV streams the period's sales as CSV, header row first.
	ExportSalesCSV(ctx context.Context, period dto.ReportPeriod, w io.Writer) error
	ExportPurchasesCSV(ctx context.Context, period dto.ReportPeriod, w io.Writer) error
}

type reportService struct {
	repo repository.ReportRepository
	cfg  *config.Config
}

func NewReportService(repo repository.ReportRepository, cfg *config.Config) ReportService {
	return &reportService{repo: repo, cfg: cfg}
}

func validatePeriod(period dto.ReportPeriod) error {
	from, err := time.Parse("2006-01-02", period.From)
	if err != nil {
		return fmt.Errorf("invalid from date: %w", err)
	}
	to, err := time.Parse("2006-01-02", period.To)
	if err != nil {
		return fmt.Errorf("invalid to date: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("period end %s precedes start %s", period.To, period.From)
	}
	return nil
}

func (s *reportService) Sales(ctx context.Context, period dto.ReportPeriod) ([]dto.SalesReportRow, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.repo.SalesByPeriod(ctx, period.From, period.To)
}

func (s *reportService) Purchases(ctx context.Context, period dto.ReportPeriod) ([]dto.PurchasesReportRow, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.repo.PurchasesByPeriod(ctx, period.From, period.To)
}

func (s *reportService) TopArticles(ctx context.Context, period dto.ReportPeriod) ([]dto.TopArticleRow, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.repo.TopArticles(ctx, period.From, period.To, topRowsLimit)
}

func (s *reportService) TopCustomers(ctx context.Context, period dto.ReportPeriod) ([]dto.TopCustomerRow, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.repo.TopCustomers(ctx, period.From, period.To, topRowsLimit)
}

func (s *reportService) LowStock(ctx context.Context) ([]dto.LowStockRow, error) {
	return s.repo.LowStock(ctx, s.cfg.LowStockLimit)
}

func (s *reportService) ExportSalesCSV(ctx context.Context, period dto.ReportPeriod, w io.Writer) error {
	rows, err := s.Sales(ctx, period)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"folio", "date", "customer", "total", "points"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Folio),
			r.Date,
			r.CustomerName,
			r.Total.StringFixed(2),
			strconv.Itoa(r.Points),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *reportService) ExportPurchasesCSV(ctx context.Context, period dto.ReportPeriod, w io.Writer) error {
	rows, err := s.Purchases(ctx, period)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"folio", "date", "supplier", "total"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Folio),
			r.Date,
			r.SupplierName,
			r.Total.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
