package dto

import "github.com/shopspring/decimal"

// ReportPeriod is the parsed ?from=YYYY-MM-DD&to=YYYY-MM-DD query pair.
type ReportPeriod struct {
	From string `form:"from" validate:"required"`
	To   string `form:"to" validate:"required"`
}

type SalesReportRow struct {
	Folio        int             `json:"folio"`
	Date         string          `json:"date"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	Points       int             `json:"points"`
}

type PurchasesReportRow struct {
	Folio        int             `json:"folio"`
	Date         string          `json:"date"`
	SupplierName string          `json:"supplier_name"`
	Total        decimal.Decimal `json:"total"`
}

type TopArticleRow struct {
	ArticleID   string          `json:"article_id"`
	Description string          `json:"description"`
	Sold        int             `json:"sold"`
	Total       decimal.Decimal `json:"total"`
}

type TopCustomerRow struct {
	CustomerID string          `json:"customer_id"`
	Name       string          `json:"name"`
	Sales      int             `json:"sales"`
	Total      decimal.Decimal `json:"total"`
}

type LowStockRow struct {
	ArticleID    string `json:"article_id"`
	Description  string `json:"description"`
	SupplierName string `json:"supplier_name"`
	Stock        int    `json:"stock"`
}
