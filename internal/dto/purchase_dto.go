package dto

import "github.com/shopspring/decimal"

type PurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required,uuid"`
	Items      []PurchaseLineRequest `json:"items" validate:"required,min=1,dive"`
}

type PurchaseLineRequest struct {
	ArticleID string          `json:"article_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"required,gt=0"`
}

type PurchaseLineResponse struct {
	ArticleID   string          `json:"article_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

type PurchaseResponse struct {
	Folio        int                    `json:"folio"`
	Date         string                 `json:"date"`
	SupplierID   string                 `json:"supplier_id"`
	SupplierName string                 `json:"supplier_name,omitempty"`
	Items        []PurchaseLineResponse `json:"items"`
	Total        decimal.Decimal        `json:"total"`
}

type PurchaseFilter struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
