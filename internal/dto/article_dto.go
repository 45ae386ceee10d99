package dto

import "github.com/shopspring/decimal"

type SaveArticleRequest struct {
	Description string          `json:"description" validate:"required,min=3"`
	SalePrice   decimal.Decimal `json:"sale_price" validate:"required,gt=0"`
}

type ArticleResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	SalePrice   decimal.Decimal `json:"sale_price"`
}

// PriceCheckResponse is the public, cached price lookup payload.
type PriceCheckResponse struct {
	Description string          `json:"description"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Stock       []SupplierStock `json:"stock"`
}

type SupplierStock struct {
	SupplierID   string `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Stock        int    `json:"stock"`
}
