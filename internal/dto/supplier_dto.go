package dto

import "github.com/shopspring/decimal"

type SaveSupplierRequest struct {
	Name    string `json:"name" validate:"required,min=3"`
	Company string `json:"company" validate:"required,min=3"`
	Phone   string `json:"phone" validate:"required,min=7"`
	Address string `json:"address" validate:"required,min=5"`
}

type SupplierResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// LinkArticleRequest creates or reprices a supplier-article link.
type LinkArticleRequest struct {
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"required,gt=0"`
}

// AdjustStockRequest applies a manual stock delta on a supplier-article link.
type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type SupplierArticleResponse struct {
	SupplierID    string          `json:"supplier_id"`
	ArticleID     string          `json:"article_id"`
	Description   string          `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Stock         int             `json:"stock"`
}
