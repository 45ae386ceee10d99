package dto

import "github.com/shopspring/decimal"

// CheckoutRequest carries one complete sale: the attached customer, the
// supplier context the cart was built against, the cart lines, the tendered
// cash and the discount selection.
//
// DiscountTierID semantics: empty = auto-apply the best eligible tier,
// "none" = no discount even when eligible, otherwise the explicit tier id
// (rejected when not eligible for the customer's points).
type CheckoutRequest struct {
	CustomerID     string            `json:"customer_id" validate:"required,uuid"`
	SupplierID     string            `json:"supplier_id" validate:"required,uuid"`
	Items          []SaleLineRequest `json:"items" validate:"required,min=1,dive"`
	Tender         decimal.Decimal   `json:"tender" validate:"required"`
	DiscountTierID string            `json:"discount_tier_id" validate:"omitempty"`
	CustomerEmail  string            `json:"customer_email" validate:"omitempty,email"`
}

type SaleLineRequest struct {
	ArticleID string `json:"article_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type SaleLineResponse struct {
	ArticleID   string          `json:"article_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	Folio          int                `json:"folio"`
	Date           string             `json:"date"`
	CustomerID     string             `json:"customer_id"`
	CustomerName   string             `json:"customer_name,omitempty"`
	Items          []SaleLineResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Discount       decimal.Decimal    `json:"discount"`
	Tax            decimal.Decimal    `json:"tax"`
	Total          decimal.Decimal    `json:"total"`
	Tender         decimal.Decimal    `json:"tender"`
	Change         decimal.Decimal    `json:"change"`
	PointsEarned   int                `json:"points_earned"`
	DiscountTierID string             `json:"discount_tier_id,omitempty"`
}

type SaleFilter struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
