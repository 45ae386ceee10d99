package dto

import "github.com/shopspring/decimal"

type SaveTierRequest struct {
	MinPoints  int             `json:"min_points" validate:"min=0"`
	MaxPoints  int             `json:"max_points" validate:"min=0"`
	Percentage decimal.Decimal `json:"percentage" validate:"min=0,max=100"`
}

type TierResponse struct {
	ID         string          `json:"id"`
	MinPoints  int             `json:"min_points"`
	MaxPoints  int             `json:"max_points"`
	Percentage decimal.Decimal `json:"percentage"`
}
