package dto

import (
	"tillpoint/internal/model"

	"github.com/shopspring/decimal"
)

type AddLineRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"min=1"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"` // 0 removes the line
}

type ApplyDiscountRequest struct {
	Type  string          `json:"type"  validate:"required,oneof=percentage fixed"`
	Value decimal.Decimal `json:"value" validate:"required"`
	Code  string          `json:"code"`
}

// TotalsResponse mirrors the pricing calculator output.
type TotalsResponse struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	DiscountedSubtotal decimal.Decimal `json:"discountedSubtotal"`
	Tax                decimal.Decimal `json:"tax"`
	Total              decimal.Decimal `json:"total"`
}

type CartResponse struct {
	Lines    []model.CartLine `json:"lines"`
	Discount *model.Discount  `json:"discount,omitempty"`
	Totals   TotalsResponse   `json:"totals"`
}
