package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Search   string `form:"search"`   // substring match on name or barcode
	Category string `form:"category"` // exact match
	Active   string `form:"active"`   // "false" = inactive, "all" = everything, default active
}

type CreateProductRequest struct {
	ID          string          `json:"id"` // optional; generated when empty
	Name        string          `json:"name"     validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Price       decimal.Decimal `json:"price"    validate:"min=0"`
	Stock       int             `json:"stock"    validate:"min=0"`
	Barcode     string          `json:"barcode"`
	Description string          `json:"description"`
	QuickKey    string          `json:"quickKey"`
}

// UpdateProductRequest uses pointers so absent fields are left untouched.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"  validate:"omitempty,min=0"`
	Stock       *int             `json:"stock"  validate:"omitempty,min=0"`
	Barcode     *string          `json:"barcode"`
	Description *string          `json:"description"`
	QuickKey    *string          `json:"quickKey"`
}

// AdjustStockRequest applies a signed delta: positive for reorder receipts,
// negative for shrinkage corrections. The result may never go below zero.
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason"`
}
