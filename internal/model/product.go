package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The ID is assigned on creation and never
// changes afterwards; all other fields may be edited.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Barcode     string          `json:"barcode,omitempty"`
	Description string          `json:"description,omitempty"`
	// QuickKey maps the product to a register hotkey (e.g. "F1").
	QuickKey  string    `json:"quickKey,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
