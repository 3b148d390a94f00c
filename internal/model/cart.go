package model

import "github.com/shopspring/decimal"

// DiscountType selects how a cart discount is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount is the pending cart-level discount. Percentage values are capped
// at 100 and fixed values at the subtotal, so the total can never go negative.
type Discount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
	Code  string          `json:"code,omitempty"`
}

// CartLine is one product selection in the cart. Price is a snapshot taken
// when the line was added — later catalog price edits do not affect it.
type CartLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Cart holds the transient pre-checkout state: one line per product plus the
// pending discount. It is never persisted; checkout snapshots it into a Sale.
type Cart struct {
	Lines    []CartLine `json:"lines"`
	Discount *Discount  `json:"discount,omitempty"`
}

// Line returns a pointer to the line for productID, or nil.
func (c *Cart) Line(productID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// RemoveLine deletes the line for productID, preserving order.
func (c *Cart) RemoveLine(productID string) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}
