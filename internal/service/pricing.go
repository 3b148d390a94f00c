package service

import (
	"tillpoint/internal/model"

	"github.com/shopspring/decimal"
)

// taxRate is fixed at 10%, applied to the discounted subtotal when enabled.
var taxRate = decimal.NewFromInt(10).Div(decimal.NewFromInt(100))

var hundred = decimal.NewFromInt(100)

// Totals is the output of the pricing calculator.
type Totals struct {
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	DiscountedSubtotal decimal.Decimal
	Tax                decimal.Decimal
	Total              decimal.Decimal
}

// ComputeTotals is the pure pricing/discount/tax calculation:
//
//	subtotal           = Σ price × quantity
//	discountAmount     = subtotal × value/100 (percentage, value clamped ≤ 100)
//	                     min(value, subtotal) (fixed)
//	discountedSubtotal = subtotal − discountAmount   (≥ 0 by construction)
//	tax                = discountedSubtotal × 10% when enabled, else 0
//	total              = discountedSubtotal + tax
//
// Discounts with value ≤ 0 are rejected by callers before this runs; the
// clamps here only guarantee the total can never go negative.
func ComputeTotals(lines []model.CartLine, disc *model.Discount, taxEnabled bool) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	discount := decimal.Zero
	if disc != nil {
		switch disc.Type {
		case model.DiscountPercentage:
			v := disc.Value
			if v.GreaterThan(hundred) {
				v = hundred
			}
			discount = subtotal.Mul(v).Div(hundred)
		case model.DiscountFixed:
			discount = disc.Value
			if discount.GreaterThan(subtotal) {
				discount = subtotal
			}
		}
	}

	discounted := subtotal.Sub(discount)
	tax := decimal.Zero
	if taxEnabled {
		tax = discounted.Mul(taxRate)
	}

	return Totals{
		Subtotal:           subtotal,
		DiscountAmount:     discount,
		DiscountedSubtotal: discounted,
		Tax:                tax,
		Total:              discounted.Add(tax),
	}
}
