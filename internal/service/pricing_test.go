package service

import (
	"testing"

	"tillpoint/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func line(id, name, price string, qty int) model.CartLine {
	return model.CartLine{ProductID: id, Name: name, Price: dec(price), Quantity: qty}
}

func TestComputeTotals_PercentageDiscountWithTax(t *testing.T) {
	lines := []model.CartLine{line("p1", "Widget", "100", 2)}
	disc := &model.Discount{Type: model.DiscountPercentage, Value: dec("10")}

	got := ComputeTotals(lines, disc, true)

	assert.True(t, got.Subtotal.Equal(dec("200")), "subtotal %s", got.Subtotal)
	assert.True(t, got.DiscountAmount.Equal(dec("20")), "discount %s", got.DiscountAmount)
	assert.True(t, got.DiscountedSubtotal.Equal(dec("180")))
	assert.True(t, got.Tax.Equal(dec("18")), "tax %s", got.Tax)
	assert.True(t, got.Total.Equal(dec("198")), "total %s", got.Total)
}

func TestComputeTotals_FixedDiscountClampedAtSubtotal(t *testing.T) {
	lines := []model.CartLine{line("p1", "Widget", "50", 3)}
	disc := &model.Discount{Type: model.DiscountFixed, Value: dec("1000")}

	got := ComputeTotals(lines, disc, false)

	assert.True(t, got.DiscountAmount.Equal(dec("150")))
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.IsZero(), "total %s", got.Total)
}

func TestComputeTotals_PercentageClampedAt100(t *testing.T) {
	lines := []model.CartLine{line("p1", "Widget", "80", 1)}
	disc := &model.Discount{Type: model.DiscountPercentage, Value: dec("250")}

	got := ComputeTotals(lines, disc, false)

	assert.True(t, got.DiscountAmount.Equal(dec("80")))
	assert.True(t, got.Total.IsZero())
}

func TestComputeTotals_TaxDisabled(t *testing.T) {
	lines := []model.CartLine{line("p1", "Widget", "9.99", 3)}

	got := ComputeTotals(lines, nil, false)

	assert.True(t, got.Subtotal.Equal(dec("29.97")))
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.Equal(dec("29.97")))
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	got := ComputeTotals(nil, nil, true)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Total.IsZero())
}
