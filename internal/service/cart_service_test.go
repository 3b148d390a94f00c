package service

import (
	"context"
	"testing"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestState returns a state with no backend: flushes are no-ops, which is
// exactly what service-level tests want.
func newTestState(t *testing.T, products ...model.Product) *store.State {
	t.Helper()
	state := store.NewState(nil)
	state.Update(func(d *store.Data) []string {
		d.Products = append(d.Products, products...)
		return nil
	})
	return state
}

func testProduct(id, name, price string, stock int) model.Product {
	return model.Product{
		ID: id, Name: name, Category: "General",
		Price: dec(price), Stock: stock, Active: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
}

func newCartFixture(t *testing.T, products ...model.Product) (CartService, *store.State) {
	state := newTestState(t, products...)
	productRepo := repository.NewProductRepository(state)
	settingsRepo := repository.NewSettingsRepository(state)
	return NewCartService(state, productRepo, settingsRepo), state
}

func TestCartAddLine_MergesQuantities(t *testing.T) {
	svc, _ := newCartFixture(t, testProduct("p1", "Coffee", "4.50", 10))
	ctx := context.Background()

	_, err := svc.AddLine(ctx, dto.AddLineRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	resp, err := svc.AddLine(ctx, dto.AddLineRequest{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 5, resp.Lines[0].Quantity)
}

func TestCartAddLine_RejectsOverStock(t *testing.T) {
	svc, _ := newCartFixture(t, testProduct("p1", "Coffee", "4.50", 4))
	ctx := context.Background()

	_, err := svc.AddLine(ctx, dto.AddLineRequest{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, dto.AddLineRequest{ProductID: "p1", Quantity: 2})
	require.Error(t, err)

	// Failed add leaves the cart untouched
	resp, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 3, resp.Lines[0].Quantity)
}

func TestCartAddLine_InactiveProductRejected(t *testing.T) {
	p := testProduct("p1", "Coffee", "4.50", 10)
	p.Active = false
	svc, _ := newCartFixture(t, p)

	_, err := svc.AddLine(context.Background(), dto.AddLineRequest{ProductID: "p1", Quantity: 1})
	assert.Error(t, err)
}

func TestCartPriceSnapshot_SurvivesCatalogEdit(t *testing.T) {
	svc, state := newCartFixture(t, testProduct("p1", "Coffee", "4.50", 10))
	ctx := context.Background()

	_, err := svc.AddLine(ctx, dto.AddLineRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	// Price edit after the line was added
	state.Update(func(d *store.Data) []string {
		d.Products[0].Price = dec("9.99")
		return nil
	})

	resp, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Lines[0].Price.Equal(dec("4.50")))
	assert.True(t, resp.Totals.Subtotal.Equal(dec("4.50")))
}

func TestCartUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	svc, _ := newCartFixture(t, testProduct("p1", "Coffee", "4.50", 10))
	ctx := context.Background()

	_, err := svc.AddLine(ctx, dto.AddLineRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	resp, err := svc.UpdateQuantity(ctx, "p1", dto.UpdateQuantityRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
}

func TestCartRemoveLine_NotInCart(t *testing.T) {
	svc, _ := newCartFixture(t, testProduct("p1", "Coffee", "4.50", 10))
	_, err := svc.RemoveLine(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestCartApplyDiscount_Validation(t *testing.T) {
	svc, _ := newCartFixture(t, testProduct("p1", "Coffee", "10", 10))
	ctx := context.Background()

	_, err := svc.ApplyDiscount(ctx, dto.ApplyDiscountRequest{Type: "percentage", Value: dec("0")})
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = svc.ApplyDiscount(ctx, dto.ApplyDiscountRequest{Type: "percentage", Value: dec("150")})
	assert.ErrorIs(t, err, ErrDiscountTooLarge)

	_, err = svc.ApplyDiscount(ctx, dto.ApplyDiscountRequest{Type: "fixed", Value: dec("150")})
	assert.NoError(t, err, "fixed discounts above the subtotal are allowed and clamp at totals time")
}

func TestCartTotals_ReflectDiscountAndTax(t *testing.T) {
	svc, _ := newCartFixture(t, testProduct("p1", "Coffee", "100", 10))
	ctx := context.Background()

	_, err := svc.AddLine(ctx, dto.AddLineRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	resp, err := svc.ApplyDiscount(ctx, dto.ApplyDiscountRequest{Type: "percentage", Value: dec("10")})
	require.NoError(t, err)

	assert.True(t, resp.Totals.Total.Equal(dec("198")), "total %s", resp.Totals.Total)

	resp, err = svc.ClearDiscount(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Totals.Total.Equal(dec("220")))
}
