package service

import (
	"context"
	"testing"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture(t *testing.T, products ...model.Product) (ProductService, *store.State) {
	state := newTestState(t, products...)
	return NewProductService(repository.NewProductRepository(state), state), state
}

func TestProductCreate_GeneratesID(t *testing.T) {
	svc, _ := newProductFixture(t)

	p, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Coffee", Category: "Drinks", Price: dec("4.50"), Stock: 10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Active)
}

func TestProductCreate_RejectsDuplicateBarcode(t *testing.T) {
	svc, _ := newProductFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateProductRequest{
		Name: "Coffee", Category: "Drinks", Price: dec("4.50"), Barcode: "779001",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, dto.CreateProductRequest{
		Name: "Tea", Category: "Drinks", Price: dec("3"), Barcode: "779001",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateProduct)
}

func TestProductList_SortedByNameCaseInsensitive(t *testing.T) {
	svc, _ := newProductFixture(t,
		testProduct("p1", "zucchini", "1", 5),
		testProduct("p2", "Apple", "1", 5),
		testProduct("p3", "banana", "1", 5),
	)

	products, err := svc.List(context.Background(), dto.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Apple", products[0].Name)
	assert.Equal(t, "banana", products[1].Name)
	assert.Equal(t, "zucchini", products[2].Name)
}

func TestProductCategories_DistinctSorted(t *testing.T) {
	svc, _ := newProductFixture(t)
	ctx := context.Background()
	for _, c := range []string{"Snacks", "Drinks", "Snacks"} {
		_, err := svc.Create(ctx, dto.CreateProductRequest{
			Name: "x-" + c, Category: c, Price: dec("1"),
		})
		require.NoError(t, err)
	}

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Drinks", "Snacks"}, cats)
}

func TestProductUpdate_PartialFields(t *testing.T) {
	svc, _ := newProductFixture(t, testProduct("p1", "Coffee", "4.50", 10))

	name := "Espresso"
	price := dec("5.25")
	p, err := svc.Update(context.Background(), "p1", dto.UpdateProductRequest{
		Name: &name, Price: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "Espresso", p.Name)
	assert.True(t, p.Price.Equal(dec("5.25")))
	assert.Equal(t, 10, p.Stock, "untouched field keeps its value")
}

func TestAdjustStock_NeverBelowZero(t *testing.T) {
	svc, _ := newProductFixture(t, testProduct("p1", "Coffee", "4.50", 3))
	ctx := context.Background()

	_, err := svc.AdjustStock(ctx, "p1", dto.AdjustStockRequest{Delta: -5})
	require.ErrorIs(t, err, repository.ErrNegativeStock)

	p, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock, "failed adjustment leaves stock untouched")

	p, err = svc.AdjustStock(ctx, "p1", dto.AdjustStockRequest{Delta: 47, Reason: "reorder received"})
	require.NoError(t, err)
	assert.Equal(t, 50, p.Stock)
}

func TestProductDeactivate_HiddenFromDefaultList(t *testing.T) {
	svc, _ := newProductFixture(t,
		testProduct("p1", "Coffee", "4.50", 10),
		testProduct("p2", "Tea", "3", 10),
	)
	ctx := context.Background()

	require.NoError(t, svc.Deactivate(ctx, "p1"))

	active, err := svc.List(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "p2", active[0].ID)

	all, err := svc.List(ctx, dto.ProductFilter{Active: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.Reactivate(ctx, "p1"))
	active, err = svc.List(ctx, dto.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
