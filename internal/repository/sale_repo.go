package repository

import (
	"context"
	"errors"
	"time"

	"tillpoint/internal/model"
	"tillpoint/internal/store"
)

var ErrSaleNotFound = errors.New("sale not found")

// SaleRepository guards the append-only sale ledger. There is deliberately
// no update or delete: sales are immutable once written.
type SaleRepository interface {
	Append(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, id int64) (*model.Sale, error)
	// List returns a snapshot copy of the whole ledger in insertion order.
	List(ctx context.Context) ([]model.Sale, error)
}

type saleRepo struct{ state *store.State }

func NewSaleRepository(state *store.State) SaleRepository {
	return &saleRepo{state: state}
}

func (r *saleRepo) Append(_ context.Context, s *model.Sale) error {
	r.state.Update(func(d *store.Data) []string {
		d.Sales = append(d.Sales, *s)
		return []string{store.KeySales}
	})
	return nil
}

func (r *saleRepo) FindByID(_ context.Context, id int64) (*model.Sale, error) {
	var found *model.Sale
	r.state.View(func(d *store.Data) {
		for i := range d.Sales {
			if d.Sales[i].ID == id {
				cp := d.Sales[i]
				found = &cp
				return
			}
		}
	})
	if found == nil {
		return nil, ErrSaleNotFound
	}
	return found, nil
}

func (r *saleRepo) List(_ context.Context) ([]model.Sale, error) {
	var out []model.Sale
	r.state.View(func(d *store.Data) {
		out = make([]model.Sale, len(d.Sales))
		copy(out, d.Sales)
	})
	return out, nil
}

// NextSaleID derives a time-based ID that is strictly greater than every ID
// already in the ledger. Unix milliseconds match creation order; the bump
// handles two checkouts landing in the same millisecond.
func NextSaleID(d *store.Data, now time.Time) int64 {
	id := now.UnixMilli()
	if n := len(d.Sales); n > 0 && d.Sales[n-1].ID >= id {
		id = d.Sales[n-1].ID + 1
	}
	return id
}
