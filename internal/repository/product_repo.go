package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/store"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateProduct = errors.New("product id or barcode already exists")
	ErrNegativeStock    = errors.New("stock cannot go negative")
)

// ProductRepository is the data access contract for the catalog. Services
// depend on this interface, not on the state-backed implementation, so unit
// tests can swap it freely.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	// AdjustStock applies a signed delta and returns the updated product.
	// Fails without mutation when the result would be negative.
	AdjustStock(ctx context.Context, id string, delta int) (*model.Product, error)
	SoftDelete(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
}

type productRepo struct{ state *store.State }

func NewProductRepository(state *store.State) ProductRepository {
	return &productRepo{state: state}
}

func (r *productRepo) Create(_ context.Context, p *model.Product) error {
	var err error
	r.state.Update(func(d *store.Data) []string {
		for i := range d.Products {
			if d.Products[i].ID == p.ID ||
				(p.Barcode != "" && d.Products[i].Barcode == p.Barcode) {
				err = ErrDuplicateProduct
				return nil
			}
		}
		now := time.Now()
		p.CreatedAt = now
		p.UpdatedAt = now
		p.Active = true
		d.Products = append(d.Products, *p)
		return []string{store.KeyProducts}
	})
	return err
}

func (r *productRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	var found *model.Product
	r.state.View(func(d *store.Data) {
		for i := range d.Products {
			if d.Products[i].ID == id {
				cp := d.Products[i]
				found = &cp
				return
			}
		}
	})
	if found == nil {
		return nil, ErrProductNotFound
	}
	return found, nil
}

func (r *productRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	var found *model.Product
	r.state.View(func(d *store.Data) {
		for i := range d.Products {
			if d.Products[i].Barcode == barcode && d.Products[i].Active {
				cp := d.Products[i]
				found = &cp
				return
			}
		}
	})
	if found == nil {
		return nil, ErrProductNotFound
	}
	return found, nil
}

func (r *productRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	search := strings.ToLower(filter.Search)
	var out []model.Product
	r.state.View(func(d *store.Data) {
		for _, p := range d.Products {
			switch filter.Active {
			case "false":
				if p.Active {
					continue
				}
			case "all":
				// no filter
			default:
				if !p.Active {
					continue
				}
			}
			if filter.Category != "" && p.Category != filter.Category {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Barcode), search) {
				continue
			}
			out = append(out, p)
		}
	})
	return out, nil
}

func (r *productRepo) Update(_ context.Context, p *model.Product) error {
	err := ErrProductNotFound
	r.state.Update(func(d *store.Data) []string {
		for i := range d.Products {
			if d.Products[i].ID == p.ID {
				p.CreatedAt = d.Products[i].CreatedAt
				p.UpdatedAt = time.Now()
				d.Products[i] = *p
				err = nil
				return []string{store.KeyProducts}
			}
		}
		return nil
	})
	return err
}

func (r *productRepo) AdjustStock(_ context.Context, id string, delta int) (*model.Product, error) {
	var (
		updated *model.Product
		err     = ErrProductNotFound
	)
	r.state.Update(func(d *store.Data) []string {
		for i := range d.Products {
			if d.Products[i].ID != id {
				continue
			}
			next := d.Products[i].Stock + delta
			if next < 0 {
				err = fmt.Errorf("%w: %s has %d, delta %d",
					ErrNegativeStock, d.Products[i].Name, d.Products[i].Stock, delta)
				return nil
			}
			d.Products[i].Stock = next
			d.Products[i].UpdatedAt = time.Now()
			cp := d.Products[i]
			updated = &cp
			err = nil
			return []string{store.KeyProducts}
		}
		return nil
	})
	return updated, err
}

func (r *productRepo) SoftDelete(_ context.Context, id string) error {
	return r.setActive(id, false)
}

func (r *productRepo) Reactivate(_ context.Context, id string) error {
	return r.setActive(id, true)
}

func (r *productRepo) setActive(id string, active bool) error {
	err := ErrProductNotFound
	r.state.Update(func(d *store.Data) []string {
		for i := range d.Products {
			if d.Products[i].ID == id {
				d.Products[i].Active = active
				d.Products[i].UpdatedAt = time.Now()
				err = nil
				return []string{store.KeyProducts}
			}
		}
		return nil
	})
	return err
}
