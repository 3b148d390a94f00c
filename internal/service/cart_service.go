package service

import (
	"context"
	"errors"
	"fmt"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/store"

	"github.com/shopspring/decimal"
)

var (
	ErrLineNotFound     = errors.New("product is not in the cart")
	ErrInvalidDiscount  = errors.New("discount value must be greater than zero")
	ErrDiscountTooLarge = errors.New("percentage discount cannot exceed 100")
)

// CartService manages the single register cart: one line per product, price
// snapshots at add time, quantities bounded by live stock.
type CartService interface {
	Get(ctx context.Context) (*dto.CartResponse, error)
	AddLine(ctx context.Context, req dto.AddLineRequest) (*dto.CartResponse, error)
	UpdateQuantity(ctx context.Context, productID string, req dto.UpdateQuantityRequest) (*dto.CartResponse, error)
	RemoveLine(ctx context.Context, productID string) (*dto.CartResponse, error)
	Clear(ctx context.Context) error
	ApplyDiscount(ctx context.Context, req dto.ApplyDiscountRequest) (*dto.CartResponse, error)
	ClearDiscount(ctx context.Context) (*dto.CartResponse, error)
}

type cartService struct {
	state    *store.State
	products repository.ProductRepository
	settings repository.SettingsRepository
}

func NewCartService(state *store.State, products repository.ProductRepository, settings repository.SettingsRepository) CartService {
	return &cartService{state: state, products: products, settings: settings}
}

func (s *cartService) Get(ctx context.Context) (*dto.CartResponse, error) {
	return s.response(ctx), nil
}

// AddLine merges quantity into an existing line or appends a new one. The
// combined quantity is checked against live stock; on violation nothing
// changes.
func (s *cartService) AddLine(ctx context.Context, req dto.AddLineRequest) (*dto.CartResponse, error) {
	p, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, fmt.Errorf("product %s is inactive and cannot be sold", p.Name)
	}

	var addErr error
	s.state.Update(func(d *store.Data) []string {
		want := req.Quantity
		if line := d.Cart.Line(p.ID); line != nil {
			want += line.Quantity
		}
		if want > p.Stock {
			addErr = fmt.Errorf("insufficient stock for %s: requested %d, available %d",
				p.Name, want, p.Stock)
			return nil
		}
		if line := d.Cart.Line(p.ID); line != nil {
			line.Quantity = want
		} else {
			d.Cart.Lines = append(d.Cart.Lines, model.CartLine{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price, // snapshot — later price edits don't affect this line
				Quantity:  req.Quantity,
			})
		}
		return nil // cart is transient, nothing to persist
	})
	if addErr != nil {
		return nil, addErr
	}
	return s.response(ctx), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, productID string, req dto.UpdateQuantityRequest) (*dto.CartResponse, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var updErr error
	s.state.Update(func(d *store.Data) []string {
		line := d.Cart.Line(productID)
		if line == nil {
			updErr = ErrLineNotFound
			return nil
		}
		if req.Quantity == 0 {
			d.Cart.RemoveLine(productID)
			return nil
		}
		if req.Quantity > p.Stock {
			updErr = fmt.Errorf("insufficient stock for %s: requested %d, available %d",
				p.Name, req.Quantity, p.Stock)
			return nil
		}
		line.Quantity = req.Quantity
		return nil
	})
	if updErr != nil {
		return nil, updErr
	}
	return s.response(ctx), nil
}

func (s *cartService) RemoveLine(ctx context.Context, productID string) (*dto.CartResponse, error) {
	var remErr error
	s.state.Update(func(d *store.Data) []string {
		if d.Cart.Line(productID) == nil {
			remErr = ErrLineNotFound
			return nil
		}
		d.Cart.RemoveLine(productID)
		return nil
	})
	if remErr != nil {
		return nil, remErr
	}
	return s.response(ctx), nil
}

func (s *cartService) Clear(_ context.Context) error {
	s.state.Update(func(d *store.Data) []string {
		d.Cart = model.Cart{}
		return nil
	})
	return nil
}

func (s *cartService) ApplyDiscount(ctx context.Context, req dto.ApplyDiscountRequest) (*dto.CartResponse, error) {
	if !req.Value.GreaterThan(decimal.Zero) {
		return nil, ErrInvalidDiscount
	}
	if req.Type == string(model.DiscountPercentage) && req.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrDiscountTooLarge
	}
	s.state.Update(func(d *store.Data) []string {
		d.Cart.Discount = &model.Discount{
			Type:  model.DiscountType(req.Type),
			Value: req.Value,
			Code:  req.Code,
		}
		return nil
	})
	return s.response(ctx), nil
}

func (s *cartService) ClearDiscount(ctx context.Context) (*dto.CartResponse, error) {
	s.state.Update(func(d *store.Data) []string {
		d.Cart.Discount = nil
		return nil
	})
	return s.response(ctx), nil
}

func (s *cartService) response(ctx context.Context) *dto.CartResponse {
	taxEnabled := s.settings.Settings(ctx).TaxEnabled
	resp := &dto.CartResponse{}
	s.state.View(func(d *store.Data) {
		resp.Lines = make([]model.CartLine, len(d.Cart.Lines))
		copy(resp.Lines, d.Cart.Lines)
		if d.Cart.Discount != nil {
			cp := *d.Cart.Discount
			resp.Discount = &cp
		}
	})
	t := ComputeTotals(resp.Lines, resp.Discount, taxEnabled)
	resp.Totals = dto.TotalsResponse{
		Subtotal:           t.Subtotal,
		DiscountAmount:     t.DiscountAmount,
		DiscountedSubtotal: t.DiscountedSubtotal,
		Tax:                t.Tax,
		Total:              t.Total,
	}
	return resp
}
