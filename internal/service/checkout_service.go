package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/store"
	"tillpoint/internal/worker"

	"github.com/rs/zerolog/log"
)

var ErrEmptyCart = errors.New("cart is empty")

// walkInName labels sales recorded without customer details.
const walkInName = "Walk-in"

// CheckoutService turns the current cart into an immutable Sale.
type CheckoutService interface {
	Checkout(ctx context.Context, cashierID string, req dto.CheckoutRequest) (*model.Sale, error)
}

type checkoutService struct {
	state      *store.State
	settings   repository.SettingsRepository
	dispatcher *worker.Dispatcher
}

func NewCheckoutService(state *store.State, settings repository.SettingsRepository, dispatcher *worker.Dispatcher) CheckoutService {
	return &checkoutService{state: state, settings: settings, dispatcher: dispatcher}
}

// Checkout runs the whole mutation inside one state update so concurrent
// requests can never observe a half-completed sale:
//
//  1. reject empty cart
//  2. re-validate every line against live stock — reject the whole checkout
//     on any violation, with no state change
//  3. compute totals (pricing calculator)
//  4. decrement stock, append the Sale, clear cart and discount
//
// Then flush persistence (explicit save boundary) and fire the async
// receipt/backup jobs. Flush errors are logged and reported but the
// in-memory effect stands — no rollback.
func (s *checkoutService) Checkout(ctx context.Context, cashierID string, req dto.CheckoutRequest) (*model.Sale, error) {
	settings := s.settings.Settings(ctx)
	external := s.settings.ExternalServices(ctx)

	var (
		sale  model.Sale
		txErr error
	)
	s.state.Update(func(d *store.Data) []string {
		if len(d.Cart.Lines) == 0 {
			txErr = ErrEmptyCart
			return nil
		}

		// Stock re-check against live values. Add-time bounding makes this
		// hold in the common case, but a stock adjustment may have landed
		// between add and checkout.
		for _, line := range d.Cart.Lines {
			p := findProduct(d, line.ProductID)
			if p == nil {
				txErr = fmt.Errorf("product %s no longer exists", line.Name)
				return nil
			}
			if line.Quantity > p.Stock {
				txErr = fmt.Errorf("insufficient stock for %s: in cart %d, available %d",
					p.Name, line.Quantity, p.Stock)
				return nil
			}
		}

		totals := ComputeTotals(d.Cart.Lines, d.Cart.Discount, settings.TaxEnabled)

		now := time.Now()
		sale = model.Sale{
			ID:        repository.NextSaleID(d, now),
			CreatedAt: now,
			Customer: model.CustomerInfo{
				Name:  req.CustomerName,
				Phone: req.CustomerPhone,
				Email: req.CustomerEmail,
			},
			Items:          make([]model.SaleItem, 0, len(d.Cart.Lines)),
			Subtotal:       totals.Subtotal,
			DiscountAmount: totals.DiscountAmount,
			Tax:            totals.Tax,
			Total:          totals.Total,
			CashierID:      cashierID,
		}
		if sale.Customer.Name == "" {
			sale.Customer.Name = walkInName
		}
		if d.Cart.Discount != nil {
			sale.DiscountType = d.Cart.Discount.Type
			sale.DiscountValue = d.Cart.Discount.Value
		}

		for _, line := range d.Cart.Lines {
			findProduct(d, line.ProductID).Stock -= line.Quantity
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: line.ProductID,
				Name:      line.Name,
				Price:     line.Price,
				Quantity:  line.Quantity,
			})
		}

		d.Sales = append(d.Sales, sale)
		d.Cart = model.Cart{}
		return []string{store.KeyProducts, store.KeySales}
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.state.Flush(ctx); err != nil {
		log.Error().Int64("sale_id", sale.ID).Err(err).Msg("checkout: flush failed — sale kept in memory")
	}

	// Async side effects — best effort, never fail the checkout.
	if s.dispatcher != nil {
		if external.ReceiptEmailEnabled && sale.Customer.Email != "" {
			_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{
				SaleID:  sale.ID,
				ToEmail: sale.Customer.Email,
			})
		}
		if external.CloudBackupEnabled {
			_ = s.dispatcher.EnqueueBackup(ctx)
		}
	}

	log.Info().
		Int64("sale_id", sale.ID).
		Str("total", sale.Total.String()).
		Int("items", len(sale.Items)).
		Msg("checkout completed")
	return &sale, nil
}

func findProduct(d *store.Data, id string) *model.Product {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return &d.Products[i]
		}
	}
	return nil
}
