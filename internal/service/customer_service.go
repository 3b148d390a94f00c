package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"tillpoint/internal/model"
	"tillpoint/internal/repository"
)

// CustomerService derives the customer list from the sale ledger. Customers
// are never stored: two sales with the same name and phone are the same
// customer, walk-in sales with no customer info are excluded.
type CustomerService interface {
	List(ctx context.Context, search string) ([]model.Customer, error)
	Get(ctx context.Context, key string) (*model.Customer, error)
	ExportCSV(ctx context.Context) ([]byte, error)
}

var ErrCustomerNotFound = errors.New("customer not found")

type customerService struct {
	sales repository.SaleRepository
}

func NewCustomerService(sales repository.SaleRepository) CustomerService {
	return &customerService{sales: sales}
}

func (s *customerService) List(ctx context.Context, search string) ([]model.Customer, error) {
	customers, err := s.aggregate(ctx)
	if err != nil {
		return nil, err
	}
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		filtered := customers[:0]
		for _, c := range customers {
			if strings.Contains(strings.ToLower(c.Name), search) ||
				strings.Contains(c.Phone, search) {
				filtered = append(filtered, c)
			}
		}
		customers = filtered
	}
	return customers, nil
}

func (s *customerService) Get(ctx context.Context, key string) (*model.Customer, error) {
	customers, err := s.aggregate(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if customers[i].Key == key {
			return &customers[i], nil
		}
	}
	return nil, ErrCustomerNotFound
}

// aggregate folds the ledger into per-customer totals, highest spender first.
func (s *customerService) aggregate(ctx context.Context) ([]model.Customer, error) {
	ledger, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*model.Customer)
	order := make([]string, 0)
	for _, sale := range ledger {
		// Anonymous walk-ins carry no identity to aggregate on.
		if sale.Customer.Phone == "" &&
			(sale.Customer.Name == "" || sale.Customer.Name == walkInName) {
			continue
		}
		key := sale.CustomerKey()
		c, ok := byKey[key]
		if !ok {
			c = &model.Customer{
				Key:        key,
				Name:       sale.Customer.Name,
				Phone:      sale.Customer.Phone,
				FirstVisit: sale.CreatedAt,
				LastVisit:  sale.CreatedAt,
			}
			byKey[key] = c
			order = append(order, key)
		}
		c.TotalOrders++
		c.TotalSpent = c.TotalSpent.Add(sale.Total)
		c.SaleIDs = append(c.SaleIDs, sale.ID)
		if sale.CreatedAt.Before(c.FirstVisit) {
			c.FirstVisit = sale.CreatedAt
		}
		if sale.CreatedAt.After(c.LastVisit) {
			c.LastVisit = sale.CreatedAt
		}
	}

	out := make([]model.Customer, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalSpent.GreaterThan(out[j].TotalSpent)
	})
	return out, nil
}

func (s *customerService) ExportCSV(ctx context.Context) ([]byte, error) {
	customers, err := s.aggregate(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"name", "phone", "total_orders", "total_spent", "first_visit", "last_visit"})
	for _, c := range customers {
		_ = w.Write([]string{
			c.Name,
			c.Phone,
			strconv.Itoa(c.TotalOrders),
			c.TotalSpent.StringFixed(2),
			c.FirstVisit.Format(time.RFC3339),
			c.LastVisit.Format(time.RFC3339),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
