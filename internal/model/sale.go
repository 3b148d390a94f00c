package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is an immutable snapshot of one cart line at checkout time.
type SaleItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// CustomerInfo is the customer data captured at checkout. Email is optional
// and only used for sending the PDF receipt.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Sale is one completed transaction. Sales are immutable once created and
// form an append-only ledger; IDs are time-derived (Unix milliseconds) and
// strictly increasing in creation order.
type Sale struct {
	ID             int64           `json:"id"`
	CreatedAt      time.Time       `json:"createdAt"`
	Customer       CustomerInfo    `json:"customer"`
	Items          []SaleItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	DiscountType   DiscountType    `json:"discountType,omitempty"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	CashierID      string          `json:"cashierId,omitempty"`
}

// UnitCount returns the total number of units across all items.
func (s *Sale) UnitCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// CustomerKey groups sales belonging to the same customer. The source system
// has no customer registry, so identity is the name+phone concatenation.
func (s *Sale) CustomerKey() string {
	return s.Customer.Name + "|" + s.Customer.Phone
}
