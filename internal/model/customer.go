package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a derived aggregate, recomputed from the sale ledger on each
// query. It is never stored, so it can never drift from the ledger.
type Customer struct {
	Key         string          `json:"key"` // name|phone
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	TotalOrders int             `json:"totalOrders"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	FirstVisit  time.Time       `json:"firstVisit"`
	LastVisit   time.Time       `json:"lastVisit"`
	SaleIDs     []int64         `json:"saleIds"`
}
