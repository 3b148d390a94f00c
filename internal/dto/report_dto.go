package dto

import (
	"tillpoint/internal/model"

	"github.com/shopspring/decimal"
)

// ReportFilter is bound from the query string of GET /v1/reports/transactions.
// Range "custom" uses From/To (YYYY-MM-DD, To inclusive of end-of-day).
type ReportFilter struct {
	Search string `form:"search"`
	Range  string `form:"range,default=all" validate:"omitempty,oneof=all today week month custom"`
	From   string `form:"from"`
	To     string `form:"to"`
}

type ReportSummary struct {
	Transactions int             `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
	UnitsSold    int             `json:"unitsSold"`
	AvgTicket    decimal.Decimal `json:"avgTicket"`
}

type ReportResponse struct {
	Sales   []model.Sale  `json:"sales"` // newest first
	Summary ReportSummary `json:"summary"`
}
