package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService filters and summarizes the sale ledger. Filtering is a pure
// derivation over a ledger snapshot: identical inputs over an unchanged
// ledger return identical ordered output.
type ReportService interface {
	Transactions(ctx context.Context, filter dto.ReportFilter) (*dto.ReportResponse, error)
	TransactionsCSV(ctx context.Context, filter dto.ReportFilter) ([]byte, error)
}

type reportService struct {
	sales repository.SaleRepository
	now   func() time.Time // injectable clock for tests
}

func NewReportService(sales repository.SaleRepository) ReportService {
	return &reportService{sales: sales, now: time.Now}
}

func (s *reportService) Transactions(ctx context.Context, filter dto.ReportFilter) (*dto.ReportResponse, error) {
	ledger, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}

	from, to, err := s.resolveRange(filter)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]model.Sale, 0, len(ledger))
	for _, sale := range ledger {
		if !from.IsZero() && sale.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && sale.CreatedAt.After(to) {
			continue
		}
		if search != "" && !matchesSearch(&sale, search) {
			continue
		}
		matched = append(matched, sale)
	}

	// Newest first; sale IDs are strictly increasing so they break timestamp ties.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	return &dto.ReportResponse{Sales: matched, Summary: summarize(matched)}, nil
}

// matchesSearch checks the case-insensitive substring filter against the
// customer name and the sale ID.
func matchesSearch(sale *model.Sale, search string) bool {
	if strings.Contains(strings.ToLower(sale.Customer.Name), search) {
		return true
	}
	return strings.Contains(strconv.FormatInt(sale.ID, 10), search)
}

func summarize(sales []model.Sale) dto.ReportSummary {
	sum := dto.ReportSummary{
		Transactions: len(sales),
		Revenue:      decimal.Zero,
		AvgTicket:    decimal.Zero,
	}
	for _, s := range sales {
		sum.Revenue = sum.Revenue.Add(s.Total)
		sum.UnitsSold += s.UnitCount()
	}
	if len(sales) > 0 {
		sum.AvgTicket = sum.Revenue.Div(decimal.NewFromInt(int64(len(sales)))).Round(2)
	}
	return sum
}

// resolveRange maps the named ranges onto [from, to]. "week" and "month" are
// trailing 7/30-day windows; "custom" parses From/To with To inclusive of
// end-of-day. Zero times mean unbounded.
func (s *reportService) resolveRange(filter dto.ReportFilter) (from, to time.Time, err error) {
	now := s.now()
	switch filter.Range {
	case "", "all":
		return time.Time{}, time.Time{}, nil
	case "today":
		return startOfDay(now), time.Time{}, nil
	case "week":
		return startOfDay(now.AddDate(0, 0, -7)), time.Time{}, nil
	case "month":
		return startOfDay(now.AddDate(0, 0, -30)), time.Time{}, nil
	case "custom":
		if filter.From != "" {
			f, perr := time.ParseInLocation("2006-01-02", filter.From, now.Location())
			if perr != nil {
				return from, to, fmt.Errorf("invalid from date %q", filter.From)
			}
			from = f
		}
		if filter.To != "" {
			t, perr := time.ParseInLocation("2006-01-02", filter.To, now.Location())
			if perr != nil {
				return from, to, fmt.Errorf("invalid to date %q", filter.To)
			}
			// inclusive of end-of-day
			to = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return from, to, nil
	default:
		return from, to, fmt.Errorf("unknown range %q", filter.Range)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TransactionsCSV renders the filtered ledger as CSV: header row plus one
// quoted row per sale.
func (s *reportService) TransactionsCSV(ctx context.Context, filter dto.ReportFilter) ([]byte, error) {
	resp, err := s.Transactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{
		"sale_id", "date", "customer", "phone", "items",
		"subtotal", "discount", "tax", "total",
	})
	for _, sale := range resp.Sales {
		items := make([]string, 0, len(sale.Items))
		for _, it := range sale.Items {
			items = append(items, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
		}
		_ = w.Write([]string{
			strconv.FormatInt(sale.ID, 10),
			sale.CreatedAt.Format(time.RFC3339),
			sale.Customer.Name,
			sale.Customer.Phone,
			strings.Join(items, "; "),
			sale.Subtotal.StringFixed(2),
			sale.DiscountAmount.StringFixed(2),
			sale.Tax.StringFixed(2),
			sale.Total.StringFixed(2),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
