package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
)

// Forecast heuristic parameters. Velocity is units/day over the trailing
// 30 days; trend compares the last 60 days against the 60 before that.
const (
	velocityWindowDays = 30
	trendWindowDays    = 60
	forecastHorizon    = 45 // days of projected demand to stock for
	lowStockThreshold  = 10
	restockTarget      = 50
	minReorder         = 20
	maxConfidence      = 90
)

// ForecastService derives demand estimates for active products from the
// sale ledger.
type ForecastService interface {
	Report(ctx context.Context) (*model.ForecastReport, error)
	ExportJSON(ctx context.Context) ([]byte, error)
}

type forecastService struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	now      func() time.Time
}

func NewForecastService(products repository.ProductRepository, sales repository.SaleRepository) ForecastService {
	return &forecastService{products: products, sales: sales, now: time.Now}
}

func (s *forecastService) Report(ctx context.Context) (*model.ForecastReport, error) {
	products, err := s.products.List(ctx, dto.ProductFilter{})
	if err != nil {
		return nil, err
	}
	ledger, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	recent30 := s.unitsSoldSince(ledger, now.AddDate(0, 0, -velocityWindowDays), now)
	recent60 := s.unitsSoldSince(ledger, now.AddDate(0, 0, -trendWindowDays), now)
	prior60 := s.unitsSoldSince(ledger, now.AddDate(0, 0, -2*trendWindowDays), now.AddDate(0, 0, -trendWindowDays))

	report := &model.ForecastReport{GeneratedAt: now}
	for _, p := range products {
		recent := recent60[p.ID]
		prior := prior60[p.ID]

		velocity := float64(recent30[p.ID]) / velocityWindowDays
		trend := trendOf(prior, recent)
		predicted := velocity * (1 + trend)

		entry := model.ForecastEntry{
			ProductID:         p.ID,
			Name:              p.Name,
			CurrentStock:      p.Stock,
			Velocity:          velocity,
			Trend:             trend,
			PredictedVelocity: predicted,
			RecommendedStock:  int(math.Ceil(predicted * forecastHorizon)),
			Confidence:        math.Min(math.Abs(trend)*100, maxConfidence),
		}
		report.Entries = append(report.Entries, entry)

		s.checkLowStock(report, &p)

		// Reorder when projected 30-day demand outstrips what is on the shelf.
		demand30 := int(math.Ceil(velocity * velocityWindowDays))
		if demand30 > p.Stock {
			report.Reorders = append(report.Reorders, model.ReorderSuggestion{
				ProductID:      p.ID,
				Name:           p.Name,
				CurrentStock:   p.Stock,
				SuggestedStock: demand30,
				ReorderAmount:  demand30 - p.Stock,
				Velocity:       velocity,
			})
		}
	}

	sort.Slice(report.Reorders, func(i, j int) bool {
		return report.Reorders[i].ReorderAmount > report.Reorders[j].ReorderAmount
	})
	return report, nil
}

// trendOf computes the relative change between two adjacent windows. A product
// that went from zero sales to some sales gets a fixed optimistic 0.5.
func trendOf(prior, recent int) float64 {
	if prior == 0 {
		if recent > 0 {
			return 0.5
		}
		return 0
	}
	return float64(recent-prior) / float64(prior)
}

func (s *forecastService) checkLowStock(report *model.ForecastReport, p *model.Product) {
	if p.Stock >= lowStockThreshold {
		return
	}
	reorder := restockTarget - p.Stock
	if reorder < minReorder {
		reorder = minReorder
	}
	report.LowStock = append(report.LowStock, model.LowStockAlert{
		ProductID:        p.ID,
		Name:             p.Name,
		CurrentStock:     p.Stock,
		SuggestedReorder: reorder,
	})
}

// unitsSoldSince counts units per product for sales in [from, until).
func (s *forecastService) unitsSoldSince(ledger []model.Sale, from, until time.Time) map[string]int {
	units := make(map[string]int)
	for _, sale := range ledger {
		if sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(until) {
			continue
		}
		for _, item := range sale.Items {
			units[item.ProductID] += item.Quantity
		}
	}
	return units
}

func (s *forecastService) ExportJSON(ctx context.Context) ([]byte, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(report, "", "  ")
}
