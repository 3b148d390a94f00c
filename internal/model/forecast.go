package model

import "time"

// ForecastEntry is the per-product demand estimate derived from the sale
// ledger. All figures come from rolling-window arithmetic, not a statistical
// model; Confidence is a clamped proxy for how strong the trend signal is.
type ForecastEntry struct {
	ProductID         string  `json:"productId"`
	Name              string  `json:"name"`
	CurrentStock      int     `json:"currentStock"`
	Velocity          float64 `json:"velocity"` // units/day, trailing 30 days
	Trend             float64 `json:"trend"`    // relative change between adjacent 60-day windows
	PredictedVelocity float64 `json:"predictedVelocity"`
	RecommendedStock  int     `json:"recommendedStock"`
	Confidence        float64 `json:"confidence"`
}

// LowStockAlert flags a product whose stock fell under the alert threshold.
type LowStockAlert struct {
	ProductID        string `json:"productId"`
	Name             string `json:"name"`
	CurrentStock     int    `json:"currentStock"`
	SuggestedReorder int    `json:"suggestedReorder"`
}

// ReorderSuggestion recommends replenishment for products whose projected
// 30-day demand exceeds current stock.
type ReorderSuggestion struct {
	ProductID      string  `json:"productId"`
	Name           string  `json:"name"`
	CurrentStock   int     `json:"currentStock"`
	SuggestedStock int     `json:"suggestedStock"`
	ReorderAmount  int     `json:"reorderAmount"`
	Velocity       float64 `json:"velocity"`
}

// ForecastReport is the exportable JSON forecast document.
type ForecastReport struct {
	GeneratedAt time.Time           `json:"generatedAt"`
	Entries     []ForecastEntry     `json:"entries"`
	LowStock    []LowStockAlert     `json:"lowStock"`
	Reorders    []ReorderSuggestion `json:"reorders"`
}
