package domain

const (
	MarketPositionPremium     = "premium"
	MarketPositionCompetitive = "competitive"
	MarketPositionBudget      = "budget"

	PriceTrendIncreasing = "increasing"
	PriceTrendDecreasing = "decreasing"
	PriceTrendStable     = "stable"
)

type PriceAnalysis struct {
	ProductID             uint64  `json:"product_id"`
	CurrentPriceCents     int64   `json:"current_price_cents"`
	RecommendedPriceCents int64   `json:"recommended_price_cents"`
	Confidence            float64 `json:"confidence"`
	Reasoning             string  `json:"reasoning"`
	MarketPosition        string  `json:"market_position"`
	PriceElasticity       string  `json:"price_elasticity"`
}

type CompetitorComparison struct {
	CompetitorName  string `json:"competitor_name"`
	PriceCents      int64  `json:"price_cents"`
	Position        string `json:"position"`
	DifferenceCents int64  `json:"difference_cents"`
}

type PricingReport struct {
	Analysis    PriceAnalysis          `json:"analysis"`
	Competitors []CompetitorComparison `json:"competitors"`
	Insights    []string               `json:"insights"`
}

type CategoryPricingInsights struct {
	Category          string   `json:"category"`
	AveragePriceCents int64    `json:"average_price_cents"`
	MinPriceCents     int64    `json:"min_price_cents"`
	MaxPriceCents     int64    `json:"max_price_cents"`
	Trend             string   `json:"trend"`
	Recommendations   []string `json:"recommendations"`
}
