package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"shopSense/domain"
	"shopSense/pkg/logger"
	"shopSense/pkg/utils"
	"strings"
)

const (
	similarProductLimit = 10
	categorySampleLimit = 100
	trendStableBand     = 0.05
	analysisTemperature = 0.3
	analysisMaxTokens   = 800
)

// ---- Repository / collaborator interfaces ----

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindSimilarByTitle(ctx context.Context, keyword string, excludeID uint64, limit int) ([]domain.Product, error)
	FindByText(ctx context.Context, text string, limit int) ([]domain.Product, error)
}

type CompletionGateway interface {
	ChatCompletion(ctx context.Context, messages []domain.ChatMessage, maxTokens int, temperature float32) (string, error)
}

type Service struct {
	productRepo ProductRepository
	gateway     CompletionGateway
}

func NewService(productRepo ProductRepository, gateway CompletionGateway) *Service {
	return &Service{
		productRepo: productRepo,
		gateway:     gateway,
	}
}

type pricingPayload struct {
	Analysis struct {
		RecommendedPrice float64 `json:"recommendedPrice"`
		Confidence       float64 `json:"confidence"`
		Reasoning        string  `json:"reasoning"`
		MarketPosition   string  `json:"marketPosition"`
		PriceElasticity  string  `json:"priceElasticity"`
	} `json:"analysis"`
	Competitors []struct {
		CompetitorName string  `json:"competitorName"`
		Price          float64 `json:"price"`
		Position       string  `json:"position"`
		Difference     float64 `json:"difference"`
	} `json:"competitors"`
	Insights []string `json:"insights"`
}

// AnalyzeProductPricing produces an AI-backed pricing report for one product.
// Unlike the recommendation paths this is an analyst-facing report, so a
// malformed model response is a hard error rather than a silent degrade.
func (s *Service) AnalyzeProductPricing(ctx context.Context, productID uint64) (domain.PricingReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.PricingReport{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		logger.Error("Failed to load product for pricing analysis", err)
		return domain.PricingReport{}, err
	}

	keyword := firstWord(product.Title)
	similar, err := s.productRepo.FindSimilarByTitle(ctx, keyword, product.ID, similarProductLimit)
	if err != nil {
		return domain.PricingReport{}, err
	}

	answer, err := s.gateway.ChatCompletion(ctx, pricingMessages(product, similar), analysisMaxTokens, analysisTemperature)
	if err != nil {
		return domain.PricingReport{}, fmt.Errorf("pricing analysis call failed: %w", err)
	}

	var payload pricingPayload
	if err := json.Unmarshal([]byte(utils.ExtractJSONBlock(answer)), &payload); err != nil {
		return domain.PricingReport{}, errors.New("failed to parse pricing analysis response")
	}

	report := domain.PricingReport{
		Analysis: domain.PriceAnalysis{
			ProductID:             product.ID,
			CurrentPriceCents:     product.PriceCents,
			RecommendedPriceCents: int64(math.Round(payload.Analysis.RecommendedPrice * 100)),
			Confidence:            payload.Analysis.Confidence,
			Reasoning:             payload.Analysis.Reasoning,
			MarketPosition:        payload.Analysis.MarketPosition,
			PriceElasticity:       payload.Analysis.PriceElasticity,
		},
		Competitors: make([]domain.CompetitorComparison, 0, len(payload.Competitors)),
		Insights:    payload.Insights,
	}
	if report.Insights == nil {
		report.Insights = []string{}
	}

	for _, c := range payload.Competitors {
		report.Competitors = append(report.Competitors, domain.CompetitorComparison{
			CompetitorName:  c.CompetitorName,
			PriceCents:      int64(math.Round(c.Price * 100)),
			Position:        c.Position,
			DifferenceCents: int64(math.Round(c.Difference * 100)),
		})
	}

	return report, nil
}

// CategoryPricingInsights is purely statistical: average and range over the
// newest products matching the category text, and a recent-vs-older trend.
func (s *Service) CategoryPricingInsights(ctx context.Context, category string) (domain.CategoryPricingInsights, error) {
	if err := ctx.Err(); err != nil {
		return domain.CategoryPricingInsights{}, fmt.Errorf("context error: %w", err)
	}

	if strings.TrimSpace(category) == "" {
		return domain.CategoryPricingInsights{}, errors.New("category is required")
	}

	products, err := s.productRepo.FindByText(ctx, category, categorySampleLimit)
	if err != nil {
		return domain.CategoryPricingInsights{}, err
	}
	if len(products) == 0 {
		return domain.CategoryPricingInsights{}, fmt.Errorf("no products found for category: %s", category)
	}

	var sum, minPrice, maxPrice int64
	minPrice = products[0].PriceCents
	maxPrice = products[0].PriceCents
	for _, p := range products {
		sum += p.PriceCents
		if p.PriceCents < minPrice {
			minPrice = p.PriceCents
		}
		if p.PriceCents > maxPrice {
			maxPrice = p.PriceCents
		}
	}
	average := int64(math.Round(float64(sum) / float64(len(products))))

	trend := priceTrend(products)

	return domain.CategoryPricingInsights{
		Category:          category,
		AveragePriceCents: average,
		MinPriceCents:     minPrice,
		MaxPriceCents:     maxPrice,
		Trend:             trend,
		Recommendations:   trendRecommendations(trend),
	}, nil
}

// priceTrend compares the newer half of the sample against the older half.
// Products arrive newest first.
func priceTrend(products []domain.Product) string {
	if len(products) < 2 {
		return domain.PriceTrendStable
	}

	half := len(products) / 2
	recent := products[:half]
	older := products[half:]

	recentAvg := averageCents(recent)
	olderAvg := averageCents(older)
	if olderAvg == 0 {
		return domain.PriceTrendStable
	}

	change := (recentAvg - olderAvg) / olderAvg
	switch {
	case change > trendStableBand:
		return domain.PriceTrendIncreasing
	case change < -trendStableBand:
		return domain.PriceTrendDecreasing
	default:
		return domain.PriceTrendStable
	}
}

func averageCents(products []domain.Product) float64 {
	if len(products) == 0 {
		return 0
	}

	var sum int64
	for _, p := range products {
		sum += p.PriceCents
	}

	return float64(sum) / float64(len(products))
}

func trendRecommendations(trend string) []string {
	switch trend {
	case domain.PriceTrendIncreasing:
		return []string{
			"Category prices are trending up; review whether recent listings justify a price increase.",
			"Monitor conversion closely after any adjustment.",
		}
	case domain.PriceTrendDecreasing:
		return []string{
			"Category prices are trending down; consider promotions before cutting list prices.",
			"Verify margins still hold at the lower end of the range.",
		}
	default:
		return []string{
			"Category prices are stable; keep prices aligned with the category average.",
		}
	}
}

func pricingMessages(product domain.Product, similar []domain.Product) []domain.ChatMessage {
	type snapshot struct {
		Title string  `json:"title"`
		Price float64 `json:"price"`
	}

	market := make([]snapshot, 0, len(similar))
	for _, p := range similar {
		market = append(market, snapshot{Title: p.Title, Price: float64(p.PriceCents) / 100})
	}

	productJSON, _ := json.Marshal(map[string]any{
		"title":        product.Title,
		"description":  product.Description,
		"currentPrice": float64(product.PriceCents) / 100,
	})
	marketJSON, _ := json.Marshal(market)

	instruction := fmt.Sprintf(`Analyze the pricing for this product and provide optimization recommendations.

Product: %s

Similar products in market: %s

Return a JSON object with:
{
  "analysis": {
    "recommendedPrice": number (in dollars),
    "confidence": number (0-1),
    "reasoning": "detailed explanation",
    "marketPosition": "premium|competitive|budget",
    "priceElasticity": "high|medium|low"
  },
  "competitors": [
    {
      "competitorName": "string",
      "price": number,
      "position": "higher|lower|same",
      "difference": number
    }
  ],
  "insights": ["insight 1", "insight 2", "insight 3"]
}

Consider factors like:
- Competitive positioning
- Price elasticity based on product type
- Market trends
- Value proposition
- Target audience`, productJSON, marketJSON)

	return []domain.ChatMessage{
		{
			Role:    domain.ChatRoleSystem,
			Content: "You are an e-commerce pricing analyst. Provide data-driven pricing recommendations. Return only valid JSON.",
		},
		{
			Role:    domain.ChatRoleUser,
			Content: instruction,
		},
	}
}

func firstWord(title string) string {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return title
	}

	return fields[0]
}
