package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"shopSense/domain"
	"shopSense/pkg/logger"
	"shopSense/pkg/utils"
)

const (
	confidenceFloor = 0.3

	analyzeTemperature = 0.5
	analyzeMaxTokens   = 600
)

// ---- Repository / collaborator interfaces ----

type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
}

type PreferenceExtractor interface {
	Preferences(ctx context.Context, userID string) []string
}

type CompletionGateway interface {
	ChatCompletion(ctx context.Context, messages []domain.ChatMessage, maxTokens int, temperature float32) (string, error)
}

type Service struct {
	productRepo ProductRepository
	preferences PreferenceExtractor
	gateway     CompletionGateway
}

func NewService(productRepo ProductRepository, preferences PreferenceExtractor, gateway CompletionGateway) *Service {
	return &Service{
		productRepo: productRepo,
		preferences: preferences,
		gateway:     gateway,
	}
}

type cartAnalysisPayload struct {
	Recommendations []struct {
		ID     uint64  `json:"id"`
		Score  float64 `json:"score"`
		Reason string  `json:"reason"`
	} `json:"recommendations"`
	Insights []string `json:"insights"`
}

// AnalyzeCart asks for complementary items and free-text observations about
// the cart. Gateway or parse failures yield the empty analysis rather than a
// heuristic: there is no safe deterministic substitute for "what pairs with
// this cart", so silence beats a misleading guess. Only product-store
// failures surface as errors.
func (s *Service) AnalyzeCart(ctx context.Context, cartProductIDs []uint64, userID string) (domain.CartAnalysis, error) {
	empty := domain.CartAnalysis{
		Recommendations: []domain.Recommendation{},
		Insights:        []string{},
	}

	if err := ctx.Err(); err != nil {
		return empty, fmt.Errorf("context error: %w", err)
	}

	if len(cartProductIDs) == 0 {
		return empty, nil
	}

	cartProducts, err := s.productRepo.FindByIDs(ctx, cartProductIDs)
	if err != nil {
		return empty, fmt.Errorf("load cart products: %w", err)
	}
	if len(cartProducts) == 0 {
		return empty, nil
	}

	prefs := s.preferences.Preferences(ctx, userID)

	answer, err := s.gateway.ChatCompletion(ctx, analysisMessages(cartProducts, prefs), analyzeMaxTokens, analyzeTemperature)
	if err != nil {
		logger.Warn("Cart analysis call failed, returning empty analysis", "error", err)
		return empty, nil
	}

	var analysis cartAnalysisPayload
	if err := json.Unmarshal([]byte(utils.ExtractJSONBlock(answer)), &analysis); err != nil {
		logger.Warn("Unparseable cart analysis response, returning empty analysis")
		return empty, nil
	}

	inCart := make(map[uint64]bool, len(cartProductIDs))
	for _, id := range cartProductIDs {
		inCart[id] = true
	}

	recommendedIDs := make([]uint64, 0, len(analysis.Recommendations))
	for _, rec := range analysis.Recommendations {
		if !inCart[rec.ID] {
			recommendedIDs = append(recommendedIDs, rec.ID)
		}
	}

	resolved, err := s.productRepo.FindByIDs(ctx, recommendedIDs)
	if err != nil {
		return empty, fmt.Errorf("load recommended products: %w", err)
	}

	byID := make(map[uint64]domain.Product, len(resolved))
	for _, p := range resolved {
		byID[p.ID] = p
	}

	recommendations := make([]domain.Recommendation, 0, len(analysis.Recommendations))
	for _, rec := range analysis.Recommendations {
		// Prompt already asks to exclude cart items; filter again anyway.
		if inCart[rec.ID] {
			continue
		}
		if rec.Score <= confidenceFloor {
			continue
		}

		product, found := byID[rec.ID]
		if !found {
			continue
		}

		recommendations = append(recommendations, domain.Recommendation{
			Product: product,
			Score:   rec.Score,
			Reason:  rec.Reason,
		})
	}

	insights := analysis.Insights
	if insights == nil {
		insights = []string{}
	}

	return domain.CartAnalysis{
		Recommendations: recommendations,
		Insights:        insights,
	}, nil
}

func analysisMessages(cartProducts []domain.Product, prefs []string) []domain.ChatMessage {
	cartJSON, _ := json.Marshal(cartProducts)
	prefsJSON, _ := json.Marshal(prefs)

	instruction := fmt.Sprintf(`Analyze this shopping cart and provide recommendations and insights.

Cart Products: %s
User Preferences: %s

Return a JSON object with:
{
  "recommendations": [{id, score (0-1), reason}],
  "insights": ["insight 1", "insight 2"]
}

Recommendations should be complementary items, upgrades, or accessories.
Insights should be helpful observations about the cart.`, cartJSON, prefsJSON)

	return []domain.ChatMessage{
		{
			Role:    domain.ChatRoleSystem,
			Content: "You are an e-commerce cart analyst. Provide helpful recommendations and insights. Return only valid JSON.",
		},
		{
			Role:    domain.ChatRoleUser,
			Content: instruction,
		},
	}
}
