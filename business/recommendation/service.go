package recommendation

import (
	"context"
	"fmt"
	"shopSense/domain"
	"shopSense/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	candidatePoolSize = 50
	profileLimit      = 20
	promptEventCount  = 5
	defaultLimit      = 10
	confidenceFloor   = 0.3

	rankTemperature = 0.4
	rankMaxTokens   = 800
)

// ---- Repository / collaborator interfaces ----

type ProductRepository interface {
	FindCandidates(ctx context.Context, excludeIDs []uint64, limit int) ([]domain.Product, error)
}

type BehaviorProfiler interface {
	RecentEvents(ctx context.Context, userID string, limit int) []domain.UserEvent
}

type PreferenceExtractor interface {
	Preferences(ctx context.Context, userID string) []string
}

type CompletionGateway interface {
	ChatCompletion(ctx context.Context, messages []domain.ChatMessage, maxTokens int, temperature float32) (string, error)
}

// ---- Usecase / Service ----

type Service struct {
	productRepo ProductRepository
	behavior    BehaviorProfiler
	preferences PreferenceExtractor
	gateway     CompletionGateway
}

func NewService(
	productRepo ProductRepository,
	behavior BehaviorProfiler,
	preferences PreferenceExtractor,
	gateway CompletionGateway,
) *Service {
	return &Service{
		productRepo: productRepo,
		behavior:    behavior,
		preferences: preferences,
		gateway:     gateway,
	}
}

// Recommend produces a scored, explained product ranking for the given user
// and context. It always resolves with a ranking (possibly empty) under any
// gateway failure; only a candidate-store failure is returned as an error.
func (s *Service) Recommend(ctx context.Context, userID string, rc domain.RecommendContext) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	limit := rc.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	// Behavior profile and preferences are independent reads.
	var (
		events []domain.UserEvent
		prefs  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events = s.behavior.RecentEvents(gctx, userID, profileLimit)
		return nil
	})
	g.Go(func() error {
		prefs = s.preferences.Preferences(gctx, userID)
		return nil
	})
	_ = g.Wait()

	candidates, err := s.loadCandidates(ctx, rc)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []domain.Recommendation{}, nil
	}

	answer, err := s.gateway.ChatCompletion(ctx, rankingMessages(events, prefs, rc, candidates, limit), rankMaxTokens, rankTemperature)
	if err != nil {
		logger.Warn("Ranking call failed, serving deterministic fallback", "error", err)
		FallbackTotal.WithLabelValues("gateway_error").Inc()
		return fallbackRanking(candidates, limit), nil
	}

	rankings, ok := parseRankings(answer)
	if !ok {
		logger.Warn("Unparseable ranking response, serving deterministic fallback")
		FallbackTotal.WithLabelValues("malformed_response").Inc()
		return fallbackRanking(candidates, limit), nil
	}

	byID := make(map[uint64]domain.Product, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p
	}

	recommendations := make([]domain.Recommendation, 0, limit)
	for _, ranking := range rankings {
		if len(recommendations) == limit {
			break
		}
		if ranking.Score <= confidenceFloor {
			continue
		}

		// Ids outside the candidate pool are hallucinated; never surface them.
		product, found := byID[ranking.ID]
		if !found {
			continue
		}

		recommendations = append(recommendations, domain.Recommendation{
			Product: product,
			Score:   ranking.Score,
			Reason:  ranking.Reason,
		})
	}

	return recommendations, nil
}

// fallbackRanking orders candidates exactly as fetched with descending
// synthetic scores, so the storefront never goes dark on an upstream AI
// failure. Pure function of the candidate order.
func fallbackRanking(candidates []domain.Product, limit int) []domain.Recommendation {
	if limit > len(candidates) {
		limit = len(candidates)
	}

	recommendations := make([]domain.Recommendation, 0, limit)
	for i, product := range candidates[:limit] {
		recommendations = append(recommendations, domain.Recommendation{
			Product: product,
			Score:   1 - float64(i)*0.1,
			Reason:  "Popular product",
		})
	}

	return recommendations
}
