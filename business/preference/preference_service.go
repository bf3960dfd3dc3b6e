package preference

import (
	"context"
	"encoding/json"
	"shopSense/domain"
	"shopSense/pkg/logger"
	"shopSense/pkg/utils"
	"strings"
)

const (
	maxPreferenceEvents = 50

	extractTemperature = 0.3
	extractMaxTokens   = 200
)

// UserEventRepository contract interface
type UserEventRepository interface {
	FindRecentWithProducts(ctx context.Context, userID string, limit int) ([]domain.UserEvent, error)
}

// CompletionGateway contract interface
type CompletionGateway interface {
	ChatCompletion(ctx context.Context, messages []domain.ChatMessage, maxTokens int, temperature float32) (string, error)
}

// PreferenceCache is an optional fronting cache; Service tolerates nil.
type PreferenceCache interface {
	Get(ctx context.Context, userID string) ([]string, error)
	Set(ctx context.Context, userID string, prefs []string) error
}

type Service struct {
	eventRepo UserEventRepository
	gateway   CompletionGateway
	cache     PreferenceCache
}

func NewService(eventRepo UserEventRepository, gateway CompletionGateway, cache PreferenceCache) *Service {
	return &Service{
		eventRepo: eventRepo,
		gateway:   gateway,
		cache:     cache,
	}
}

// Preferences derives a short keyword list from the user's interaction
// history. Every failure path degrades to an empty slice: preference
// extraction is best-effort enrichment and ranking must work without it.
func (s *Service) Preferences(ctx context.Context, userID string) []string {
	if userID == "" {
		return []string{}
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, userID); err == nil {
			return cached
		}
	}

	events, err := s.eventRepo.FindRecentWithProducts(ctx, userID, maxPreferenceEvents)
	if err != nil {
		logger.Error("Failed to load events for preference extraction", err)
		return []string{}
	}

	var parts []string
	for _, event := range events {
		if event.Product.Title == "" {
			continue
		}
		parts = append(parts, event.Product.Title+" "+event.Product.Description)
	}

	productTexts := strings.TrimSpace(strings.Join(parts, " "))
	if productTexts == "" {
		return []string{}
	}

	answer, err := s.gateway.ChatCompletion(ctx, []domain.ChatMessage{
		{
			Role:    domain.ChatRoleSystem,
			Content: "You are an e-commerce personalization engine. Extract 5-10 key product categories or preferences from user behavior. Return only a JSON array of strings.",
		},
		{
			Role:    domain.ChatRoleUser,
			Content: "Extract user preferences from these product interactions: " + productTexts,
		},
	}, extractMaxTokens, extractTemperature)
	if err != nil {
		logger.Warn("Preference extraction skipped, gateway unavailable", "error", err)
		return []string{}
	}

	var prefs []string
	if err := json.Unmarshal([]byte(utils.ExtractJSONBlock(answer)), &prefs); err != nil {
		// Unparseable output just means no preferences learned.
		return []string{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, prefs); err != nil {
			logger.Warn("Failed to cache preferences", "error", err)
		}
	}

	return prefs
}
