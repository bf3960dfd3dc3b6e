package behavior

import (
	"context"
	"shopSense/domain"
	"shopSense/pkg/logger"
)

const defaultProfileLimit = 20

// UserEventRepository contract interface
type UserEventRepository interface {
	Create(ctx context.Context, event *domain.UserEvent) error
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]domain.UserEvent, error)
}

var validEventTypes = map[string]bool{
	domain.EventView:         true,
	domain.EventSearch:       true,
	domain.EventCartAdd:      true,
	domain.EventPurchase:     true,
	domain.EventChatQuestion: true,
}

type Service struct {
	eventRepo UserEventRepository
}

func NewService(eventRepo UserEventRepository) *Service {
	return &Service{eventRepo: eventRepo}
}

// Track persists an interaction event. It never surfaces a failure: tracking
// rides along primary actions (viewing a product, sending a chat message) and
// must not break them. The write still completes before returning so event
// order stays deterministic.
func (s *Service) Track(ctx context.Context, event domain.UserEvent) {
	if !validEventTypes[event.EventType] {
		logger.Warn("Dropping event with unknown type", "event_type", event.EventType)
		return
	}

	if err := s.eventRepo.Create(ctx, &event); err != nil {
		logger.Error("Failed to track behavior", err)
	}
}

// RecentEvents returns up to limit events for the user, newest first. An
// anonymous user or a storage failure yields an empty slice: the behavior
// profile is enrichment, not a hard dependency.
func (s *Service) RecentEvents(ctx context.Context, userID string, limit int) []domain.UserEvent {
	if userID == "" {
		return []domain.UserEvent{}
	}
	if limit <= 0 {
		limit = defaultProfileLimit
	}

	events, err := s.eventRepo.FindRecentByUser(ctx, userID, limit)
	if err != nil {
		logger.Error("Failed to load behavior profile", err)
		return []domain.UserEvent{}
	}

	return events
}
