package behavior

import (
	"context"
	"errors"
	"testing"

	"shopSense/domain"

	"github.com/stretchr/testify/assert"
)

type fakeEventRepo struct {
	created []domain.UserEvent
	events  []domain.UserEvent
	err     error

	gotLimit int
}

func (f *fakeEventRepo) Create(_ context.Context, event *domain.UserEvent) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *event)
	return nil
}

func (f *fakeEventRepo) FindRecentByUser(_ context.Context, _ string, limit int) ([]domain.UserEvent, error) {
	f.gotLimit = limit
	return f.events, f.err
}

func TestTrack_PersistsValidEvent(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewService(repo)

	svc.Track(context.Background(), domain.UserEvent{
		UserID:    "user-1",
		ProductID: 7,
		EventType: domain.EventView,
	})

	assert.Len(t, repo.created, 1)
	assert.Equal(t, domain.EventView, repo.created[0].EventType)
}

func TestTrack_DropsUnknownEventType(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewService(repo)

	svc.Track(context.Background(), domain.UserEvent{
		UserID:    "user-1",
		EventType: "page_scroll",
	})

	assert.Empty(t, repo.created)
}

func TestTrack_SwallowsStorageFailure(t *testing.T) {
	repo := &fakeEventRepo{err: errors.New("connection refused")}
	svc := NewService(repo)

	// must not panic or surface the error
	svc.Track(context.Background(), domain.UserEvent{
		UserID:    "user-1",
		EventType: domain.EventPurchase,
	})
}

func TestRecentEvents_AnonymousUser(t *testing.T) {
	svc := NewService(&fakeEventRepo{events: []domain.UserEvent{{UserID: "x"}}})

	events := svc.RecentEvents(context.Background(), "", 20)
	assert.Empty(t, events)
}

func TestRecentEvents_DefaultsLimit(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewService(repo)

	svc.RecentEvents(context.Background(), "user-1", 0)
	assert.Equal(t, defaultProfileLimit, repo.gotLimit)
}

func TestRecentEvents_StorageFailureYieldsEmpty(t *testing.T) {
	svc := NewService(&fakeEventRepo{err: errors.New("connection refused")})

	events := svc.RecentEvents(context.Background(), "user-1", 20)
	assert.Empty(t, events)
	assert.NotNil(t, events)
}
