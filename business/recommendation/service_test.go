package recommendation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"shopSense/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	candidates []domain.Product
	err        error

	gotExclude []uint64
	gotLimit   int
}

func (f *fakeProductRepo) FindCandidates(_ context.Context, excludeIDs []uint64, limit int) ([]domain.Product, error) {
	f.gotExclude = excludeIDs
	f.gotLimit = limit
	return f.candidates, f.err
}

type fakeBehavior struct {
	events []domain.UserEvent
}

func (f *fakeBehavior) RecentEvents(_ context.Context, _ string, _ int) []domain.UserEvent {
	return f.events
}

type fakePreferences struct {
	prefs []string
}

func (f *fakePreferences) Preferences(_ context.Context, _ string) []string {
	return f.prefs
}

type fakeGateway struct {
	answer string
	err    error
	calls  int
}

func (f *fakeGateway) ChatCompletion(_ context.Context, _ []domain.ChatMessage, _ int, _ float32) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func products(ids ...uint64) []domain.Product {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Product{
			ID:         id,
			Title:      fmt.Sprintf("Product %d", id),
			PriceCents: int64(id) * 100,
		})
	}
	return out
}

func TestRecommend_ParsedRanking(t *testing.T) {
	repo := &fakeProductRepo{candidates: products(1, 2, 3)}
	gateway := &fakeGateway{
		answer: `[{"id":2,"score":0.9,"reason":"Matches recent views"},{"id":1,"score":0.7,"reason":"Popular in category"}]`,
	}

	svc := NewService(repo, &fakeBehavior{}, &fakePreferences{}, gateway)

	recs, err := svc.Recommend(context.Background(), "user-1", domain.RecommendContext{Limit: 10})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, uint64(2), recs[0].ID)
	assert.Equal(t, 0.9, recs[0].Score)
	assert.Equal(t, "Matches recent views", recs[0].Reason)
	assert.Equal(t, "Product 2", recs[0].Title)

	assert.Equal(t, uint64(1), recs[1].ID)
}

func TestRecommend_FencedResponse(t *testing.T) {
	repo := &fakeProductRepo{candidates: products(1, 2)}
	gateway := &fakeGateway{
		answer: "```json\n[{\"id\":1,\"score\":0.8,\"reason\":\"ok\"}]\n```",
	}

	svc := NewService(repo, &fakeBehavior{}, &fakePreferences{}, gateway)

	recs, err := svc.Recommend(context.Background(), "user-1", domain.RecommendContext{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, uint64(1), recs[0].ID)
}

func TestRecommend_GatewayErrorFallsBack(t *testing.T) {
	repo := &fakeProductRepo{candidates: products(10, 20, 30)}
	gateway := &fakeGateway{err: errors.New("upstream down")}

	svc := NewService(repo, &fakeBehavior{}, &fakePreferences{}, gateway)

	recs, err := svc.Recommend(context.Background(), "user-1", domain.RecommendContext{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, uint64(10), recs[0].ID)
	assert.Equal(t, 1.0, recs[0].Score)
	assert.Equal(t, "Popular product", recs[0].Reason)

	assert.Equal(t, uint64(20), recs[1].ID)
	assert.InDelta(t, 0.9, recs[1].Score, 1e-9)
}

func TestRecommend_MalformedResponseFallsBack(t *testing.T) {
	repo := &fakeProductRepo{candidates: products(1, 2)}
	gateway := &fakeGateway{answer: "Sorry, I cannot rank these products."}

	svc := NewService(repo, &fakeBehavior{}, &fakePreferences{}, gateway)

	recs, err := svc.Recommend(context.Background(), "user-1", domain.RecommendContext{Limit: 5})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Popular product", recs[0].Reason)
}

func TestRecommend_DropsLowConfidenceAndUnknownIDs(t *testing.T) {
	repo := &fakeProductRepo{candidates: products(1, 2, 3)}
	gateway := &fakeGateway{
		answer: `[
			{"id":1,"score":0.95,"reason":"strong"},
			{"id":2,"score":0.3,"reason":"at the floor"},
			{"id":999,"score":0.9,"reason":"not a candidate"},
			{"id":3,"score":0.5,"reason":"fine"}
		]`,
	}

	svc := NewService(repo, &fakeBehavior{}, &fakePreferences{}, gateway)

	recs, err := svc.Recommend(context.Background(), "user-1", domain.RecommendContext{Limit: 10})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(1), recs[0].ID)
	assert.Equal(t, uint64(3), recs[1].ID)
}

func TestRecommend_LimitCapsParsedRanking(t *testing.T) {
	repo := &fakeProductRepo{candidates: products(1, 2, 3, 4)}
	gateway := &fakeGateway{
		answer: `[
			{"id":1,"score":0.9,"reason":"a"},
			{"id":2,"score":0.8,"reason":"b"},
			{"id":3,"score":0.7,"reason":"c"}
		]`,
	}

	svc := NewService(repo, &fakeBehavior{}, &fakePreferences{}, gateway)

	recs, err := svc.Recommend(context.Background(), "user-1", domain.RecommendContext{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestRecommend_ExcludesCurrentAndCartProducts(t *testing.T) {
	repo := &fakeProductRepo{candidates: products(5)}
	gateway := &fakeGateway{answer: `[]`}

	svc := NewService(repo, &fakeBehavior{}, &fakePreferences{}, gateway)

	_, err := svc.Recommend(context.Background(), "user-1", domain.RecommendContext{
		CurrentProductID: 7,
		CartProductIDs:   []uint64{8, 0, 9},
	})
	require.NoError(t, err)

	assert.Equal(t, []uint64{7, 8, 9}, repo.gotExclude)
	assert.Equal(t, candidatePoolSize, repo.gotLimit)
}

func TestRecommend_EmptyPoolSkipsGateway(t *testing.T) {
	repo := &fakeProductRepo{candidates: nil}
	gateway := &fakeGateway{answer: `[]`}

	svc := NewService(repo, &fakeBehavior{}, &fakePreferences{}, gateway)

	recs, err := svc.Recommend(context.Background(), "user-1", domain.RecommendContext{})
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, 0, gateway.calls)
}

func TestRecommend_CandidateStoreErrorPropagates(t *testing.T) {
	repo := &fakeProductRepo{err: errors.New("connection refused")}
	gateway := &fakeGateway{answer: `[]`}

	svc := NewService(repo, &fakeBehavior{}, &fakePreferences{}, gateway)

	_, err := svc.Recommend(context.Background(), "user-1", domain.RecommendContext{})
	require.Error(t, err)
	assert.Equal(t, 0, gateway.calls)
}

func TestFallbackRanking_Deterministic(t *testing.T) {
	candidates := products(1, 2, 3)

	first := fallbackRanking(candidates, 10)
	second := fallbackRanking(candidates, 10)
	assert.Equal(t, first, second)

	require.Len(t, first, 3)
	assert.Equal(t, 1.0, first[0].Score)
	assert.InDelta(t, 0.9, first[1].Score, 1e-9)
	assert.InDelta(t, 0.8, first[2].Score, 1e-9)
	for _, rec := range first {
		assert.Equal(t, "Popular product", rec.Reason)
	}
}

func TestFallbackRanking_LimitBeyondCandidates(t *testing.T) {
	recs := fallbackRanking(products(1, 2), 10)
	assert.Len(t, recs, 2)
}
