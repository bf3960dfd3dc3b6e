package cart

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
	byID map[uint64]domain.Product
	err  error
}

func (f *fakeProductRepo) FindByIDs(_ context.Context, ids []uint64) ([]domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}

	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
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

func catalog(ids ...uint64) map[uint64]domain.Product {
	out := make(map[uint64]domain.Product, len(ids))
	for _, id := range ids {
		out[id] = domain.Product{
			ID:         id,
			Title:      fmt.Sprintf("Product %d", id),
			PriceCents: int64(id) * 100,
		}
	}
	return out
}

func TestAnalyzeCart_EmptyCartSkipsGateway(t *testing.T) {
	gateway := &fakeGateway{answer: `{}`}
	svc := NewService(&fakeProductRepo{byID: catalog()}, &fakePreferences{}, gateway)

	analysis, err := svc.AnalyzeCart(context.Background(), nil, "user-1")
	require.NoError(t, err)

	assert.Empty(t, analysis.Recommendations)
	assert.Empty(t, analysis.Insights)
	assert.NotNil(t, analysis.Recommendations)
	assert.NotNil(t, analysis.Insights)
	assert.Equal(t, 0, gateway.calls)
}

func TestAnalyzeCart_MergesResolvedRecommendations(t *testing.T) {
	gateway := &fakeGateway{
		answer: `{
			"recommendations": [
				{"id":3,"score":0.8,"reason":"Pairs well"},
				{"id":4,"score":0.6,"reason":"Common add-on"}
			],
			"insights": ["Cart skews toward electronics"]
		}`,
	}
	svc := NewService(&fakeProductRepo{byID: catalog(1, 2, 3, 4)}, &fakePreferences{}, gateway)

	analysis, err := svc.AnalyzeCart(context.Background(), []uint64{1, 2}, "user-1")
	require.NoError(t, err)

	require.Len(t, analysis.Recommendations, 2)
	assert.Equal(t, uint64(3), analysis.Recommendations[0].ID)
	assert.Equal(t, "Pairs well", analysis.Recommendations[0].Reason)
	assert.Equal(t, "Product 3", analysis.Recommendations[0].Title)
	assert.Equal(t, []string{"Cart skews toward electronics"}, analysis.Insights)
}

func TestAnalyzeCart_FiltersInCartLowScoreAndUnknown(t *testing.T) {
	gateway := &fakeGateway{
		answer: `{
			"recommendations": [
				{"id":1,"score":0.9,"reason":"already in cart"},
				{"id":3,"score":0.2,"reason":"too weak"},
				{"id":999,"score":0.9,"reason":"hallucinated"},
				{"id":4,"score":0.7,"reason":"good"}
			],
			"insights": []
		}`,
	}
	svc := NewService(&fakeProductRepo{byID: catalog(1, 2, 3, 4)}, &fakePreferences{}, gateway)

	analysis, err := svc.AnalyzeCart(context.Background(), []uint64{1, 2}, "user-1")
	require.NoError(t, err)

	require.Len(t, analysis.Recommendations, 1)
	assert.Equal(t, uint64(4), analysis.Recommendations[0].ID)
}

func TestAnalyzeCart_GatewayErrorReturnsEmptyAnalysis(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("upstream down")}
	svc := NewService(&fakeProductRepo{byID: catalog(1)}, &fakePreferences{}, gateway)

	analysis, err := svc.AnalyzeCart(context.Background(), []uint64{1}, "user-1")
	require.NoError(t, err)

	assert.Empty(t, analysis.Recommendations)
	assert.Empty(t, analysis.Insights)
	assert.NotNil(t, analysis.Recommendations)
	assert.NotNil(t, analysis.Insights)
}

func TestAnalyzeCart_UnparseableResponseReturnsEmptyAnalysis(t *testing.T) {
	gateway := &fakeGateway{answer: "I think these go well together."}
	svc := NewService(&fakeProductRepo{byID: catalog(1)}, &fakePreferences{}, gateway)

	analysis, err := svc.AnalyzeCart(context.Background(), []uint64{1}, "user-1")
	require.NoError(t, err)
	assert.Empty(t, analysis.Recommendations)
	assert.Empty(t, analysis.Insights)
}

func TestAnalyzeCart_NoCartProductsResolveSkipsGateway(t *testing.T) {
	gateway := &fakeGateway{answer: `{}`}
	svc := NewService(&fakeProductRepo{byID: catalog()}, &fakePreferences{}, gateway)

	analysis, err := svc.AnalyzeCart(context.Background(), []uint64{77}, "user-1")
	require.NoError(t, err)
	assert.Empty(t, analysis.Recommendations)
	assert.Equal(t, 0, gateway.calls)
}

func TestAnalyzeCart_ProductStoreErrorPropagates(t *testing.T) {
	gateway := &fakeGateway{answer: `{}`}
	svc := NewService(&fakeProductRepo{err: errors.New("connection refused")}, &fakePreferences{}, gateway)

	_, err := svc.AnalyzeCart(context.Background(), []uint64{1}, "user-1")
	require.Error(t, err)
}

func TestAnalyzeCart_NilInsightsBecomeEmptySlice(t *testing.T) {
	gateway := &fakeGateway{answer: `{"recommendations": []}`}
	svc := NewService(&fakeProductRepo{byID: catalog(1)}, &fakePreferences{}, gateway)

	analysis, err := svc.AnalyzeCart(context.Background(), []uint64{1}, "user-1")
	require.NoError(t, err)
	assert.NotNil(t, analysis.Insights)
	assert.Empty(t, analysis.Insights)
}
