package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopSense/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	product  domain.Product
	similar  []domain.Product
	matches  []domain.Product
	findErr  error
	matchErr error

	gotKeyword string
	gotText    string
}

func (f *fakeProductRepo) FindByID(_ context.Context, _ uint64) (domain.Product, error) {
	return f.product, f.findErr
}

func (f *fakeProductRepo) FindSimilarByTitle(_ context.Context, keyword string, _ uint64, _ int) ([]domain.Product, error) {
	f.gotKeyword = keyword
	return f.similar, nil
}

func (f *fakeProductRepo) FindByText(_ context.Context, text string, _ int) ([]domain.Product, error) {
	f.gotText = text
	return f.matches, f.matchErr
}

type fakeGateway struct {
	answer string
	err    error
}

func (f *fakeGateway) ChatCompletion(_ context.Context, _ []domain.ChatMessage, _ int, _ float32) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func pricedProduct(id uint64, cents int64, createdAt time.Time) domain.Product {
	return domain.Product{ID: id, Title: "Wireless Headphones", PriceCents: cents, CreatedAt: createdAt}
}

func TestAnalyzeProductPricing_BuildsReport(t *testing.T) {
	repo := &fakeProductRepo{
		product: domain.Product{ID: 1, Title: "Wireless Headphones", PriceCents: 7999},
		similar: []domain.Product{{ID: 2, Title: "Wireless Earbuds", PriceCents: 5999}},
	}
	gateway := &fakeGateway{
		answer: `{
			"analysis": {
				"recommendedPrice": 84.99,
				"confidence": 0.8,
				"reasoning": "Slightly under premium competitors",
				"marketPosition": "competitive",
				"priceElasticity": "medium"
			},
			"competitors": [
				{"competitorName": "Wireless Earbuds", "price": 59.99, "position": "lower", "difference": -20.00}
			],
			"insights": ["Room to move upmarket"]
		}`,
	}

	svc := NewService(repo, gateway)

	report, err := svc.AnalyzeProductPricing(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), report.Analysis.ProductID)
	assert.Equal(t, int64(7999), report.Analysis.CurrentPriceCents)
	assert.Equal(t, int64(8499), report.Analysis.RecommendedPriceCents)
	assert.Equal(t, "competitive", report.Analysis.MarketPosition)

	require.Len(t, report.Competitors, 1)
	assert.Equal(t, int64(5999), report.Competitors[0].PriceCents)
	assert.Equal(t, int64(-2000), report.Competitors[0].DifferenceCents)

	assert.Equal(t, "Wireless", repo.gotKeyword)
}

func TestAnalyzeProductPricing_UnparseableAnswerIsError(t *testing.T) {
	repo := &fakeProductRepo{product: domain.Product{ID: 1, Title: "Headphones"}}
	svc := NewService(repo, &fakeGateway{answer: "pricing looks fine to me"})

	_, err := svc.AnalyzeProductPricing(context.Background(), 1)
	require.Error(t, err)
}

func TestAnalyzeProductPricing_GatewayErrorPropagates(t *testing.T) {
	repo := &fakeProductRepo{product: domain.Product{ID: 1, Title: "Headphones"}}
	svc := NewService(repo, &fakeGateway{err: errors.New("upstream down")})

	_, err := svc.AnalyzeProductPricing(context.Background(), 1)
	require.Error(t, err)
}

func TestCategoryPricingInsights_Stats(t *testing.T) {
	now := time.Now()
	repo := &fakeProductRepo{matches: []domain.Product{
		pricedProduct(1, 12000, now),
		pricedProduct(2, 10000, now.Add(-time.Hour)),
		pricedProduct(3, 8000, now.Add(-2*time.Hour)),
		pricedProduct(4, 6000, now.Add(-3*time.Hour)),
	}}

	svc := NewService(repo, &fakeGateway{})

	insights, err := svc.CategoryPricingInsights(context.Background(), "headphones")
	require.NoError(t, err)

	assert.Equal(t, int64(9000), insights.AveragePriceCents)
	assert.Equal(t, int64(6000), insights.MinPriceCents)
	assert.Equal(t, int64(12000), insights.MaxPriceCents)
	// newest half averages 11000 vs 7000 for the older half
	assert.Equal(t, domain.PriceTrendIncreasing, insights.Trend)
	assert.NotEmpty(t, insights.Recommendations)
}

func TestCategoryPricingInsights_StableWithinBand(t *testing.T) {
	now := time.Now()
	repo := &fakeProductRepo{matches: []domain.Product{
		pricedProduct(1, 10100, now),
		pricedProduct(2, 10000, now.Add(-time.Hour)),
	}}

	svc := NewService(repo, &fakeGateway{})

	insights, err := svc.CategoryPricingInsights(context.Background(), "headphones")
	require.NoError(t, err)
	assert.Equal(t, domain.PriceTrendStable, insights.Trend)
}

func TestCategoryPricingInsights_EmptyCategory(t *testing.T) {
	svc := NewService(&fakeProductRepo{}, &fakeGateway{})

	_, err := svc.CategoryPricingInsights(context.Background(), "  ")
	require.Error(t, err)
}

func TestCategoryPricingInsights_NoMatches(t *testing.T) {
	svc := NewService(&fakeProductRepo{matches: nil}, &fakeGateway{})

	_, err := svc.CategoryPricingInsights(context.Background(), "headphones")
	require.Error(t, err)
}
