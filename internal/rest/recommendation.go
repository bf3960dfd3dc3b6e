package rest

import (
	"context"
	"net/http"
	"shopSense/domain"
	"shopSense/pkg/logger"
	"shopSense/pkg/metrics"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate    *validator.Validate
		recoService RecommendationService
		cartService CartService
		behavior    BehaviorService
		timeout     time.Duration
	}

	RecommendationService interface {
		Recommend(ctx context.Context, userID string, rc domain.RecommendContext) ([]domain.Recommendation, error)
	}

	CartService interface {
		AnalyzeCart(ctx context.Context, cartProductIDs []uint64, userID string) (domain.CartAnalysis, error)
	}

	BehaviorService interface {
		Track(ctx context.Context, event domain.UserEvent)
	}

	RecommendQuery struct {
		ProductID uint64   `query:"product_id"`
		CartIDs   []uint64 `query:"cart_ids"`
		Limit     int      `query:"limit" validate:"gte=0,lte=50"`
	}

	AnalyzeCartRequest struct {
		ProductIDs []uint64 `json:"product_ids"`
	}

	TrackEventRequest struct {
		ProductID uint64         `json:"product_id"`
		EventType string         `json:"event_type" validate:"required,oneof=view search cart_add purchase chat_question"`
		Metadata  map[string]any `json:"metadata"`
	}
)

func NewRecommendationHandler(recoService RecommendationService, cartService CartService, behavior BehaviorService) *RecommendationHandler {
	return &RecommendationHandler{
		validate:    validator.New(),
		recoService: recoService,
		cartService: cartService,
		behavior:    behavior,
		// the completion call dominates latency, so this is wider than the
		// usual handler timeout
		timeout: 30 * time.Second,
	}
}

// GET /api/v1/recommendations?product_id=12&cart_ids=3&cart_ids=4&limit=10
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	started := time.Now()
	metrics.RecommendRequests.Inc()

	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	recs, err := h.recoService.Recommend(ctx, optionalUserID(c), domain.RecommendContext{
		CurrentProductID: q.ProductID,
		CartProductIDs:   q.CartIDs,
		Limit:            q.Limit,
	})
	if err != nil {
		logger.Error("Failed to build recommendations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	metrics.RecommendLatency.Observe(time.Since(started).Seconds())

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// POST /api/v1/cart/analyze
func (h *RecommendationHandler) AnalyzeCart(c echo.Context) error {
	started := time.Now()

	var req AnalyzeCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	analysis, err := h.cartService.AnalyzeCart(ctx, req.ProductIDs, optionalUserID(c))
	if err != nil {
		logger.Error("Failed to analyze cart", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	metrics.CartAnalysisLatency.Observe(time.Since(started).Seconds())

	return c.JSON(http.StatusOK, fres.Response.StatusOK(analysis))
}

// POST /api/v1/events
func (h *RecommendationHandler) TrackEvent(c echo.Context) error {
	var req TrackEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// Tracking is best-effort: the service logs failures and this endpoint
	// always acknowledges.
	h.behavior.Track(ctx, domain.UserEvent{
		UserID:    optionalUserID(c),
		ProductID: req.ProductID,
		EventType: req.EventType,
		Metadata:  req.Metadata,
	})

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "event accepted",
	})
}

// optionalUserID returns the authenticated user id, or "" for anonymous
// traffic. Recommendation endpoints work either way.
func optionalUserID(c echo.Context) string {
	if uid, ok := c.Get("user_id").(string); ok {
		return uid
	}

	return ""
}
