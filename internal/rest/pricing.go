package rest

import (
	"context"
	"net/http"
	"shopSense/domain"
	"shopSense/pkg/logger"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type PricingService interface {
	AnalyzeProductPricing(ctx context.Context, productID uint64) (domain.PricingReport, error)
	CategoryPricingInsights(ctx context.Context, category string) (domain.CategoryPricingInsights, error)
}

type PricingHandler struct {
	pricingService PricingService
	timeout        time.Duration
}

func NewPricingHandler(pricingService PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
		timeout:        30 * time.Second,
	}
}

// GET /api/v1/admin/pricing/products/:id
func (h *PricingHandler) AnalyzeProduct(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.pricingService.AnalyzeProductPricing(ctx, productID)
	if err != nil {
		logger.Error("Failed to analyze product pricing", err)
		if err.Error() == "product not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(report))
}

// GET /api/v1/admin/pricing/categories?category=coffee
func (h *PricingHandler) CategoryInsights(c echo.Context) error {
	category := c.QueryParam("category")
	if category == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "category is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	insights, err := h.pricingService.CategoryPricingInsights(ctx, category)
	if err != nil {
		logger.Error("Failed to build category pricing insights", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(insights))
}
