package router

import (
	"shopSense/internal/middleware"
	"shopSense/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct, authRequired, adminOnly)
}

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	optionalAuth := middleware.OptionalAuth()

	api.GET("/recommendations", handler.Recommend, optionalAuth)
	api.POST("/cart/analyze", handler.AnalyzeCart, optionalAuth)
	api.POST("/events", handler.TrackEvent, optionalAuth)
}

func SetPricingAdminRoutes(api *echo.Group, handler *rest.PricingHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/pricing", authRequired, adminOnly)

	admin.GET("/products/:id", handler.AnalyzeProduct)
	admin.GET("/categories", handler.CategoryInsights)
}
