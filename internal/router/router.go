package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Angelo10101/newhouseit/internal/api"
	"github.com/Angelo10101/newhouseit/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	recommendHandler *api.RecommendHandler,
	authHandler *api.AuthHandler,
	cartHandler *api.CartHandler,
	addressHandler *api.AddressHandler,
	profileHandler *api.ProfileHandler,
	orderHandler *api.OrderHandler,
	locationHandler *api.LocationHandler,
	validator middleware.TokenValidator,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	// Public surface: health check and the recommendation endpoint the
	// mobile app calls without a session.
	recommendHandler.RegisterRoutes(router)

	// API v1 routes
	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		cartHandler.RegisterRoutes(protected)
		addressHandler.RegisterRoutes(protected)
		profileHandler.RegisterRoutes(protected)
		orderHandler.RegisterRoutes(protected)
		locationHandler.RegisterRoutes(protected)
	}

	return router
}
