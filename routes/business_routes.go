package routes

import (
	"localspot/internal/handlers"
	"localspot/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBusinessRoutes sets up routes for business discovery
func SetupBusinessRoutes(r *gin.RouterGroup, businessHandler *handlers.BusinessHandler, jwtSecret string) {
	// Public discovery routes. Optional auth widens visibility for
	// owners and admins.
	businesses := r.Group("/businesses")
	businesses.Use(middleware.OptionalAuth(jwtSecret))
	{
		businesses.GET("", businessHandler.SearchBusinesses)
		businesses.GET("/:id", businessHandler.GetBusiness)
		businesses.GET("/:id/reviews", businessHandler.ListBusinessReviews)
	}
}
