package routes

import (
	"localspot/internal/handlers"
	"localspot/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupReviewRoutes sets up routes for review submission and voting
func SetupReviewRoutes(r *gin.RouterGroup, reviewHandler *handlers.ReviewHandler, jwtSecret string) {
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthRequired(jwtSecret))
	{
		reviews.POST("", reviewHandler.CreateReview)
		reviews.POST("/:id/helpful", reviewHandler.MarkHelpful)
	}

	users := r.Group("/users")
	{
		users.GET("/:id/reviewer-profile", reviewHandler.GetReviewerProfile)
	}

	// Moderation audit trail is restricted to admins.
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("/businesses/:id/audit-logs", reviewHandler.ListBusinessAuditTrail)
		admin.GET("/reviews/:id/audit-logs", reviewHandler.GetReviewAuditTrail)
	}
}
