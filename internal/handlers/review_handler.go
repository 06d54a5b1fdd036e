package handlers

import (
	"errors"
	"net/http"

	"localspot/internal/models"
	"localspot/internal/repositories/interfaces"
	"localspot/internal/services"
	"localspot/internal/utils"
	"localspot/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateReview submits a new review for a business
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var request validators.ReviewCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	authorID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}

	authorObjectID, ok := authorID.(primitive.ObjectID)
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	review, err := h.reviewService.SubmitReview(c.Request.Context(), authorObjectID, &request)
	if err != nil {
		h.respondSubmitError(c, err)
		return
	}

	status := "published"
	if review.Status != models.ReviewStatusApproved {
		status = "pending_moderation"
	}

	utils.CreatedResponse(c, "Review submitted successfully", gin.H{
		"review": review,
		"status": status,
	})
}

// MarkHelpful records a helpful vote on a review
func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid review ID")
		return
	}

	review, err := h.reviewService.MarkHelpful(c.Request.Context(), reviewID)
	if err != nil {
		if errors.Is(err, interfaces.ErrReviewNotFound) {
			utils.NotFoundResponse(c, "Review")
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "HELPFUL_VOTE_FAILED", "Failed to record helpful vote: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Helpful vote recorded", review)
}

// GetReviewerProfile returns a user's reviewer level and counters
func (h *ReviewHandler) GetReviewerProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	profile, err := h.reviewService.GetReviewerProfile(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "PROFILE_FETCH_FAILED", "Failed to get reviewer profile: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Reviewer profile retrieved successfully", profile)
}

// ListBusinessAuditTrail returns the moderation audit entries for a
// business, newest first. Admin only.
func (h *ReviewHandler) ListBusinessAuditTrail(c *gin.Context) {
	businessID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid business ID")
		return
	}

	params := utils.GetPaginationParams(c)

	entries, total, err := h.reviewService.GetBusinessAuditTrail(c.Request.Context(), businessID, params)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "AUDIT_TRAIL_FETCH_FAILED", "Failed to get audit trail: "+err.Error())
		return
	}

	utils.SuccessResponseWithMeta(c, "Audit trail retrieved successfully", entries, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Count:      len(entries),
	})
}

// GetReviewAuditTrail returns the full moderation history of one review
// in chronological order. Admin only.
func (h *ReviewHandler) GetReviewAuditTrail(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid review ID")
		return
	}

	entries, err := h.reviewService.GetReviewAuditTrail(c.Request.Context(), reviewID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "AUDIT_TRAIL_FETCH_FAILED", "Failed to get audit trail: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Audit trail retrieved successfully", entries)
}

// respondSubmitError maps ingestion failures onto stable error codes.
// Precondition failures are checked before payload validation, so their
// statuses take priority here as well.
func (h *ReviewHandler) respondSubmitError(c *gin.Context, err error) {
	var validationErrors validators.ValidationErrors

	switch {
	case errors.Is(err, interfaces.ErrBusinessNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, utils.CodeBusinessNotFound, "Business not found")
	case errors.Is(err, services.ErrBusinessNotAvailable):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, utils.CodeBusinessNotAvailable, "Business is not accepting reviews")
	case errors.Is(err, services.ErrSelfReviewForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, utils.CodeSelfReviewForbidden, "Business owners cannot review their own business")
	case errors.Is(err, services.ErrDuplicateReview):
		utils.ConflictResponse(c, utils.CodeDuplicateReview, "You have already reviewed this business")
	case errors.As(err, &validationErrors):
		utils.ValidationErrorResponse(c, validationErrors.Details())
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "REVIEW_SUBMIT_FAILED", "Failed to submit review: "+err.Error())
	}
}
