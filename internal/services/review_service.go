package services

import (
	"context"
	"errors"
	"math"
	"time"

	"localspot/internal/models"
	"localspot/internal/repositories/interfaces"
	"localspot/internal/utils"
	"localspot/internal/validators"
	"localspot/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Business-rule violations surfaced to the caller. Never retried.
var (
	ErrBusinessNotAvailable = errors.New("business is not accepting reviews")
	ErrSelfReviewForbidden  = errors.New("business owners cannot review their own business")
	ErrDuplicateReview      = errors.New("a review for this business by this author already exists")
)

type ReviewService interface {
	// SubmitReview runs the full ingestion pipeline: preconditions,
	// moderation, persistence, and aggregate recomputation.
	SubmitReview(ctx context.Context, authorID primitive.ObjectID, req *validators.ReviewCreateRequest) (*models.Review, error)

	// MarkHelpful records a helpful vote and refreshes the author's level.
	MarkHelpful(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error)

	// Aggregate recomputation. Both are idempotent full recalculations
	// from a fresh scan of approved reviews, safe to re-run.
	RecomputeBusinessRating(ctx context.Context, businessID primitive.ObjectID) error
	RecomputeReviewerLevel(ctx context.Context, authorID primitive.ObjectID) error

	GetReviewerProfile(ctx context.Context, userID primitive.ObjectID) (*models.ReviewerProfile, error)

	// Moderation audit trail, admin surface.
	GetBusinessAuditTrail(ctx context.Context, businessID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)
	GetReviewAuditTrail(ctx context.Context, reviewID primitive.ObjectID) ([]*models.AuditLog, error)
}

type reviewService struct {
	reviewRepo   interfaces.ReviewRepository
	businessRepo interfaces.BusinessRepository
	profileRepo  interfaces.ReviewerProfileRepository
	auditRepo    interfaces.AuditLogRepository
	moderation   ModerationService
	cache        CacheService
	logger       *logger.Logger
}

func NewReviewService(
	reviewRepo interfaces.ReviewRepository,
	businessRepo interfaces.BusinessRepository,
	profileRepo interfaces.ReviewerProfileRepository,
	auditRepo interfaces.AuditLogRepository,
	moderation ModerationService,
	cache CacheService,
	log *logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		businessRepo: businessRepo,
		profileRepo:  profileRepo,
		auditRepo:    auditRepo,
		moderation:   moderation,
		cache:        cache,
		logger:       log,
	}
}

// recordAudit appends a moderation audit entry. The audit trail is best
// effort; a write failure is logged and never fails the operation.
func (s *reviewService) recordAudit(ctx context.Context, review *models.Review, action models.AuditAction, decision *ModerationResult) {
	if s.auditRepo == nil {
		return
	}

	entry := &models.AuditLog{
		ReviewID:   review.ID,
		BusinessID: review.BusinessID,
		ActorID:    &review.AuthorID,
		Action:     action,
	}
	if decision != nil {
		entry.ModerationScore = decision.Score
		entry.Flags = decision.Flags
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithReviewID(review.ID).Warn("Failed to write audit log entry")
	}
}

// SubmitReview checks preconditions in a fixed order, first failure wins:
// business published, not a self-review, no duplicate, then payload
// validation. On success the text is moderated, the review persisted with
// the resulting status, and the business aggregate recomputed before
// returning so the author's next read reflects their write. The reviewer
// level refresh runs in the background.
func (s *reviewService) SubmitReview(ctx context.Context, authorID primitive.ObjectID, req *validators.ReviewCreateRequest) (*models.Review, error) {
	businessID, err := primitive.ObjectIDFromHex(req.BusinessID)
	if err != nil {
		return nil, interfaces.ErrBusinessNotFound
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if business.Status != models.BusinessStatusPublished {
		return nil, ErrBusinessNotAvailable
	}

	if authorID == business.OwnerID {
		return nil, ErrSelfReviewForbidden
	}

	exists, err := s.reviewRepo.ExistsForBusinessAndAuthor(ctx, businessID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	if validationErrors := validators.ValidateReviewCreate(req); len(validationErrors) > 0 {
		return nil, validationErrors
	}

	decision := s.moderation.Evaluate(ctx, req.Title+" "+req.Text)

	status := models.ReviewStatusApproved
	if decision.Flagged {
		status = models.ReviewStatusPending
	}

	photos := make([]models.ReviewPhoto, 0, len(req.Photos))
	for i, photo := range req.Photos {
		photos = append(photos, models.ReviewPhoto{
			URL:     photo.URL,
			Caption: photo.Caption,
			Order:   i + 1,
		})
	}

	review := &models.Review{
		BusinessID:       businessID,
		AuthorID:         authorID,
		Rating:           req.Rating,
		Title:            req.Title,
		Text:             req.Text,
		Status:           status,
		ModerationScore:  decision.Score,
		ModerationFlags:  decision.Flags,
		Photos:           photos,
		VisitDate:        req.VisitDate,
		VerifiedPurchase: req.VerifiedPurchase,
		IsAnonymous:      req.Anonymous,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.LogModerationEvent(review.ID, decision.Flagged, decision.Score, decision.Flags)

	auditAction := models.AuditActionReviewApproved
	if decision.Flagged {
		auditAction = models.AuditActionReviewHeld
	}
	s.recordAudit(ctx, review, auditAction, decision)

	// The business aggregate must be current before the call returns.
	if err := s.RecomputeBusinessRating(ctx, businessID); err != nil {
		s.logger.WithError(err).WithBusinessID(businessID).Error("Failed to recompute business rating after review submission")
		return nil, err
	}

	// Reviewer level is fire-and-forget: lower write latency on the hot
	// path, eventual consistency is acceptable for the level badge.
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.RecomputeReviewerLevel(bgCtx, authorID); err != nil {
			s.logger.WithError(err).WithUserID(authorID).Warn("Failed to recompute reviewer level")
		}
	}()

	event := utils.EventReviewApproved
	if decision.Flagged {
		event = utils.EventReviewHeld
	}
	s.logger.LogReviewEvent(review.ID, businessID, event, map[string]interface{}{
		"rating": review.Rating,
	})

	return review, nil
}

func (s *reviewService) MarkHelpful(ctx context.Context, reviewID primitive.ObjectID) (*models.Review, error) {
	review, err := s.reviewRepo.IncrementHelpfulCount(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.RecomputeReviewerLevel(ctx, review.AuthorID); err != nil {
		s.logger.WithError(err).WithUserID(review.AuthorID).Warn("Failed to recompute reviewer level after helpful vote")
	}

	return review, nil
}

// RecomputeBusinessRating replaces the business rating aggregate from a
// fresh full scan of approved reviews. Pending, rejected, and flagged
// reviews never contribute. Overall and count are written together; a
// failed recompute leaves the previous consistent pair in place.
func (s *reviewService) RecomputeBusinessRating(ctx context.Context, businessID primitive.ObjectID) error {
	approved, err := s.reviewRepo.GetApprovedByBusiness(ctx, businessID)
	if err != nil {
		return err
	}

	aggregate := models.RatingAggregate{}
	if len(approved) > 0 {
		sum := 0
		for _, review := range approved {
			sum += review.Rating
		}
		mean := float64(sum) / float64(len(approved))
		aggregate.Overall = math.Round(mean*100) / 100
		aggregate.Count = len(approved)
	}

	if err := s.businessRepo.UpdateRatingAggregate(ctx, businessID, aggregate); err != nil {
		return err
	}

	s.logger.WithBusinessID(businessID).WithFields(map[string]interface{}{
		"overall": aggregate.Overall,
		"count":   aggregate.Count,
		"event":   utils.EventRatingRecomputed,
	}).Debug("Business rating recomputed")

	return nil
}

// RecomputeReviewerLevel rebuilds the author's derived profile from their
// approved reviews and replaces it in one write.
func (s *reviewService) RecomputeReviewerLevel(ctx context.Context, authorID primitive.ObjectID) error {
	approved, err := s.reviewRepo.GetApprovedByAuthor(ctx, authorID)
	if err != nil {
		return err
	}

	helpful := 0
	for _, review := range approved {
		helpful += review.HelpfulCount
	}

	profile := &models.ReviewerProfile{
		UserID:               authorID,
		TotalApprovedReviews: len(approved),
		HelpfulVotesReceived: helpful,
		Level:                models.LevelFor(len(approved), helpful),
	}

	return s.profileRepo.Upsert(ctx, profile)
}

// GetReviewerProfile is cache-aside: a cache hit answers without touching
// the store, a miss reads through and populates the cache. Level writes
// invalidate the key, so a hit is never staler than the last recompute.
func (s *reviewService) GetReviewerProfile(ctx context.Context, userID primitive.ObjectID) (*models.ReviewerProfile, error) {
	if s.cache != nil {
		if profile, err := s.cache.GetCachedReviewerProfile(ctx, userID); err == nil {
			return profile, nil
		}
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheReviewerProfile(ctx, profile, 0); err != nil {
			s.logger.WithError(err).WithUserID(userID).Warn("Failed to cache reviewer profile")
		}
	}

	return profile, nil
}

func (s *reviewService) GetBusinessAuditTrail(ctx context.Context, businessID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	if s.auditRepo == nil {
		return nil, 0, nil
	}
	if params == nil {
		params = utils.NewPaginationParams(1, utils.DefaultPageSize)
	}
	return s.auditRepo.GetByBusinessID(ctx, businessID, params)
}

func (s *reviewService) GetReviewAuditTrail(ctx context.Context, reviewID primitive.ObjectID) ([]*models.AuditLog, error) {
	if s.auditRepo == nil {
		return nil, nil
	}
	return s.auditRepo.GetByReviewID(ctx, reviewID)
}
