package services

import (
	"context"
	"time"

	"localspot/internal/models"
	"localspot/internal/repositories/interfaces"
	"localspot/internal/search"
	"localspot/internal/utils"
	"localspot/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Viewer is the acting identity for visibility decisions. A nil UserID is
// an anonymous caller.
type Viewer struct {
	UserID  *primitive.ObjectID
	IsAdmin bool
}

// SearchRequest carries the immutable inputs of one discovery query.
type SearchRequest struct {
	Criteria   *search.Criteria
	SortKey    search.SortKey
	Pagination *utils.PaginationParams
}

type SearchResult struct {
	Results    []*models.Business    `json:"results"`
	Aggregates *search.RatingSummary `json:"aggregates"`
	Pagination *utils.PaginationMeta `json:"pagination"`
}

type BusinessService interface {
	// Search runs the discovery pipeline: visibility, filter, rank,
	// paginate. Aggregates describe the filtered pre-pagination set.
	Search(ctx context.Context, req *SearchRequest, viewer *Viewer) (*SearchResult, error)

	GetBusiness(ctx context.Context, id primitive.ObjectID, viewer *Viewer) (*models.Business, error)
	ListReviews(ctx context.Context, businessID primitive.ObjectID, params *utils.PaginationParams, viewer *Viewer) ([]*models.Review, *search.RatingSummary, *utils.PaginationMeta, error)
}

type businessService struct {
	businessRepo interfaces.BusinessRepository
	reviewRepo   interfaces.ReviewRepository
	cache        CacheService
	logger       *logger.Logger
}

func NewBusinessService(
	businessRepo interfaces.BusinessRepository,
	reviewRepo interfaces.ReviewRepository,
	cache CacheService,
	log *logger.Logger,
) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		reviewRepo:   reviewRepo,
		cache:        cache,
		logger:       log,
	}
}

func (s *businessService) Search(ctx context.Context, req *SearchRequest, viewer *Viewer) (*SearchResult, error) {
	started := time.Now()

	candidates, err := s.fetchCandidates(ctx, viewer)
	if err != nil {
		return nil, err
	}

	filtered := search.Apply(candidates, req.Criteria)

	var userLoc *search.Point
	if req.Criteria != nil {
		userLoc = req.Criteria.UserLocation
	}
	ranked := search.Sort(filtered, req.SortKey, userLoc)

	// Aggregates cover the whole filtered set, not the page slice.
	summary := search.Summarize(filtered)

	params := req.Pagination
	if params == nil {
		params = utils.NewPaginationParams(1, utils.DefaultPageSize)
	}
	start, end := params.Slice(len(ranked))

	result := &SearchResult{
		Results:    ranked[start:end],
		Aggregates: summary,
		Pagination: utils.CreatePaginationMeta(params, int64(len(filtered))),
	}

	s.logger.LogSearchEvent(len(filtered), string(req.SortKey), time.Since(started), map[string]interface{}{
		"candidates": len(candidates),
		"page":       params.Page,
	})

	return result, nil
}

// fetchCandidates applies the role-based visibility rule before any
// filtering: anonymous and regular users see published businesses only,
// owners additionally see their own, admins see everything.
func (s *businessService) fetchCandidates(ctx context.Context, viewer *Viewer) ([]*models.Business, error) {
	statuses := []models.BusinessStatus{models.BusinessStatusPublished}
	var ownerID *primitive.ObjectID

	if viewer != nil {
		if viewer.IsAdmin {
			statuses = []models.BusinessStatus{
				models.BusinessStatusDraft,
				models.BusinessStatusPublished,
				models.BusinessStatusSuspended,
			}
		} else if viewer.UserID != nil {
			ownerID = viewer.UserID
		}
	}

	return s.businessRepo.ListCandidates(ctx, statuses, ownerID)
}

func (s *businessService) GetBusiness(ctx context.Context, id primitive.ObjectID, viewer *Viewer) (*models.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canView(business, viewer) {
		return nil, interfaces.ErrBusinessNotFound
	}

	s.freshenRating(ctx, business)

	return business, nil
}

// freshenRating is the read side of the rating cache. Recomputes refresh
// the cached aggregate synchronously, so a hit carries the newest pair
// even when the document read lagged; a miss fills the cache from the
// stored aggregate.
func (s *businessService) freshenRating(ctx context.Context, business *models.Business) {
	if s.cache == nil {
		return
	}

	if aggregate, err := s.cache.GetCachedBusinessRating(ctx, business.ID); err == nil {
		business.Rating = *aggregate
		return
	}

	if err := s.cache.CacheBusinessRating(ctx, business.ID, business.Rating, 0); err != nil {
		s.logger.WithError(err).WithBusinessID(business.ID).Warn("Failed to cache business rating")
	}
}

func (s *businessService) canView(business *models.Business, viewer *Viewer) bool {
	if business.Status == models.BusinessStatusPublished {
		return true
	}
	if viewer == nil {
		return false
	}
	if viewer.IsAdmin {
		return true
	}
	return viewer.UserID != nil && *viewer.UserID == business.OwnerID
}

// ListReviews returns the approved reviews of a business, newest first,
// with the rating summary for that business.
func (s *businessService) ListReviews(ctx context.Context, businessID primitive.ObjectID, params *utils.PaginationParams, viewer *Viewer) ([]*models.Review, *search.RatingSummary, *utils.PaginationMeta, error) {
	business, err := s.GetBusiness(ctx, businessID, viewer)
	if err != nil {
		return nil, nil, nil, err
	}

	if params == nil {
		params = utils.NewPaginationParams(1, utils.DefaultPageSize)
	}

	reviews, total, err := s.reviewRepo.ListByBusiness(ctx, businessID, models.ReviewStatusApproved, params)
	if err != nil {
		return nil, nil, nil, err
	}

	summary := reviewSummary(reviews, business)
	meta := utils.CreatePaginationMeta(params, total)

	return reviews, summary, meta, nil
}

// reviewSummary builds the per-business distribution from the page of
// reviews plus the stored aggregate for average and total.
func reviewSummary(reviews []*models.Review, business *models.Business) *search.RatingSummary {
	summary := &search.RatingSummary{
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		AverageRating:      business.Rating.Overall,
		TotalReviews:       business.Rating.Count,
	}

	for _, review := range reviews {
		if review.Rating >= 1 && review.Rating <= 5 {
			summary.RatingDistribution[review.Rating]++
		}
	}

	return summary
}
