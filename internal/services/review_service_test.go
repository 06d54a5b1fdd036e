package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"localspot/internal/models"
	"localspot/internal/repositories/interfaces"
	"localspot/internal/utils"
	"localspot/internal/validators"
	"localspot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBusinessRepo struct {
	mu         sync.Mutex
	businesses map[primitive.ObjectID]*models.Business
}

func newFakeBusinessRepo(businesses ...*models.Business) *fakeBusinessRepo {
	repo := &fakeBusinessRepo{businesses: make(map[primitive.ObjectID]*models.Business)}
	for _, b := range businesses {
		repo.businesses[b.ID] = b
	}
	return repo
}

func (r *fakeBusinessRepo) Create(_ context.Context, business *models.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.businesses[business.ID] = business
	return nil
}

func (r *fakeBusinessRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	business, ok := r.businesses[id]
	if !ok {
		return nil, interfaces.ErrBusinessNotFound
	}
	return business, nil
}

func (r *fakeBusinessRepo) Update(_ context.Context, _ primitive.ObjectID, _ map[string]interface{}) error {
	return nil
}

func (r *fakeBusinessRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.businesses, id)
	return nil
}

func (r *fakeBusinessRepo) ListCandidates(_ context.Context, statuses []models.BusinessStatus, ownerID *primitive.ObjectID) ([]*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Business
	for _, b := range r.businesses {
		for _, status := range statuses {
			if b.Status == status {
				out = append(out, b)
				break
			}
		}
		if ownerID != nil && b.OwnerID == *ownerID && b.Status != models.BusinessStatusPublished {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBusinessRepo) UpdateRatingAggregate(_ context.Context, id primitive.ObjectID, aggregate models.RatingAggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	business, ok := r.businesses[id]
	if !ok {
		return interfaces.ErrBusinessNotFound
	}
	business.Rating = aggregate
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]*models.Review
}

func newFakeReviewRepo(reviews ...*models.Review) *fakeReviewRepo {
	repo := &fakeReviewRepo{reviews: make(map[primitive.ObjectID]*models.Review)}
	for _, review := range reviews {
		if review.ID.IsZero() {
			review.ID = primitive.NewObjectID()
		}
		repo.reviews[review.ID] = review
	}
	return repo
}

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, interfaces.ErrReviewNotFound
	}
	return review, nil
}

func (r *fakeReviewRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.ReviewStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return interfaces.ErrReviewNotFound
	}
	review.Status = status
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) ExistsForBusinessAndAuthor(_ context.Context, businessID, authorID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.BusinessID == businessID && review.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) GetApprovedByBusiness(_ context.Context, businessID primitive.ObjectID) ([]*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Review
	for _, review := range r.reviews {
		if review.BusinessID == businessID && review.Status == models.ReviewStatusApproved {
			out = append(out, review)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) GetApprovedByAuthor(_ context.Context, authorID primitive.ObjectID) ([]*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Review
	for _, review := range r.reviews {
		if review.AuthorID == authorID && review.Status == models.ReviewStatusApproved {
			out = append(out, review)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListByBusiness(_ context.Context, businessID primitive.ObjectID, status models.ReviewStatus, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Review
	for _, review := range r.reviews {
		if review.BusinessID == businessID && review.Status == status {
			out = append(out, review)
		}
	}
	total := int64(len(out))
	start, end := params.Slice(len(out))
	return out[start:end], total, nil
}

func (r *fakeReviewRepo) IncrementHelpfulCount(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, interfaces.ErrReviewNotFound
	}
	review.HelpfulCount++
	return review, nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]*models.ReviewerProfile
	getCalls int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[primitive.ObjectID]*models.ReviewerProfile)}
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*models.ReviewerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if profile, ok := r.profiles[userID]; ok {
		return profile, nil
	}
	return &models.ReviewerProfile{
		UserID: userID,
		Level:  models.ReviewerLevelBeginner,
	}, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *models.ReviewerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UserID] = profile
	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) GetByReviewID(_ context.Context, reviewID primitive.ObjectID) ([]*models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, entry := range r.entries {
		if entry.ReviewID == reviewID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) GetByBusinessID(_ context.Context, businessID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, entry := range r.entries {
		if entry.BusinessID == businessID {
			out = append(out, entry)
		}
	}
	total := int64(len(out))
	start, end := params.Slice(len(out))
	return out[start:end], total, nil
}

func (r *fakeAuditRepo) DeleteOlderThan(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

// fakeCache is an in-memory CacheService. Generic Get/Set mirror the
// typed helpers' miss-on-absent behavior.
type fakeCache struct {
	mu       sync.Mutex
	ratings  map[primitive.ObjectID]models.RatingAggregate
	profiles map[primitive.ObjectID]*models.ReviewerProfile
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		ratings:  make(map[primitive.ObjectID]models.RatingAggregate),
		profiles: make(map[primitive.ObjectID]*models.ReviewerProfile),
	}
}

func (c *fakeCache) Get(_ context.Context, _ string, _ interface{}) error {
	return errors.New("cache miss")
}

func (c *fakeCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}

func (c *fakeCache) Delete(_ context.Context, _ ...string) error { return nil }

func (c *fakeCache) Exists(_ context.Context, _ string) (bool, error) { return false, nil }

func (c *fakeCache) CacheBusinessRating(_ context.Context, businessID primitive.ObjectID, aggregate models.RatingAggregate, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ratings[businessID] = aggregate
	return nil
}

func (c *fakeCache) GetCachedBusinessRating(_ context.Context, businessID primitive.ObjectID) (*models.RatingAggregate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	aggregate, ok := c.ratings[businessID]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return &aggregate, nil
}

func (c *fakeCache) InvalidateBusinessRating(_ context.Context, businessID primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ratings, businessID)
	return nil
}

func (c *fakeCache) CacheReviewerProfile(_ context.Context, profile *models.ReviewerProfile, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[profile.UserID] = profile
	return nil
}

func (c *fakeCache) GetCachedReviewerProfile(_ context.Context, userID primitive.ObjectID) (*models.ReviewerProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	profile, ok := c.profiles[userID]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return profile, nil
}

func (c *fakeCache) InvalidateReviewerProfile(_ context.Context, userID primitive.ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.profiles, userID)
	return nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }

type failingScanner struct{}

func (failingScanner) Scan(_ context.Context, _ string) ([]string, error) {
	return nil, errors.New("classifier unreachable")
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.ErrorLevel,
		Format: "text",
		Output: "stdout",
	})
	assert.NoError(t, err)
	return log
}

type reviewFixture struct {
	service      ReviewService
	businessRepo *fakeBusinessRepo
	reviewRepo   *fakeReviewRepo
	profileRepo  *fakeProfileRepo
	auditRepo    *fakeAuditRepo
	cache        *fakeCache
	business     *models.Business
	author       primitive.ObjectID
}

func newReviewFixture(t *testing.T, scanner ContentScanner) *reviewFixture {
	t.Helper()

	business := &models.Business{
		ID:      primitive.NewObjectID(),
		Name:    "Blue Bottle Cafe",
		Status:  models.BusinessStatusPublished,
		OwnerID: primitive.NewObjectID(),
	}

	businessRepo := newFakeBusinessRepo(business)
	reviewRepo := newFakeReviewRepo()
	profileRepo := newFakeProfileRepo()
	auditRepo := &fakeAuditRepo{}
	cache := newFakeCache()
	log := newTestLogger(t)

	if scanner == nil {
		scanner = NewTermListScanner([]string{"spam", "casino"})
	}
	moderation := NewModerationService(scanner, 0, log)

	return &reviewFixture{
		service:      NewReviewService(reviewRepo, businessRepo, profileRepo, auditRepo, moderation, cache, log),
		businessRepo: businessRepo,
		reviewRepo:   reviewRepo,
		profileRepo:  profileRepo,
		auditRepo:    auditRepo,
		cache:        cache,
		business:     business,
		author:       primitive.NewObjectID(),
	}
}

func validReviewRequest(businessID primitive.ObjectID) *validators.ReviewCreateRequest {
	return &validators.ReviewCreateRequest{
		BusinessID: businessID.Hex(),
		Rating:     5,
		Title:      "Fantastic espresso",
		Text:       "The single origin pour over here is the best in the neighborhood.",
	}
}

func TestSubmitReview_ApprovedAndAggregateUpdated(t *testing.T) {
	f := newReviewFixture(t, nil)

	review, err := f.service.SubmitReview(context.Background(), f.author, validReviewRequest(f.business.ID))

	assert.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, review.Status)
	assert.Equal(t, utils.ModerationScoreClean, review.ModerationScore)

	// Read-your-writes: the aggregate reflects the new review before
	// SubmitReview returns.
	business, err := f.businessRepo.GetByID(context.Background(), f.business.ID)
	assert.NoError(t, err)
	assert.Equal(t, 5.0, business.Rating.Overall)
	assert.Equal(t, 1, business.Rating.Count)

	trail, err := f.auditRepo.GetByReviewID(context.Background(), review.ID)
	assert.NoError(t, err)
	assert.Len(t, trail, 1)
	assert.Equal(t, models.AuditActionReviewApproved, trail[0].Action)
}

func TestSubmitReview_BusinessNotFound(t *testing.T) {
	f := newReviewFixture(t, nil)

	_, err := f.service.SubmitReview(context.Background(), f.author, validReviewRequest(primitive.NewObjectID()))

	assert.ErrorIs(t, err, interfaces.ErrBusinessNotFound)
}

func TestSubmitReview_UnpublishedBusinessRejected(t *testing.T) {
	f := newReviewFixture(t, nil)
	f.business.Status = models.BusinessStatusDraft

	_, err := f.service.SubmitReview(context.Background(), f.author, validReviewRequest(f.business.ID))

	assert.ErrorIs(t, err, ErrBusinessNotAvailable)
}

func TestSubmitReview_SelfReviewForbidden(t *testing.T) {
	f := newReviewFixture(t, nil)

	_, err := f.service.SubmitReview(context.Background(), f.business.OwnerID, validReviewRequest(f.business.ID))

	assert.ErrorIs(t, err, ErrSelfReviewForbidden)
}

func TestSubmitReview_DuplicateRejected(t *testing.T) {
	f := newReviewFixture(t, nil)

	_, err := f.service.SubmitReview(context.Background(), f.author, validReviewRequest(f.business.ID))
	assert.NoError(t, err)

	_, err = f.service.SubmitReview(context.Background(), f.author, validReviewRequest(f.business.ID))
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestSubmitReview_PreconditionsCheckedBeforeValidation(t *testing.T) {
	f := newReviewFixture(t, nil)
	f.business.Status = models.BusinessStatusSuspended

	// Payload is invalid too, but the availability check runs first.
	req := validReviewRequest(f.business.ID)
	req.Title = "Bad"

	_, err := f.service.SubmitReview(context.Background(), f.author, req)

	assert.ErrorIs(t, err, ErrBusinessNotAvailable)
}

func TestSubmitReview_InvalidPayload(t *testing.T) {
	f := newReviewFixture(t, nil)

	req := validReviewRequest(f.business.ID)
	req.Text = "too short"

	_, err := f.service.SubmitReview(context.Background(), f.author, req)

	var validationErrors validators.ValidationErrors
	assert.ErrorAs(t, err, &validationErrors)
	assert.NotEmpty(t, validationErrors)
}

func TestSubmitReview_FlaggedContentHeld(t *testing.T) {
	f := newReviewFixture(t, nil)

	req := validReviewRequest(f.business.ID)
	req.Text = "This place is great, no spam here, definitely not a casino."

	review, err := f.service.SubmitReview(context.Background(), f.author, req)

	assert.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, review.Status)
	assert.Equal(t, utils.ModerationScoreFlagged, review.ModerationScore)
	assert.Contains(t, review.ModerationFlags, "spam")

	// Held reviews never reach the public aggregate.
	business, err := f.businessRepo.GetByID(context.Background(), f.business.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, business.Rating.Overall)
	assert.Equal(t, 0, business.Rating.Count)

	trail, err := f.auditRepo.GetByReviewID(context.Background(), review.ID)
	assert.NoError(t, err)
	assert.Len(t, trail, 1)
	assert.Equal(t, models.AuditActionReviewHeld, trail[0].Action)
}

func TestSubmitReview_ModerationFailureFailsClosed(t *testing.T) {
	f := newReviewFixture(t, failingScanner{})

	review, err := f.service.SubmitReview(context.Background(), f.author, validReviewRequest(f.business.ID))

	assert.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, review.Status)
	assert.Equal(t, utils.ModerationScoreScanFailure, review.ModerationScore)
	assert.Equal(t, []string{utils.ModerationScanErrorFlag}, review.ModerationFlags)
}

func TestRecomputeBusinessRating_MeanRoundedToTwoDecimals(t *testing.T) {
	f := newReviewFixture(t, nil)

	for _, rating := range []int{5, 5, 4, 3, 5} {
		f.reviewRepo.Create(context.Background(), &models.Review{
			BusinessID: f.business.ID,
			AuthorID:   primitive.NewObjectID(),
			Rating:     rating,
			Status:     models.ReviewStatusApproved,
		})
	}
	// Pending and rejected reviews must not contribute.
	f.reviewRepo.Create(context.Background(), &models.Review{
		BusinessID: f.business.ID,
		AuthorID:   primitive.NewObjectID(),
		Rating:     1,
		Status:     models.ReviewStatusPending,
	})
	f.reviewRepo.Create(context.Background(), &models.Review{
		BusinessID: f.business.ID,
		AuthorID:   primitive.NewObjectID(),
		Rating:     1,
		Status:     models.ReviewStatusRejected,
	})

	err := f.service.RecomputeBusinessRating(context.Background(), f.business.ID)
	assert.NoError(t, err)

	business, err := f.businessRepo.GetByID(context.Background(), f.business.ID)
	assert.NoError(t, err)
	assert.Equal(t, 4.4, business.Rating.Overall)
	assert.Equal(t, 5, business.Rating.Count)
}

func TestRecomputeBusinessRating_NoApprovedReviews(t *testing.T) {
	f := newReviewFixture(t, nil)
	f.business.Rating = models.RatingAggregate{Overall: 4.5, Count: 10}

	err := f.service.RecomputeBusinessRating(context.Background(), f.business.ID)
	assert.NoError(t, err)

	business, err := f.businessRepo.GetByID(context.Background(), f.business.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, business.Rating.Overall)
	assert.Equal(t, 0, business.Rating.Count)
}

func TestRecomputeReviewerLevel_DerivedFromApprovedReviews(t *testing.T) {
	f := newReviewFixture(t, nil)

	for i := 0; i < 6; i++ {
		f.reviewRepo.Create(context.Background(), &models.Review{
			BusinessID:   primitive.NewObjectID(),
			AuthorID:     f.author,
			Rating:       4,
			Status:       models.ReviewStatusApproved,
			HelpfulCount: 2,
		})
	}

	err := f.service.RecomputeReviewerLevel(context.Background(), f.author)
	assert.NoError(t, err)

	profile, err := f.service.GetReviewerProfile(context.Background(), f.author)
	assert.NoError(t, err)
	assert.Equal(t, 6, profile.TotalApprovedReviews)
	assert.Equal(t, 12, profile.HelpfulVotesReceived)
	assert.Equal(t, models.ReviewerLevelIntermediate, profile.Level)
}

func TestMarkHelpful_IncrementsAndRefreshesLevel(t *testing.T) {
	f := newReviewFixture(t, nil)

	review := &models.Review{
		BusinessID: f.business.ID,
		AuthorID:   f.author,
		Rating:     4,
		Status:     models.ReviewStatusApproved,
	}
	f.reviewRepo.Create(context.Background(), review)

	updated, err := f.service.MarkHelpful(context.Background(), review.ID)

	assert.NoError(t, err)
	assert.Equal(t, 1, updated.HelpfulCount)

	profile, err := f.service.GetReviewerProfile(context.Background(), f.author)
	assert.NoError(t, err)
	assert.Equal(t, 1, profile.HelpfulVotesReceived)
}

func TestMarkHelpful_ReviewNotFound(t *testing.T) {
	f := newReviewFixture(t, nil)

	_, err := f.service.MarkHelpful(context.Background(), primitive.NewObjectID())

	assert.ErrorIs(t, err, interfaces.ErrReviewNotFound)
}

func TestGetReviewerProfile_CacheHitSkipsStore(t *testing.T) {
	f := newReviewFixture(t, nil)
	cached := &models.ReviewerProfile{
		UserID:               f.author,
		TotalApprovedReviews: 7,
		HelpfulVotesReceived: 3,
		Level:                models.ReviewerLevelIntermediate,
	}
	f.cache.CacheReviewerProfile(context.Background(), cached, 0)

	profile, err := f.service.GetReviewerProfile(context.Background(), f.author)

	assert.NoError(t, err)
	assert.Equal(t, cached, profile)
	assert.Equal(t, 0, f.profileRepo.getCalls)
}

func TestGetReviewerProfile_MissReadsThroughAndCaches(t *testing.T) {
	f := newReviewFixture(t, nil)
	f.profileRepo.Upsert(context.Background(), &models.ReviewerProfile{
		UserID:               f.author,
		TotalApprovedReviews: 5,
		Level:                models.ReviewerLevelIntermediate,
	})

	first, err := f.service.GetReviewerProfile(context.Background(), f.author)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.profileRepo.getCalls)

	// The first read filled the cache; the store is not consulted again.
	second, err := f.service.GetReviewerProfile(context.Background(), f.author)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.profileRepo.getCalls)
}

func TestAuditTrail_QueriesReturnRecordedEntries(t *testing.T) {
	f := newReviewFixture(t, nil)

	review, err := f.service.SubmitReview(context.Background(), f.author, validReviewRequest(f.business.ID))
	assert.NoError(t, err)

	trail, err := f.service.GetReviewAuditTrail(context.Background(), review.ID)
	assert.NoError(t, err)
	assert.Len(t, trail, 1)
	assert.Equal(t, models.AuditActionReviewApproved, trail[0].Action)

	entries, total, err := f.service.GetBusinessAuditTrail(context.Background(), f.business.ID, utils.NewPaginationParams(1, 20))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, entries, 1)
}
