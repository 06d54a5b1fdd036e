package services

import (
	"context"
	"testing"

	"localspot/internal/models"
	"localspot/internal/repositories/interfaces"
	"localspot/internal/search"
	"localspot/internal/utils"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func publishedBusiness(name string, overall float64, count int) *models.Business {
	return &models.Business{
		ID:     primitive.NewObjectID(),
		Name:   name,
		Status: models.BusinessStatusPublished,
		Rating: models.RatingAggregate{Overall: overall, Count: count},
	}
}

func newBusinessFixture(t *testing.T, businesses ...*models.Business) (BusinessService, *fakeBusinessRepo, *fakeReviewRepo) {
	t.Helper()
	businessRepo := newFakeBusinessRepo(businesses...)
	reviewRepo := newFakeReviewRepo()
	return NewBusinessService(businessRepo, reviewRepo, nil, newTestLogger(t)), businessRepo, reviewRepo
}

func newCachedBusinessFixture(t *testing.T, businesses ...*models.Business) (BusinessService, *fakeCache) {
	t.Helper()
	businessRepo := newFakeBusinessRepo(businesses...)
	cache := newFakeCache()
	return NewBusinessService(businessRepo, newFakeReviewRepo(), cache, newTestLogger(t)), cache
}

func TestSearch_AnonymousSeesPublishedOnly(t *testing.T) {
	published := publishedBusiness("Corner Bakery", 4.5, 12)
	draft := &models.Business{
		ID:     primitive.NewObjectID(),
		Name:   "Hidden Gem",
		Status: models.BusinessStatusDraft,
	}
	service, _, _ := newBusinessFixture(t, published, draft)

	result, err := service.Search(context.Background(), &SearchRequest{
		Criteria:   &search.Criteria{},
		SortKey:    search.SortRating,
		Pagination: utils.NewPaginationParams(1, 20),
	}, &Viewer{})

	assert.NoError(t, err)
	assert.Len(t, result.Results, 1)
	assert.Equal(t, "Corner Bakery", result.Results[0].Name)
}

func TestSearch_OwnerSeesOwnUnpublished(t *testing.T) {
	ownerID := primitive.NewObjectID()
	published := publishedBusiness("Corner Bakery", 4.5, 12)
	ownDraft := &models.Business{
		ID:      primitive.NewObjectID(),
		Name:    "My Draft Shop",
		Status:  models.BusinessStatusDraft,
		OwnerID: ownerID,
	}
	foreignDraft := &models.Business{
		ID:      primitive.NewObjectID(),
		Name:    "Someone Elses Draft",
		Status:  models.BusinessStatusDraft,
		OwnerID: primitive.NewObjectID(),
	}
	service, _, _ := newBusinessFixture(t, published, ownDraft, foreignDraft)

	result, err := service.Search(context.Background(), &SearchRequest{
		Criteria:   &search.Criteria{},
		SortKey:    search.SortName,
		Pagination: utils.NewPaginationParams(1, 20),
	}, &Viewer{UserID: &ownerID})

	assert.NoError(t, err)
	assert.Len(t, result.Results, 2)
}

func TestSearch_AdminSeesEverything(t *testing.T) {
	service, _, _ := newBusinessFixture(t,
		publishedBusiness("Corner Bakery", 4.5, 12),
		&models.Business{ID: primitive.NewObjectID(), Name: "Draft", Status: models.BusinessStatusDraft},
		&models.Business{ID: primitive.NewObjectID(), Name: "Suspended", Status: models.BusinessStatusSuspended},
	)

	result, err := service.Search(context.Background(), &SearchRequest{
		Criteria:   &search.Criteria{},
		SortKey:    search.SortName,
		Pagination: utils.NewPaginationParams(1, 20),
	}, &Viewer{IsAdmin: true})

	assert.NoError(t, err)
	assert.Len(t, result.Results, 3)
}

func TestSearch_AggregatesCoverFilteredSetNotPage(t *testing.T) {
	businesses := []*models.Business{
		publishedBusiness("A", 5.0, 3),
		publishedBusiness("B", 4.0, 3),
		publishedBusiness("C", 3.0, 3),
	}
	service, _, _ := newBusinessFixture(t, businesses...)

	result, err := service.Search(context.Background(), &SearchRequest{
		Criteria:   &search.Criteria{},
		SortKey:    search.SortRating,
		Pagination: utils.NewPaginationParams(1, 2),
	}, &Viewer{})

	assert.NoError(t, err)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, 9, result.Aggregates.TotalReviews)
	assert.Equal(t, 4.0, result.Aggregates.AverageRating)
	assert.Equal(t, int64(3), result.Pagination.Total)
	assert.True(t, result.Pagination.HasNext)
}

func TestSearch_FilterAppliedBeforeRanking(t *testing.T) {
	ratingMin := 4.0
	service, _, _ := newBusinessFixture(t,
		publishedBusiness("High", 4.8, 20),
		publishedBusiness("Mid", 4.2, 8),
		publishedBusiness("Low", 2.1, 3),
	)

	result, err := service.Search(context.Background(), &SearchRequest{
		Criteria:   &search.Criteria{RatingMin: &ratingMin},
		SortKey:    search.SortRating,
		Pagination: utils.NewPaginationParams(1, 20),
	}, &Viewer{})

	assert.NoError(t, err)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, "High", result.Results[0].Name)
	assert.Equal(t, "Mid", result.Results[1].Name)
}

func TestGetBusiness_HiddenFromAnonymous(t *testing.T) {
	draft := &models.Business{
		ID:      primitive.NewObjectID(),
		Name:    "Draft Shop",
		Status:  models.BusinessStatusDraft,
		OwnerID: primitive.NewObjectID(),
	}
	service, _, _ := newBusinessFixture(t, draft)

	_, err := service.GetBusiness(context.Background(), draft.ID, &Viewer{})
	assert.ErrorIs(t, err, interfaces.ErrBusinessNotFound)

	// The owner still sees it.
	business, err := service.GetBusiness(context.Background(), draft.ID, &Viewer{UserID: &draft.OwnerID})
	assert.NoError(t, err)
	assert.Equal(t, "Draft Shop", business.Name)
}

func TestListReviews_ApprovedOnlyWithSummary(t *testing.T) {
	business := publishedBusiness("Corner Bakery", 4.5, 2)
	service, _, reviewRepo := newBusinessFixture(t, business)

	reviewRepo.Create(context.Background(), &models.Review{
		BusinessID: business.ID,
		AuthorID:   primitive.NewObjectID(),
		Rating:     5,
		Status:     models.ReviewStatusApproved,
	})
	reviewRepo.Create(context.Background(), &models.Review{
		BusinessID: business.ID,
		AuthorID:   primitive.NewObjectID(),
		Rating:     4,
		Status:     models.ReviewStatusApproved,
	})
	reviewRepo.Create(context.Background(), &models.Review{
		BusinessID: business.ID,
		AuthorID:   primitive.NewObjectID(),
		Rating:     1,
		Status:     models.ReviewStatusPending,
	})

	reviews, summary, meta, err := service.ListReviews(context.Background(), business.ID, utils.NewPaginationParams(1, 20), &Viewer{})

	assert.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, int64(2), meta.Total)
	assert.Equal(t, 4.5, summary.AverageRating)
	assert.Equal(t, 1, summary.RatingDistribution[5])
	assert.Equal(t, 1, summary.RatingDistribution[4])
	assert.Equal(t, 0, summary.RatingDistribution[1])
}

func TestGetBusiness_CachedAggregateWins(t *testing.T) {
	business := publishedBusiness("Corner Bakery", 4.0, 10)
	service, cache := newCachedBusinessFixture(t, business)

	// A recompute refreshed the cache after this document was read.
	fresh := models.RatingAggregate{Overall: 4.43, Count: 14}
	cache.CacheBusinessRating(context.Background(), business.ID, fresh, 0)

	got, err := service.GetBusiness(context.Background(), business.ID, nil)

	assert.NoError(t, err)
	assert.Equal(t, fresh, got.Rating)
}

func TestGetBusiness_CacheMissFillsRatingCache(t *testing.T) {
	business := publishedBusiness("Corner Bakery", 4.5, 12)
	service, cache := newCachedBusinessFixture(t, business)

	got, err := service.GetBusiness(context.Background(), business.ID, nil)

	assert.NoError(t, err)
	assert.Equal(t, models.RatingAggregate{Overall: 4.5, Count: 12}, got.Rating)

	cached, err := cache.GetCachedBusinessRating(context.Background(), business.ID)
	assert.NoError(t, err)
	assert.Equal(t, got.Rating, *cached)
}
