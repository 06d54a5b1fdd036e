package search

import (
	"testing"

	"localspot/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.TotalReviews)
	assert.Equal(t, 0.0, summary.AverageRating)
	for star := 1; star <= 5; star++ {
		assert.Equal(t, 0, summary.RatingDistribution[star])
	}
}

func TestSummarize_DistributionAndAverage(t *testing.T) {
	businesses := []*models.Business{
		testBusiness("a", withRating(4.6, 12)), // rounds to bucket 5
		testBusiness("b", withRating(4.2, 5)),  // bucket 4
		testBusiness("c", withRating(2.4, 3)),  // bucket 2
		testBusiness("d", withRating(0, 0)),    // unrated, excluded
	}

	summary := Summarize(businesses)

	assert.Equal(t, 20, summary.TotalReviews)
	assert.Equal(t, 1, summary.RatingDistribution[5])
	assert.Equal(t, 1, summary.RatingDistribution[4])
	assert.Equal(t, 1, summary.RatingDistribution[2])
	assert.Equal(t, 0, summary.RatingDistribution[1])
	assert.Equal(t, 0, summary.RatingDistribution[3])
	// (4.6 + 4.2 + 2.4) / 3 = 3.7333… -> 3.73
	assert.InDelta(t, 3.73, summary.AverageRating, 0.001)
}

func TestSummarize_UnratedOnly(t *testing.T) {
	businesses := []*models.Business{
		testBusiness("a", withRating(0, 0)),
		testBusiness("b", withRating(0, 0)),
	}

	summary := Summarize(businesses)

	assert.Equal(t, 0, summary.TotalReviews)
	assert.Equal(t, 0.0, summary.AverageRating)
}
