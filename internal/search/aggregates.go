package search

import (
	"math"

	"localspot/internal/models"
)

// RatingSummary describes the filtered result set as a whole. It is always
// computed over the full filtered set, never over a page slice.
type RatingSummary struct {
	// RatingDistribution buckets rated businesses by their overall rating
	// rounded to the nearest star, keys 1 through 5.
	RatingDistribution map[int]int `json:"rating_distribution"`
	AverageRating      float64     `json:"average_rating"`
	TotalReviews       int         `json:"total_reviews"`
}

// Summarize computes the rating distribution, average rating, and total
// review count over the given businesses. Businesses with no approved
// reviews carry no rating signal and are excluded from the histogram and
// the average.
func Summarize(businesses []*models.Business) *RatingSummary {
	summary := &RatingSummary{
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	ratedCount := 0
	ratingSum := 0.0
	for _, b := range businesses {
		summary.TotalReviews += b.Rating.Count
		if b.Rating.Count == 0 {
			continue
		}

		ratedCount++
		ratingSum += b.Rating.Overall

		bucket := int(math.Round(b.Rating.Overall))
		if bucket < 1 {
			bucket = 1
		}
		if bucket > 5 {
			bucket = 5
		}
		summary.RatingDistribution[bucket]++
	}

	if ratedCount > 0 {
		summary.AverageRating = math.Round(ratingSum/float64(ratedCount)*100) / 100
	}

	return summary
}
