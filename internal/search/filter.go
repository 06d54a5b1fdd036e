package search

import (
	"strings"

	"localspot/internal/models"
	"localspot/internal/utils"
)

// Apply narrows candidates to the businesses matching every set criterion.
// It is a stable filter: the relative order of survivors is preserved and
// the input slice is never mutated.
func Apply(candidates []*models.Business, criteria *Criteria) []*models.Business {
	if len(candidates) == 0 {
		return []*models.Business{}
	}
	if criteria == nil {
		out := make([]*models.Business, len(candidates))
		copy(out, candidates)
		return out
	}

	out := make([]*models.Business, 0, len(candidates))
	for _, business := range candidates {
		if matches(business, criteria) {
			out = append(out, business)
		}
	}
	return out
}

func matches(b *models.Business, c *Criteria) bool {
	if c.Keywords != "" && !matchesKeywords(b, c.Keywords) {
		return false
	}

	if c.RatingMin != nil && b.Rating.Overall < *c.RatingMin {
		return false
	}
	if c.RatingMax != nil && b.Rating.Overall > *c.RatingMax {
		return false
	}

	if c.hasDistanceRange() && !matchesDistance(b, c) {
		return false
	}

	if c.PriceMin != nil && b.PriceLevel < *c.PriceMin {
		return false
	}
	if c.PriceMax != nil && b.PriceLevel > *c.PriceMax {
		return false
	}

	if len(c.Categories) > 0 && !matchesCategories(b, c) {
		return false
	}

	if c.OpenNow != nil && b.IsOpenNow != *c.OpenNow {
		return false
	}
	if c.Verified != nil && b.IsVerified != *c.Verified {
		return false
	}
	if c.Sponsored != nil && b.IsSponsored != *c.Sponsored {
		return false
	}

	return true
}

// matchesKeywords does a case-insensitive substring scan over the
// searchable text of the business. Literal matching only, no scoring.
func matchesKeywords(b *models.Business, keywords string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		b.Name,
		b.Description,
		strings.Join(b.Categories, " "),
		strings.Join(b.Tags, " "),
	}, " "))

	return strings.Contains(haystack, strings.ToLower(keywords))
}

// matchesDistance requires the business to have coordinates; a business
// without a location never matches a distance range.
func matchesDistance(b *models.Business, c *Criteria) bool {
	if !b.HasLocation() {
		return false
	}

	distance := utils.CalculateDistance(
		c.UserLocation.Latitude, c.UserLocation.Longitude,
		b.Location.Latitude(), b.Location.Longitude(),
	)

	if c.DistanceMin != nil && distance < *c.DistanceMin {
		return false
	}
	if c.DistanceMax != nil && distance > *c.DistanceMax {
		return false
	}
	return true
}

func matchesCategories(b *models.Business, c *Criteria) bool {
	mode := c.categoryMatchMode()
	for _, requested := range c.Categories {
		req := strings.ToLower(strings.TrimSpace(requested))
		if req == "" {
			continue
		}
		for _, own := range b.Categories {
			ownLower := strings.ToLower(own)
			if mode == CategoryMatchExact {
				if ownLower == req {
					return true
				}
				continue
			}
			// Symmetric substring match in both directions.
			if strings.Contains(ownLower, req) || strings.Contains(req, ownLower) {
				return true
			}
		}
	}
	return false
}
