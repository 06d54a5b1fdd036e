package search

import (
	"math"
	"sort"
	"strings"
	"time"

	"localspot/internal/models"
	"localspot/internal/utils"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortRating    SortKey = "rating"
	SortDistance  SortKey = "distance"
	SortReviews   SortKey = "reviews"
	SortName      SortKey = "name"
	SortPrice     SortKey = "price"
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
)

// Strategy orders items in place. Implementations must use a stable sort so
// that ties beyond the documented tie-breaks keep input order, and must not
// retain references to their inputs.
type Strategy func(items []*models.Business, userLoc *Point)

var strategies = map[SortKey]Strategy{
	SortRelevance: sortByRelevance,
	SortRating:    sortByRating,
	SortDistance:  sortByDistance,
	SortReviews:   sortByReviews,
	SortName:      sortByName,
	SortPrice:     sortByPrice,
	SortNewest:    sortByNewest,
	SortOldest:    sortByOldest,
}

// RegisterStrategy installs or replaces the strategy for a sort key.
// Intended for industry-specific overrides; not safe to call concurrently
// with Sort.
func RegisterStrategy(key SortKey, s Strategy) {
	strategies[key] = s
}

// Sort returns a new slice of candidates ordered by the named strategy.
// The input is never mutated. An unrecognized key falls back to relevance,
// as does distance when no user location is supplied.
func Sort(candidates []*models.Business, key SortKey, userLoc *Point) []*models.Business {
	out := make([]*models.Business, len(candidates))
	copy(out, candidates)

	if key == SortDistance && userLoc == nil {
		key = SortRelevance
	}

	strategy, ok := strategies[key]
	if !ok {
		strategy = sortByRelevance
	}

	strategy(out, userLoc)
	return out
}

// relevance: sponsored listings first, then highest rated.
func sortByRelevance(items []*models.Business, _ *Point) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsSponsored != items[j].IsSponsored {
			return items[i].IsSponsored
		}
		return items[i].Rating.Overall > items[j].Rating.Overall
	})
}

// rating: highest rated first, review count breaks ties.
func sortByRating(items []*models.Business, _ *Point) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Rating.Overall != items[j].Rating.Overall {
			return items[i].Rating.Overall > items[j].Rating.Overall
		}
		return items[i].Rating.Count > items[j].Rating.Count
	})
}

// distance: nearest first; businesses without coordinates sort last.
func sortByDistance(items []*models.Business, userLoc *Point) {
	sort.SliceStable(items, func(i, j int) bool {
		return distanceFrom(items[i], userLoc) < distanceFrom(items[j], userLoc)
	})
}

func distanceFrom(b *models.Business, userLoc *Point) float64 {
	if !b.HasLocation() {
		return math.Inf(1)
	}
	return utils.CalculateDistance(
		userLoc.Latitude, userLoc.Longitude,
		b.Location.Latitude(), b.Location.Longitude(),
	)
}

// reviews: most reviewed first, overall rating breaks ties.
func sortByReviews(items []*models.Business, _ *Point) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Rating.Count != items[j].Rating.Count {
			return items[i].Rating.Count > items[j].Rating.Count
		}
		return items[i].Rating.Overall > items[j].Rating.Overall
	})
}

// name: locale-aware case-insensitive alphabetical.
func sortByName(items []*models.Business, _ *Point) {
	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		return collator.CompareString(strings.TrimSpace(items[i].Name), strings.TrimSpace(items[j].Name)) < 0
	})
}

func sortByPrice(items []*models.Business, _ *Point) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PriceLevel < items[j].PriceLevel
	})
}

func sortByNewest(items []*models.Business, _ *Point) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}

func sortByOldest(items []*models.Business, _ *Point) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).Before(createdAt(items[j]))
	})
}

// createdAt treats an unset timestamp as the epoch so it sorts earliest.
func createdAt(b *models.Business) time.Time {
	if b.CreatedAt.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return b.CreatedAt
}
