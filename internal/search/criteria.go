package search

// Point is a caller-supplied reference location for distance filtering
// and distance-based ranking.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CategoryMatchMode controls how requested categories are compared against
// a business's own categories.
type CategoryMatchMode string

const (
	// CategoryMatchSubstring matches when either side is a case-insensitive
	// substring of the other. Permissive on purpose, to tolerate naming
	// variants like "Hair Salon" vs "Salon".
	CategoryMatchSubstring CategoryMatchMode = "substring"
	CategoryMatchExact     CategoryMatchMode = "exact"
)

// Criteria is an immutable set of search filters. Every field is optional;
// a nil or zero field is skipped entirely rather than treated as
// match-everything. Set fields combine with AND semantics.
type Criteria struct {
	Keywords string `json:"keywords,omitempty"`

	RatingMin *float64 `json:"rating_min,omitempty"`
	RatingMax *float64 `json:"rating_max,omitempty"`

	// Distance bounds are in miles and require UserLocation; without a
	// user location the distance criterion is skipped.
	DistanceMin *float64 `json:"distance_min,omitempty"`
	DistanceMax *float64 `json:"distance_max,omitempty"`

	PriceMin *int `json:"price_min,omitempty"`
	PriceMax *int `json:"price_max,omitempty"`

	Categories    []string          `json:"categories,omitempty"`
	CategoryMatch CategoryMatchMode `json:"category_match,omitempty"`

	OpenNow   *bool `json:"open_now,omitempty"`
	Verified  *bool `json:"verified,omitempty"`
	Sponsored *bool `json:"sponsored,omitempty"`

	UserLocation *Point `json:"user_location,omitempty"`
}

func (c *Criteria) hasDistanceRange() bool {
	return (c.DistanceMin != nil || c.DistanceMax != nil) && c.UserLocation != nil
}

func (c *Criteria) categoryMatchMode() CategoryMatchMode {
	if c.CategoryMatch == CategoryMatchExact {
		return CategoryMatchExact
	}
	return CategoryMatchSubstring
}
