package maps

import "context"

// Geocoder resolves free-form place text into coordinates. The search API
// uses it to turn a "near" parameter into a reference point.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodeResponse, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error)
}

type GeocodeResponse struct {
	Results []GeocodeResult `json:"results"`
}

type GeocodeResult struct {
	PlaceID     string   `json:"place_id"`
	Address     string   `json:"formatted_address"`
	Coordinates Location `json:"geometry"`
	Types       []string `json:"types"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// First returns the best-ranked result, or false when the query resolved
// to nothing.
func (r *GeocodeResponse) First() (GeocodeResult, bool) {
	if r == nil || len(r.Results) == 0 {
		return GeocodeResult{}, false
	}
	return r.Results[0], true
}
