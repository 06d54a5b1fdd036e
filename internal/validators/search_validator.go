package validators

import (
	"fmt"

	"localspot/internal/utils"
)

type BusinessSearchRequest struct {
	Query       string   `form:"q" validate:"omitempty,max=200"`
	RatingMin   *float64 `form:"ratingMin" validate:"omitempty,min=0,max=5"`
	RatingMax   *float64 `form:"ratingMax" validate:"omitempty,min=0,max=5"`
	PriceMin    *int     `form:"priceMin" validate:"omitempty,min=0"`
	PriceMax    *int     `form:"priceMax" validate:"omitempty,min=0"`
	DistanceMin *float64 `form:"distanceMin" validate:"omitempty,min=0"`
	DistanceMax *float64 `form:"distanceMax" validate:"omitempty,min=0"`
	Latitude    *float64 `form:"lat" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64 `form:"lng" validate:"omitempty,min=-180,max=180"`
	Near        string   `form:"near" validate:"omitempty,max=200"`
	Categories  []string `form:"categories" validate:"omitempty,max=20"`
	OpenNow     *bool    `form:"openNow"`
	Verified    *bool    `form:"verified"`
	Sponsored   *bool    `form:"sponsored"`
	Sort        string   `form:"sort" validate:"omitempty,sort_key"`
	Page        int      `form:"page" validate:"omitempty,min=1"`
	Limit       int      `form:"limit" validate:"omitempty,min=1,max=100"`
}

// PaginationRequest is the shared page/limit query pair for list endpoints.
type PaginationRequest struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

func ValidateBusinessSearch(req *BusinessSearchRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.RatingMin != nil && req.RatingMax != nil && *req.RatingMin > *req.RatingMax {
		errors = append(errors, ValidationError{
			Field:   "ratingMin",
			Message: "ratingMin cannot exceed ratingMax",
		})
	}

	if req.PriceMin != nil && req.PriceMax != nil && *req.PriceMin > *req.PriceMax {
		errors = append(errors, ValidationError{
			Field:   "priceMin",
			Message: "priceMin cannot exceed priceMax",
		})
	}

	if req.DistanceMin != nil && req.DistanceMax != nil && *req.DistanceMin > *req.DistanceMax {
		errors = append(errors, ValidationError{
			Field:   "distanceMin",
			Message: "distanceMin cannot exceed distanceMax",
		})
	}

	if req.DistanceMax != nil && *req.DistanceMax > utils.MaxSearchRadius {
		errors = append(errors, ValidationError{
			Field:   "distanceMax",
			Message: fmt.Sprintf("distanceMax cannot exceed %.0f miles", utils.MaxSearchRadius),
		})
	}

	// Coordinates travel in pairs
	if (req.Latitude == nil) != (req.Longitude == nil) {
		errors = append(errors, ValidationError{
			Field:   "lat",
			Message: "lat and lng must be supplied together",
		})
	}

	return errors
}
