package validators

import (
	"fmt"
	"time"
)

type ReviewCreateRequest struct {
	BusinessID       string               `json:"business_id" validate:"required,object_id"`
	Rating           int                  `json:"rating" validate:"required,rating_value"`
	Title            string               `json:"title" validate:"required,min=5,max=200"`
	Text             string               `json:"text" validate:"required,min=20,max=5000"`
	Photos           []ReviewPhotoRequest `json:"photos" validate:"omitempty,max=10,dive"`
	VisitDate        *time.Time           `json:"visit_date"`
	VerifiedPurchase bool                 `json:"verified_purchase"`
	Anonymous        bool                 `json:"anonymous"`
}

type ReviewPhotoRequest struct {
	URL     string `json:"url" validate:"required,url"`
	Caption string `json:"caption" validate:"omitempty,max=200"`
}

func ValidateReviewCreate(req *ReviewCreateRequest) ValidationErrors {
	errors := ValidateStruct(req)

	// Visit date cannot be in the future
	if req.VisitDate != nil && req.VisitDate.After(time.Now()) {
		errors = append(errors, ValidationError{
			Field:   "visit_date",
			Message: "Visit date cannot be in the future",
		})
	}

	// Photo captions may not duplicate the review title verbatim
	for i, photo := range req.Photos {
		if photo.Caption != "" && photo.Caption == req.Title {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("photos[%d].caption", i),
				Message: "Photo caption must differ from the review title",
			})
		}
	}

	return errors
}
