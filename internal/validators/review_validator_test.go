package validators

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validCreateRequest() *ReviewCreateRequest {
	return &ReviewCreateRequest{
		BusinessID: primitive.NewObjectID().Hex(),
		Rating:     4,
		Title:      "Great lunch spot",
		Text:       "Generous portions and the service was quick even at peak hours.",
	}
}

func TestValidateReviewCreate_Valid(t *testing.T) {
	assert.Empty(t, ValidateReviewCreate(validCreateRequest()))
}

func TestValidateReviewCreate_RatingBounds(t *testing.T) {
	for _, rating := range []int{-1, 0, 6, 100} {
		req := validCreateRequest()
		req.Rating = rating
		errors := ValidateReviewCreate(req)
		assert.NotEmpty(t, errors, "rating %d should be rejected", rating)
	}

	for rating := 1; rating <= 5; rating++ {
		req := validCreateRequest()
		req.Rating = rating
		assert.Empty(t, ValidateReviewCreate(req), "rating %d should be accepted", rating)
	}
}

func TestValidateReviewCreate_TitleLength(t *testing.T) {
	req := validCreateRequest()
	req.Title = "Nope"
	assert.NotEmpty(t, ValidateReviewCreate(req))

	req = validCreateRequest()
	req.Title = strings.Repeat("a", 201)
	assert.NotEmpty(t, ValidateReviewCreate(req))
}

func TestValidateReviewCreate_TextLength(t *testing.T) {
	req := validCreateRequest()
	req.Text = "too short"
	assert.NotEmpty(t, ValidateReviewCreate(req))

	req = validCreateRequest()
	req.Text = strings.Repeat("a", 5001)
	assert.NotEmpty(t, ValidateReviewCreate(req))
}

func TestValidateReviewCreate_InvalidBusinessID(t *testing.T) {
	req := validCreateRequest()
	req.BusinessID = "not-an-object-id"
	assert.NotEmpty(t, ValidateReviewCreate(req))
}

func TestValidateReviewCreate_FutureVisitDate(t *testing.T) {
	future := time.Now().Add(48 * time.Hour)
	req := validCreateRequest()
	req.VisitDate = &future

	errors := ValidateReviewCreate(req)

	assert.NotEmpty(t, errors)
	assert.Contains(t, errors.Details(), "visit_date")
}

func TestValidateReviewCreate_Photos(t *testing.T) {
	req := validCreateRequest()
	req.Photos = []ReviewPhotoRequest{
		{URL: "https://example.com/a.jpg", Caption: "the patio"},
	}
	assert.Empty(t, ValidateReviewCreate(req))

	req.Photos[0].URL = "not a url"
	assert.NotEmpty(t, ValidateReviewCreate(req))

	// Caption duplicating the title verbatim is rejected
	req.Photos[0].URL = "https://example.com/a.jpg"
	req.Photos[0].Caption = req.Title
	assert.NotEmpty(t, ValidateReviewCreate(req))
}
