package utils

import "time"

// Application Constants
const (
	AppName    = "LocalSpot"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "en"
	DefaultTimeZone = "UTC"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour

	// Review Constants
	MinReviewRating    = 1
	MaxReviewRating    = 5
	MinReviewTitleLen  = 5
	MaxReviewTitleLen  = 200
	MinReviewTextLen   = 20
	MaxReviewTextLen   = 5000
	MaxReviewPhotos    = 10
	RatingDecimalPlace = 2

	// Reviewer level thresholds
	ExpertMinReviews       = 50
	ExpertMinHelpful       = 100
	AdvancedMinReviews     = 20
	AdvancedMinHelpful     = 50
	IntermediateMinReviews = 5

	// Moderation
	ModerationScoreFlagged     = 0.8
	ModerationScoreClean       = 0.1
	ModerationScoreScanFailure = 0.9
	ModerationScanErrorFlag    = "moderation_service_error"

	// Search Constants
	DefaultSearchRadius = 10.0 // miles
	MaxSearchRadius     = 100.0

	// Rate Limiting
	DefaultRateLimit = 100
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidInput      = "invalid input"
	ErrInternalServer    = "internal server error"
	ErrUnauthorized      = "unauthorized"
	ErrForbidden         = "forbidden"
	ErrNotFound          = "not found"
	ErrConflict          = "conflict"
	ErrValidationFailed  = "validation failed"
	ErrBusinessNotFound  = "business not found"
	ErrReviewNotFound    = "review not found"
)

// Error Codes
const (
	CodeValidationError      = "VALIDATION_ERROR"
	CodeBusinessNotFound     = "BUSINESS_NOT_FOUND"
	CodeBusinessNotAvailable = "BUSINESS_NOT_AVAILABLE"
	CodeSelfReviewForbidden  = "SELF_REVIEW_FORBIDDEN"
	CodeDuplicateReview      = "DUPLICATE_REVIEW"
	CodeReviewNotFound       = "REVIEW_NOT_FOUND"
)

// Cache Keys
const (
	CacheBusinessPrefix        = "business:"
	CacheBusinessRatingPrefix  = "business_rating:"
	CacheReviewerProfilePrefix = "reviewer_profile:"
	CacheRateLimitPrefix       = "rate_limit:"
)

// Event Types
const (
	EventReviewSubmitted  = "review_submitted"
	EventReviewApproved   = "review_approved"
	EventReviewHeld       = "review_held_for_moderation"
	EventRatingRecomputed = "rating_recomputed"
	EventSearchPerformed  = "search_performed"
)

// Geographic Constants
const (
	EarthRadiusKM    = 6371.0
	EarthRadiusMiles = 3959.0
)
