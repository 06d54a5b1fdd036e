package interfaces

import "errors"

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrReviewNotFound   = errors.New("review not found")
)
