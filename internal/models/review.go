package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
	ReviewStatusFlagged  ReviewStatus = "flagged"
)

type ReviewPhoto struct {
	URL     string `json:"url" bson:"url" validate:"required,url"`
	Caption string `json:"caption,omitempty" bson:"caption,omitempty"`
	Order   int    `json:"order" bson:"order"` // 1-based, preserves submission order
}

type Review struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BusinessID       primitive.ObjectID `json:"business_id" bson:"business_id" validate:"required"`
	AuthorID         primitive.ObjectID `json:"author_id" bson:"author_id" validate:"required"`
	Rating           int                `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Title            string             `json:"title" bson:"title" validate:"required,min=5,max=200"`
	Text             string             `json:"text" bson:"text" validate:"required,min=20,max=5000"`
	Status           ReviewStatus       `json:"status" bson:"status"`
	ModerationScore  float64            `json:"moderation_score" bson:"moderation_score"`
	ModerationFlags  []string           `json:"moderation_flags,omitempty" bson:"moderation_flags,omitempty"`
	HelpfulCount     int                `json:"helpful_count" bson:"helpful_count" default:"0"`
	ReportCount      int                `json:"report_count" bson:"report_count" default:"0"`
	Photos           []ReviewPhoto      `json:"photos,omitempty" bson:"photos,omitempty"`
	VisitDate        *time.Time         `json:"visit_date,omitempty" bson:"visit_date,omitempty"`
	VerifiedPurchase bool               `json:"verified_purchase" bson:"verified_purchase"`
	IsAnonymous      bool               `json:"is_anonymous" bson:"is_anonymous" default:"false"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsPubliclyVisible reports whether the review counts toward aggregates
// and shows up in listings.
func (r *Review) IsPubliclyVisible() bool {
	return r.Status == ReviewStatusApproved
}
