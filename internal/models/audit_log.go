package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionReviewSubmitted AuditAction = "review_submitted"
	AuditActionReviewApproved  AuditAction = "review_approved"
	AuditActionReviewHeld      AuditAction = "review_held"
	AuditActionStatusChanged   AuditAction = "review_status_changed"
	AuditActionRatingRecompute AuditAction = "rating_recomputed"
)

// AuditLog records one moderation or aggregate decision for later review.
// Entries are append-only.
type AuditLog struct {
	ID              primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	ReviewID        primitive.ObjectID     `json:"review_id" bson:"review_id"`
	BusinessID      primitive.ObjectID     `json:"business_id" bson:"business_id"`
	ActorID         *primitive.ObjectID    `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Action          AuditAction            `json:"action" bson:"action" validate:"required"`
	ModerationScore float64                `json:"moderation_score" bson:"moderation_score"`
	Flags           []string               `json:"flags,omitempty" bson:"flags,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt       time.Time              `json:"created_at" bson:"created_at"`
}
