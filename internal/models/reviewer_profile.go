package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewerLevel string

const (
	ReviewerLevelBeginner     ReviewerLevel = "beginner"
	ReviewerLevelIntermediate ReviewerLevel = "intermediate"
	ReviewerLevelAdvanced     ReviewerLevel = "advanced"
	ReviewerLevelExpert       ReviewerLevel = "expert"
)

// ReviewerProfile is derived per author from their approved reviews.
// Level is a pure function of the two counters and is never set directly.
type ReviewerProfile struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID               primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	TotalApprovedReviews int                `json:"total_approved_reviews" bson:"total_approved_reviews"`
	HelpfulVotesReceived int                `json:"helpful_votes_received" bson:"helpful_votes_received"`
	Level                ReviewerLevel      `json:"level" bson:"level"`
	UpdatedAt            time.Time          `json:"updated_at" bson:"updated_at"`
}

// LevelFor maps the approved-review and helpful-vote counters to a level.
// Thresholds are checked highest bar first; both bars must be met.
func LevelFor(totalApproved, helpfulVotes int) ReviewerLevel {
	switch {
	case totalApproved >= 50 && helpfulVotes >= 100:
		return ReviewerLevelExpert
	case totalApproved >= 20 && helpfulVotes >= 50:
		return ReviewerLevelAdvanced
	case totalApproved >= 5:
		return ReviewerLevelIntermediate
	default:
		return ReviewerLevelBeginner
	}
}
