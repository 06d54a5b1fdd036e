package interfaces

import (
	"context"

	"localspot/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewerProfileRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.ReviewerProfile, error)

	// Upsert replaces the derived counters and level in a single write,
	// creating the profile if it does not exist yet.
	Upsert(ctx context.Context, profile *models.ReviewerProfile) error
}
