package mongodb

import (
	"context"
	"fmt"
	"time"

	"localspot/internal/models"
	"localspot/internal/repositories/interfaces"
	"localspot/internal/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewerProfileRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewReviewerProfileRepository(db *mongo.Database, cache services.CacheService) interfaces.ReviewerProfileRepository {
	return &reviewerProfileRepository{
		collection: db.Collection("reviewer_profiles"),
		cache:      cache,
	}
}

func (r *reviewerProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.ReviewerProfile, error) {
	var profile models.ReviewerProfile
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// A user with no approved reviews has an implicit empty profile.
			return &models.ReviewerProfile{
				UserID: userID,
				Level:  models.ReviewerLevelBeginner,
			}, nil
		}
		return nil, fmt.Errorf("failed to get reviewer profile: %w", err)
	}

	return &profile, nil
}

// Upsert replaces all derived fields in one write, keyed by user.
func (r *reviewerProfileRepository) Upsert(ctx context.Context, profile *models.ReviewerProfile) error {
	profile.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"user_id": profile.UserID},
		bson.M{"$set": bson.M{
			"user_id":                profile.UserID,
			"total_approved_reviews": profile.TotalApprovedReviews,
			"helpful_votes_received": profile.HelpfulVotesReceived,
			"level":                  profile.Level,
			"updated_at":             profile.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert reviewer profile: %w", err)
	}

	if r.cache != nil {
		r.cache.InvalidateReviewerProfile(ctx, profile.UserID)
	}

	return nil
}
