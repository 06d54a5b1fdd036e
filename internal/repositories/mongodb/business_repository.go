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

type businessRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewBusinessRepository(db *mongo.Database, cache services.CacheService) interfaces.BusinessRepository {
	return &businessRepository{
		collection: db.Collection("businesses"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *businessRepository) Create(ctx context.Context, business *models.Business) error {
	business.ID = primitive.NewObjectID()
	business.CreatedAt = time.Now()
	business.UpdatedAt = time.Now()
	if business.Status == "" {
		business.Status = models.BusinessStatusDraft
	}

	_, err := r.collection.InsertOne(ctx, business)
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}

	return nil
}

func (r *businessRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error) {
	var business models.Business
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&business)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	return &business, nil
}

func (r *businessRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrBusinessNotFound
	}

	return nil
}

func (r *businessRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}

	if r.cache != nil {
		r.cache.InvalidateBusinessRating(ctx, id)
	}

	return nil
}

// ListCandidates returns the candidate set for discovery queries. Status
// visibility is enforced here, before any filtering: the result contains
// businesses whose status is in statuses plus, when ownerID is set, every
// business that owner has regardless of status.
func (r *businessRepository) ListCandidates(ctx context.Context, statuses []models.BusinessStatus, ownerID *primitive.ObjectID) ([]*models.Business, error) {
	statusFilter := bson.M{"status": bson.M{"$in": statuses}}

	filter := statusFilter
	if ownerID != nil {
		filter = bson.M{"$or": []bson.M{
			statusFilter,
			{"owner_id": *ownerID},
		}}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate businesses: %w", err)
	}
	defer cursor.Close(ctx)

	var businesses []*models.Business
	for cursor.Next(ctx) {
		var business models.Business
		if err := cursor.Decode(&business); err != nil {
			return nil, fmt.Errorf("failed to decode business: %w", err)
		}
		businesses = append(businesses, &business)
	}

	return businesses, nil
}

// UpdateRatingAggregate replaces overall and count together in a single
// document write. The two fields are never updated independently.
func (r *businessRepository) UpdateRatingAggregate(ctx context.Context, id primitive.ObjectID, aggregate models.RatingAggregate) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"rating":     aggregate,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update rating aggregate: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrBusinessNotFound
	}

	// Refresh the cached aggregate so the author's next read sees it.
	if r.cache != nil {
		r.cache.CacheBusinessRating(ctx, id, aggregate, 15*time.Minute)
	}

	return nil
}
