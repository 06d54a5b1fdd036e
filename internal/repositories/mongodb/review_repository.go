package mongodb

import (
	"context"
	"fmt"
	"time"

	"localspot/internal/models"
	"localspot/internal/repositories/interfaces"
	"localspot/internal/services"
	"localspot/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewReviewRepository(db *mongo.Database, cache services.CacheService) interfaces.ReviewRepository {
	return &reviewRepository{
		collection: db.Collection("reviews"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	review.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	// A new review can change the business aggregate on the next recompute.
	if r.cache != nil {
		r.cache.InvalidateBusinessRating(ctx, review.BusinessID)
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

func (r *reviewRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ReviewStatus) error {
	review, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update review status: %w", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrReviewNotFound
	}

	if r.cache != nil {
		r.cache.InvalidateBusinessRating(ctx, review.BusinessID)
		r.cache.InvalidateReviewerProfile(ctx, review.AuthorID)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	review, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if r.cache != nil {
		r.cache.InvalidateBusinessRating(ctx, review.BusinessID)
		r.cache.InvalidateReviewerProfile(ctx, review.AuthorID)
	}

	return nil
}

func (r *reviewRepository) ExistsForBusinessAndAuthor(ctx context.Context, businessID, authorID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"business_id": businessID,
		"author_id":   authorID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check for existing review: %w", err)
	}

	return count > 0, nil
}

// GetApprovedByBusiness reads the full current set of approved reviews for
// the business. Recomputes must always start from this fresh scan, never
// from a cached count.
func (r *reviewRepository) GetApprovedByBusiness(ctx context.Context, businessID primitive.ObjectID) ([]*models.Review, error) {
	return r.findReviews(ctx, bson.M{
		"business_id": businessID,
		"status":      models.ReviewStatusApproved,
	})
}

func (r *reviewRepository) GetApprovedByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*models.Review, error) {
	return r.findReviews(ctx, bson.M{
		"author_id": authorID,
		"status":    models.ReviewStatusApproved,
	})
}

func (r *reviewRepository) findReviews(ctx context.Context, filter bson.M) ([]*models.Review, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*models.Review
	for cursor.Next(ctx) {
		var review models.Review
		if err := cursor.Decode(&review); err != nil {
			return nil, fmt.Errorf("failed to decode review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, nil
}

func (r *reviewRepository) ListByBusiness(ctx context.Context, businessID primitive.ObjectID, status models.ReviewStatus, params *utils.PaginationParams) ([]*models.Review, int64, error) {
	filter := bson.M{"business_id": businessID}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(params.GetSkip())).
		SetLimit(int64(params.GetLimit()))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*models.Review
	for cursor.Next(ctx) {
		var review models.Review
		if err := cursor.Decode(&review); err != nil {
			return nil, 0, fmt.Errorf("failed to decode review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, total, nil
}

func (r *reviewRepository) IncrementHelpfulCount(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	after := options.After
	var review models.Review
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"helpful_count": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to increment helpful count: %w", err)
	}

	if r.cache != nil {
		r.cache.InvalidateReviewerProfile(ctx, review.AuthorID)
	}

	return &review, nil
}
