package interfaces

import (
	"context"

	"localspot/internal/models"
	"localspot/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ReviewStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Duplicate detection: at most one review per (business, author).
	ExistsForBusinessAndAuthor(ctx context.Context, businessID, authorID primitive.ObjectID) (bool, error)

	// Full scans for aggregate recomputation. Always read fresh state;
	// recomputes must never work from cached counts.
	GetApprovedByBusiness(ctx context.Context, businessID primitive.ObjectID) ([]*models.Review, error)
	GetApprovedByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*models.Review, error)

	// Listings
	ListByBusiness(ctx context.Context, businessID primitive.ObjectID, status models.ReviewStatus, params *utils.PaginationParams) ([]*models.Review, int64, error)

	// Helpful votes
	IncrementHelpfulCount(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
}
