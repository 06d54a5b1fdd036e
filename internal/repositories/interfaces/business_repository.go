package interfaces

import (
	"context"

	"localspot/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusinessRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, business *models.Business) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Candidate fetch for discovery queries. Returns businesses whose
	// status is in statuses, plus any owned by ownerID regardless of
	// status when ownerID is non-nil.
	ListCandidates(ctx context.Context, statuses []models.BusinessStatus, ownerID *primitive.ObjectID) ([]*models.Business, error)

	// Aggregate writes. Both fields of the aggregate are replaced in one
	// write; partial updates are not supported.
	UpdateRatingAggregate(ctx context.Context, id primitive.ObjectID, aggregate models.RatingAggregate) error
}
