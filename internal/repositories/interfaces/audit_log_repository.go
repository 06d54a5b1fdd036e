package interfaces

import (
	"context"

	"localspot/internal/models"
	"localspot/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditLogRepository interface {
	// Create appends one entry. Entries are never updated.
	Create(ctx context.Context, entry *models.AuditLog) error

	// Trails
	GetByReviewID(ctx context.Context, reviewID primitive.ObjectID) ([]*models.AuditLog, error)
	GetByBusinessID(ctx context.Context, businessID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AuditLog, int64, error)

	// Retention
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
