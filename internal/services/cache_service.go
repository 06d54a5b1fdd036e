package services

import (
	"context"
	"fmt"
	"time"

	"localspot/internal/models"
	"localspot/internal/utils"
	"localspot/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CacheService interface {
	// Basic cache operations
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Application-specific cache operations
	CacheBusinessRating(ctx context.Context, businessID primitive.ObjectID, aggregate models.RatingAggregate, expiration time.Duration) error
	GetCachedBusinessRating(ctx context.Context, businessID primitive.ObjectID) (*models.RatingAggregate, error)
	InvalidateBusinessRating(ctx context.Context, businessID primitive.ObjectID) error

	CacheReviewerProfile(ctx context.Context, profile *models.ReviewerProfile, expiration time.Duration) error
	GetCachedReviewerProfile(ctx context.Context, userID primitive.ObjectID) (*models.ReviewerProfile, error)
	InvalidateReviewerProfile(ctx context.Context, userID primitive.ObjectID) error

	// Health
	Ping(ctx context.Context) error
}

// RedisClient is the subset of pkg/cache.RedisCache the service needs.
type RedisClient interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}

type cacheService struct {
	client     RedisClient
	logger     *logger.Logger
	defaultTTL time.Duration
}

func NewCacheService(client RedisClient, log *logger.Logger, defaultTTL time.Duration) CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 15 * time.Minute
	}
	return &cacheService{
		client:     client,
		logger:     log,
		defaultTTL: defaultTTL,
	}
}

func (s *cacheService) Get(ctx context.Context, key string, dest interface{}) error {
	return s.client.Get(ctx, key, dest)
}

func (s *cacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = s.defaultTTL
	}
	return s.client.Set(ctx, key, value, expiration)
}

func (s *cacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Delete(ctx, keys...)
}

func (s *cacheService) Exists(ctx context.Context, key string) (bool, error) {
	return s.client.Exists(ctx, key)
}

func businessRatingKey(businessID primitive.ObjectID) string {
	return fmt.Sprintf("%s%s", utils.CacheBusinessRatingPrefix, businessID.Hex())
}

func reviewerProfileKey(userID primitive.ObjectID) string {
	return fmt.Sprintf("%s%s", utils.CacheReviewerProfilePrefix, userID.Hex())
}

func (s *cacheService) CacheBusinessRating(ctx context.Context, businessID primitive.ObjectID, aggregate models.RatingAggregate, expiration time.Duration) error {
	return s.Set(ctx, businessRatingKey(businessID), aggregate, expiration)
}

func (s *cacheService) GetCachedBusinessRating(ctx context.Context, businessID primitive.ObjectID) (*models.RatingAggregate, error) {
	var aggregate models.RatingAggregate
	if err := s.client.Get(ctx, businessRatingKey(businessID), &aggregate); err != nil {
		return nil, err
	}
	return &aggregate, nil
}

func (s *cacheService) InvalidateBusinessRating(ctx context.Context, businessID primitive.ObjectID) error {
	if err := s.client.Delete(ctx, businessRatingKey(businessID)); err != nil {
		s.logger.WithError(err).WithBusinessID(businessID).Warn("Failed to invalidate business rating cache")
		return err
	}
	return nil
}

func (s *cacheService) CacheReviewerProfile(ctx context.Context, profile *models.ReviewerProfile, expiration time.Duration) error {
	return s.Set(ctx, reviewerProfileKey(profile.UserID), profile, expiration)
}

func (s *cacheService) GetCachedReviewerProfile(ctx context.Context, userID primitive.ObjectID) (*models.ReviewerProfile, error) {
	var profile models.ReviewerProfile
	if err := s.client.Get(ctx, reviewerProfileKey(userID), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *cacheService) InvalidateReviewerProfile(ctx context.Context, userID primitive.ObjectID) error {
	return s.client.Delete(ctx, reviewerProfileKey(userID))
}

func (s *cacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
