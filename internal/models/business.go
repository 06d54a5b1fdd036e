package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusinessStatus string

const (
	BusinessStatusDraft     BusinessStatus = "draft"
	BusinessStatusPublished BusinessStatus = "published"
	BusinessStatusSuspended BusinessStatus = "suspended"
)

// Location is a GeoJSON point with the address fields the geocoder returns.
type Location struct {
	Type        string    `json:"type" bson:"type" default:"Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"required,len=2"`
	Address     string    `json:"address" bson:"address"`
	City        string    `json:"city" bson:"city"`
	State       string    `json:"state" bson:"state"`
	Country     string    `json:"country" bson:"country"`
	PostalCode  string    `json:"postal_code" bson:"postal_code"`
	PlaceID     string    `json:"place_id" bson:"place_id"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}

func (l Location) Latitude() float64 {
	if len(l.Coordinates) >= 2 {
		return l.Coordinates[1]
	}
	return 0
}

func (l Location) Longitude() float64 {
	if len(l.Coordinates) >= 1 {
		return l.Coordinates[0]
	}
	return 0
}

// RatingAggregate is derived state. Overall is the mean of all approved
// reviews rounded to 2 decimal places and Count the number of approved
// reviews; both are written together by the recomputer, never directly.
type RatingAggregate struct {
	Overall float64 `json:"overall" bson:"overall"`
	Count   int     `json:"count" bson:"count"`
}

type Business struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID     primitive.ObjectID `json:"owner_id" bson:"owner_id" validate:"required"`
	Name        string             `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Description string             `json:"description" bson:"description"`
	Categories  []string           `json:"categories" bson:"categories"`
	Tags        []string           `json:"tags" bson:"tags"`
	Location    *Location          `json:"location,omitempty" bson:"location,omitempty"`
	Rating      RatingAggregate    `json:"rating" bson:"rating"`
	PriceLevel  int                `json:"price_level" bson:"price_level"` // 0 = unset
	IsVerified  bool               `json:"is_verified" bson:"is_verified"`
	IsSponsored bool               `json:"is_sponsored" bson:"is_sponsored"`
	IsOpenNow   bool               `json:"is_open_now" bson:"is_open_now"`
	Status      BusinessStatus     `json:"status" bson:"status" default:"draft"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

func (b *Business) HasLocation() bool {
	return b.Location != nil && len(b.Location.Coordinates) >= 2
}
