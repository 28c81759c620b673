package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking joins one user to one property. A unique compound index on
// (user, property) keeps concurrent create paths from producing
// duplicates.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Property  primitive.ObjectID `bson:"property" json:"property"`
	Date      time.Time          `bson:"date" json:"date"`
	Status    string             `bson:"status" json:"status"`
	IsExpire  bool               `bson:"isExpire" json:"isExpire"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// BookingStatusCounts is the summary block returned alongside booking
// searches. Missing statuses default to zero.
type BookingStatusCounts struct {
	Pending   int64 `bson:"pending" json:"pending"`
	Confirmed int64 `bson:"confirmed" json:"confirmed"`
	Cancelled int64 `bson:"cancelled" json:"cancelled"`
}
