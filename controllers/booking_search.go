package controllers

import (
	"github.com/rjain-dev/estate_booking_system/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type statusCountGroup struct {
	Status string `bson:"_id"`
	Count  int64  `bson:"count"`
}

// BuildBookingSearchPipeline joins user and property details onto each
// matching booking, projects the reduced field set and sorts by date,
// descending unless asked otherwise.
func BuildBookingSearchPipeline(filter bson.M, ascending bool) mongo.Pipeline {
	dateOrder := -1
	if ascending {
		dateOrder = 1
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "properties",
			"localField":   "property",
			"foreignField": "_id",
			"as":           "property",
		}}},
		{{Key: "$unwind", Value: "$property"}},
		{{Key: "$project", Value: bson.M{
			"status":         1,
			"date":           1,
			"createdAt":      1,
			"user.name":      1,
			"user.email":     1,
			"user.phone":     1,
			"property.title": 1,
			"property.price": 1,
			"property.city":  1,
			"property.type":  1,
			"property.images": bson.M{
				"$slice": bson.A{"$property.images", 1},
			},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: dateOrder}}}},
	}
}

// BuildStatusCountsPipeline groups the filtered bookings by status.
func BuildStatusCountsPipeline(filter bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
}

// NormalizeStatusCounts flattens the grouped counts into the summary
// block, defaulting missing statuses to zero.
func NormalizeStatusCounts(groups []statusCountGroup) models.BookingStatusCounts {
	var counts models.BookingStatusCounts
	for _, g := range groups {
		switch g.Status {
		case models.BookingPending:
			counts.Pending = g.Count
		case models.BookingConfirmed:
			counts.Confirmed = g.Count
		case models.BookingCancelled:
			counts.Cancelled = g.Count
		}
	}
	return counts
}
