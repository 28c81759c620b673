package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/rjain-dev/estate_booking_system/backend/config"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	// Daily at midnight.
	jobTiming = "0 0 * * *"

	expiryAge = 30 * 24 * time.Hour
)

// Start schedules the daily housekeeping sweep and returns the running
// scheduler so the caller can stop it on shutdown.
func Start() *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc(jobTiming, func() {
		if err := ExpireOldRecords(context.Background(), time.Now()); err != nil {
			log.Printf("Error running housekeeping job: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule housekeeping job: %v", err)
	}
	c.Start()
	log.Printf("Housekeeping job scheduled (%s)", jobTiming)
	return c
}

// ExpireOldRecords marks every property and booking created at or
// before now minus thirty days as expired. Re-running on already
// expired records writes the same value, so overlap with concurrent
// requests is safe.
func ExpireOldRecords(ctx context.Context, now time.Time) error {
	cutoff := ExpiryCutoff(now)
	filter := bson.M{"createdAt": bson.M{"$lte": cutoff}}
	update := bson.M{"$set": bson.M{"isExpire": true}}

	propertyResult, err := config.PropertyCollection.UpdateMany(ctx, filter, update)
	if err != nil {
		return err
	}

	bookingResult, err := config.BookingCollection.UpdateMany(ctx, filter, update)
	if err != nil {
		return err
	}

	log.Printf("Housekeeping updated %d properties and %d bookings",
		propertyResult.ModifiedCount, bookingResult.ModifiedCount)
	return nil
}

// ExpiryCutoff is the oldest creation time that survives housekeeping.
func ExpiryCutoff(now time.Time) time.Time {
	return now.Add(-expiryAge)
}
