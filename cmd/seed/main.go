package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/rjain-dev/estate_booking_system/backend/config"
	"github.com/rjain-dev/estate_booking_system/backend/models"
	"github.com/rjain-dev/estate_booking_system/backend/utils"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var cities = []string{"Karachi", "Lahore", "Islamabad", "Multan"}

var amenityPool = []string{"WiFi", "Pool", "Parking", "Garden", "Gym", "Security"}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	client, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer config.CloseDBConnection(client)

	config.InitCollections(client)

	ctx := context.Background()

	collections := []*mongo.Collection{
		config.UserCollection, config.PropertyCollection, config.BookingCollection,
	}
	for _, coll := range collections {
		if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s: %v", coll.Name(), err)
		}
	}
	log.Println("Old data cleared")

	hashed, err := utils.HashPassword("123456")
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	now := time.Now()

	users := make([]interface{}, 0, 100)
	userIDs := make([]primitive.ObjectID, 0, 100)
	for i := 1; i <= 100; i++ {
		role := models.RoleUser
		if i == 1 {
			role = models.RoleAdmin
		}
		id := primitive.NewObjectID()
		userIDs = append(userIDs, id)
		users = append(users, models.User{
			ID:        id,
			Name:      fmt.Sprintf("User %d", i),
			Email:     fmt.Sprintf("user%d@example.com", i),
			Phone:     fmt.Sprintf("0300%07d", 1000000+rand.Intn(9000000)),
			Password:  hashed,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, err := config.UserCollection.InsertMany(ctx, users); err != nil {
		log.Fatalf("Failed to insert users: %v", err)
	}
	log.Println("100 users inserted")

	properties := make([]interface{}, 0, 500)
	propertyIDs := make([]primitive.ObjectID, 0, 500)
	for i := 1; i <= 500; i++ {
		id := primitive.NewObjectID()
		propertyIDs = append(propertyIDs, id)
		propType := models.PropertyTypeSale
		if i%2 == 0 {
			propType = models.PropertyTypeRent
		}
		properties = append(properties, models.Property{
			ID:          id,
			Title:       fmt.Sprintf("Property %d", i),
			Description: fmt.Sprintf("Spacious property number %d with amazing features.", i),
			Price:       float64(1000000 + rand.Intn(9000000)),
			City:        cities[rand.Intn(len(cities))],
			Amenities:   amenityPool[:2+rand.Intn(len(amenityPool)-2)],
			Images:      []string{fmt.Sprintf("uploads/images/property%d.jpg", i)},
			Videos:      []string{fmt.Sprintf("uploads/videos/property%d.mp4", i)},
			Owner:       userIDs[rand.Intn(len(userIDs))],
			Location:    models.NewGeoPoint(66.9+rand.Float64(), 24.8+rand.Float64()),
			Status:      true,
			Type:        propType,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	if _, err := config.PropertyCollection.InsertMany(ctx, properties); err != nil {
		log.Fatalf("Failed to insert properties: %v", err)
	}
	log.Println("500 properties inserted")

	statuses := []string{models.BookingPending, models.BookingConfirmed, models.BookingCancelled}
	seen := make(map[string]bool)
	bookings := make([]interface{}, 0, 200)
	for len(bookings) < 200 {
		user := userIDs[rand.Intn(len(userIDs))]
		property := propertyIDs[rand.Intn(len(propertyIDs))]
		key := user.Hex() + property.Hex()
		if seen[key] {
			continue
		}
		seen[key] = true
		bookings = append(bookings, models.Booking{
			ID:        primitive.NewObjectID(),
			User:      user,
			Property:  property,
			Date:      now,
			Status:    statuses[rand.Intn(len(statuses))],
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, err := config.BookingCollection.InsertMany(ctx, bookings); err != nil {
		log.Fatalf("Failed to insert bookings: %v", err)
	}
	log.Println("200 bookings inserted")

	log.Println("All dummy data seeded successfully")
}
