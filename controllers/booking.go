package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/rjain-dev/estate_booking_system/backend/config"
	"github.com/rjain-dev/estate_booking_system/backend/models"
	"github.com/rjain-dev/estate_booking_system/backend/utils"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookingRequest struct {
	BookingID  string `json:"bookingId"`
	PropertyID string `json:"propertyId"`
	Status     string `json:"status"`
}

type bookingResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Booking interface{} `json:"booking,omitempty"`
}

var bookingPopulate = []utils.Populate{
	{Path: "user", From: "users", Exclude: []string{"password"}},
	{Path: "property", From: "properties"},
}

func CreateBooking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _, ok := caller(r)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		var req bookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Invalid booking payload: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		if req.PropertyID == "" {
			log.Println("propertyId is required")
			http.Error(w, "propertyId is required", http.StatusBadRequest)
			return
		}
		propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", req.PropertyID, err)
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		status := req.Status
		if status == "" {
			status = models.BookingPending
		}
		if !models.ValidBookingStatus(status) {
			log.Printf("Invalid booking status: %s", status)
			http.Error(w, "Status must be pending, confirmed or cancelled", http.StatusBadRequest)
			return
		}

		count, err := config.PropertyCollection.CountDocuments(r.Context(), bson.M{"_id": propertyID})
		if err != nil {
			log.Printf("Error checking property %s: %v", req.PropertyID, err)
			http.Error(w, "Error checking property", http.StatusInternalServerError)
			return
		}
		if count == 0 {
			log.Printf("Property not found: %s", req.PropertyID)
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		now := time.Now()
		booking := models.Booking{
			ID:        primitive.NewObjectID(),
			User:      callerID,
			Property:  propertyID,
			Date:      now,
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := config.BookingCollection.InsertOne(r.Context(), booking); err != nil {
			// The unique (user, property) index turns the concurrent
			// create race into a clean duplicate-key failure.
			if mongo.IsDuplicateKeyError(err) {
				log.Printf("Booking already exists for user %s property %s", callerID.Hex(), req.PropertyID)
				http.Error(w, "Booking already exists for this property", http.StatusBadRequest)
				return
			}
			log.Printf("Error inserting booking: %v", err)
			http.Error(w, "Failed to create booking", http.StatusInternalServerError)
			return
		}

		populated, err := fetchPopulatedBooking(r.Context(), booking.ID)
		if err != nil {
			log.Printf("Error populating booking %s: %v", booking.ID.Hex(), err)
			populated = booking
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(bookingResponse{
			Success: true,
			Message: "Booking created successfully",
			Booking: populated,
		})
	}
}

// ConfirmBooking and CancelBooking are the same operation parameterized
// by target status; they differ only in whether a missing (user,
// property) booking may be created.
func ConfirmBooking() http.HandlerFunc {
	return setBookingStatus(models.BookingConfirmed)
}

func CancelBooking() http.HandlerFunc {
	return setBookingStatus(models.BookingCancelled)
}

func setBookingStatus(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _, ok := caller(r)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		var req bookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Invalid booking payload: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		if req.BookingID != "" {
			updateBookingByID(w, r, req.BookingID, target)
			return
		}

		if req.PropertyID == "" {
			log.Println("propertyId is required when bookingId is absent")
			http.Error(w, "propertyId is required", http.StatusBadRequest)
			return
		}
		propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", req.PropertyID, err)
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		count, err := config.PropertyCollection.CountDocuments(r.Context(), bson.M{"_id": propertyID})
		if err != nil {
			log.Printf("Error checking property %s: %v", req.PropertyID, err)
			http.Error(w, "Error checking property", http.StatusInternalServerError)
			return
		}
		if count == 0 {
			log.Printf("Property not found: %s", req.PropertyID)
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}

		now := time.Now()
		filter := bson.M{"user": callerID, "property": propertyID}
		update := bson.M{"$set": bson.M{"status": target, "updatedAt": now}}

		if target == models.BookingConfirmed {
			// Atomic find-or-create keyed on (user, property); the
			// unique index guarantees at most one document wins.
			update["$setOnInsert"] = bson.M{
				"user":      callerID,
				"property":  propertyID,
				"date":      now,
				"isExpire":  false,
				"createdAt": now,
			}
			res, err := config.BookingCollection.UpdateOne(r.Context(), filter, update,
				options.Update().SetUpsert(true))
			if err != nil {
				log.Printf("Upsert failed for user %s property %s: %v", callerID.Hex(), req.PropertyID, err)
				http.Error(w, "Failed to confirm booking", http.StatusInternalServerError)
				return
			}
			created := res.UpsertedID != nil
			respondWithBooking(w, r, filter, target, created)
			return
		}

		res, err := config.BookingCollection.UpdateOne(r.Context(), filter, update)
		if err != nil {
			log.Printf("Update failed for user %s property %s: %v", callerID.Hex(), req.PropertyID, err)
			http.Error(w, "Failed to cancel booking", http.StatusInternalServerError)
			return
		}
		if res.MatchedCount == 0 {
			log.Printf("No existing booking to cancel for user %s property %s", callerID.Hex(), req.PropertyID)
			http.Error(w, "No existing booking to cancel", http.StatusNotFound)
			return
		}
		respondWithBooking(w, r, filter, target, false)
	}
}

func updateBookingByID(w http.ResponseWriter, r *http.Request, bookingID, target string) {
	objID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		log.Printf("Invalid booking ID %s: %v", bookingID, err)
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	res, err := config.BookingCollection.UpdateByID(r.Context(), objID,
		bson.M{"$set": bson.M{"status": target, "updatedAt": time.Now()}})
	if err != nil {
		log.Printf("Update failed for booking %s: %v", bookingID, err)
		http.Error(w, "Failed to update booking", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		log.Printf("Booking not found: %s", bookingID)
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}

	respondWithBooking(w, r, bson.M{"_id": objID}, target, false)
}

func respondWithBooking(w http.ResponseWriter, r *http.Request, filter bson.M, target string, created bool) {
	var booking models.Booking
	if err := config.BookingCollection.FindOne(r.Context(), filter).Decode(&booking); err != nil {
		log.Printf("Error fetching booking after status change: %v", err)
		http.Error(w, "Error fetching booking", http.StatusInternalServerError)
		return
	}

	populated, err := fetchPopulatedBooking(r.Context(), booking.ID)
	if err != nil {
		log.Printf("Error populating booking %s: %v", booking.ID.Hex(), err)
		populated = booking
	}

	message := "Booking " + target
	statusCode := http.StatusOK
	if created {
		message = "Booking created with status " + target
		statusCode = http.StatusCreated
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(bookingResponse{
		Success: true,
		Message: message,
		Booking: populated,
	})
}

// fetchPopulatedBooking returns one booking with its user (password
// stripped) and property expanded.
func fetchPopulatedBooking(ctx context.Context, id primitive.ObjectID) (interface{}, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
	}
	for _, p := range bookingPopulate {
		pipeline = append(pipeline,
			bson.D{{Key: "$lookup", Value: bson.M{
				"from":         p.From,
				"localField":   p.Path,
				"foreignField": "_id",
				"as":           p.Path,
			}}},
			bson.D{{Key: "$unwind", Value: bson.M{
				"path":                       "$" + p.Path,
				"preserveNullAndEmptyArrays": true,
			}}},
		)
		if len(p.Exclude) > 0 {
			fields := make([]string, 0, len(p.Exclude))
			for _, f := range p.Exclude {
				fields = append(fields, p.Path+"."+f)
			}
			pipeline = append(pipeline, bson.D{{Key: "$unset", Value: fields}})
		}
	}

	cursor, err := config.BookingCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return docs[0], nil
}

func GetAllBookings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := pageParams(r)

		result, err := utils.Paginate(r.Context(), config.BookingCollection, bson.M{}, utils.PageOptions{
			Page:     page,
			Limit:    limit,
			Populate: bookingPopulate,
		})
		if err != nil {
			log.Printf("Error fetching bookings: %v", err)
			http.Error(w, "Error fetching bookings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

func GetMyBookings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _, ok := caller(r)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		page, limit := pageParams(r)

		result, err := utils.Paginate(r.Context(), config.BookingCollection, bson.M{"user": callerID}, utils.PageOptions{
			Page:     page,
			Limit:    limit,
			Populate: bookingPopulate,
		})
		if err != nil {
			log.Printf("Error fetching bookings for user %s: %v", callerID.Hex(), err)
			http.Error(w, "Error fetching bookings", http.StatusInternalServerError)
			return
		}

		if records, ok := result.Records.([]bson.M); ok && len(records) == 0 {
			log.Printf("No bookings found for user %s", callerID.Hex())
			http.Error(w, "No bookings found for this user", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

func SearchBookings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _, ok := caller(r)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		ascending := r.URL.Query().Get("order") == "asc"
		filter := bson.M{"user": callerID}

		records, counts, err := runBookingSearch(r.Context(), filter, ascending)
		if err != nil {
			log.Printf("Error searching bookings for user %s: %v", callerID.Hex(), err)
			http.Error(w, "Error searching bookings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":  true,
			"bookings": records,
			"counts":   counts,
		})
	}
}

func GetAllBookingsCounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := runStatusCounts(r.Context(), bson.M{})
		if err != nil {
			log.Printf("Error counting bookings: %v", err)
			http.Error(w, "Error counting bookings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"counts":  counts,
		})
	}
}

func DeleteBooking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, role, ok := caller(r)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		bookingID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(bookingID)
		if err != nil {
			log.Printf("Invalid booking ID %s: %v", bookingID, err)
			http.Error(w, "Invalid booking ID", http.StatusBadRequest)
			return
		}

		var booking models.Booking
		err = config.BookingCollection.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&booking)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				log.Printf("Booking not found: %s", bookingID)
				http.Error(w, "Booking not found", http.StatusNotFound)
				return
			}
			log.Printf("Error fetching booking %s: %v", bookingID, err)
			http.Error(w, "Error fetching booking", http.StatusInternalServerError)
			return
		}

		if !canMutate(callerID, role, booking.User) {
			log.Printf("User %s is not allowed to delete booking %s", callerID.Hex(), bookingID)
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}

		if _, err := config.BookingCollection.DeleteOne(r.Context(), bson.M{"_id": objID}); err != nil {
			log.Printf("Delete failed for booking %s: %v", bookingID, err)
			http.Error(w, "Delete failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Booking deleted successfully"})
	}
}

func runBookingSearch(ctx context.Context, filter bson.M, ascending bool) ([]bson.M, models.BookingStatusCounts, error) {
	pipeline := BuildBookingSearchPipeline(filter, ascending)

	cursor, err := config.BookingCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, models.BookingStatusCounts{}, err
	}
	defer cursor.Close(ctx)

	records := []bson.M{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, models.BookingStatusCounts{}, err
	}

	counts, err := runStatusCounts(ctx, filter)
	if err != nil {
		return nil, models.BookingStatusCounts{}, err
	}
	return records, counts, nil
}

func runStatusCounts(ctx context.Context, filter bson.M) (models.BookingStatusCounts, error) {
	cursor, err := config.BookingCollection.Aggregate(ctx, BuildStatusCountsPipeline(filter))
	if err != nil {
		return models.BookingStatusCounts{}, err
	}
	defer cursor.Close(ctx)

	var groups []statusCountGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return models.BookingStatusCounts{}, err
	}
	return NormalizeStatusCounts(groups), nil
}
