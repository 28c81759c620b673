package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/rjain-dev/estate_booking_system/backend/config"
	"github.com/rjain-dev/estate_booking_system/backend/models"
	"github.com/rjain-dev/estate_booking_system/backend/socket"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type chatRequest struct {
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

func SendMessage(hub *socket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _, ok := caller(r)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("Invalid chat payload: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		if req.ReceiverID == "" || req.Message == "" {
			log.Println("receiverId and message are required")
			http.Error(w, "receiverId and message are required", http.StatusBadRequest)
			return
		}

		receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
		if err != nil {
			log.Printf("Invalid receiver ID %s: %v", req.ReceiverID, err)
			http.Error(w, "Invalid receiver ID", http.StatusBadRequest)
			return
		}

		count, err := config.UserCollection.CountDocuments(r.Context(), bson.M{"_id": receiverID})
		if err != nil {
			log.Printf("Error checking receiver %s: %v", req.ReceiverID, err)
			http.Error(w, "Error checking receiver", http.StatusInternalServerError)
			return
		}
		if count == 0 {
			log.Printf("Receiver not found: %s", req.ReceiverID)
			http.Error(w, "Receiver not found", http.StatusNotFound)
			return
		}

		chat := models.Chat{
			ID:        primitive.NewObjectID(),
			Sender:    callerID,
			Receiver:  receiverID,
			Message:   req.Message,
			CreatedAt: time.Now(),
		}

		if _, err := config.ChatCollection.InsertOne(r.Context(), chat); err != nil {
			log.Printf("Error inserting chat message: %v", err)
			http.Error(w, "Failed to send message", http.StatusInternalServerError)
			return
		}

		// Relay to every connected client, matching the original
		// broadcast-to-all behavior.
		hub.Broadcast(chat)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Message sent",
			Data:    chat,
		})
	}
}

func GetMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _, ok := caller(r)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		receiverID, err := primitive.ObjectIDFromHex(mux.Vars(r)["receiverId"])
		if err != nil {
			log.Printf("Invalid receiver ID: %v", err)
			http.Error(w, "Invalid receiver ID", http.StatusBadRequest)
			return
		}

		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"$or": bson.A{
				bson.M{"sender": callerID, "receiver": receiverID},
				bson.M{"sender": receiverID, "receiver": callerID},
			}}}},
			{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "users",
				"localField":   "sender",
				"foreignField": "_id",
				"as":           "sender",
			}}},
			{{Key: "$unwind", Value: "$sender"}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "users",
				"localField":   "receiver",
				"foreignField": "_id",
				"as":           "receiver",
			}}},
			{{Key: "$unwind", Value: "$receiver"}},
			{{Key: "$project", Value: bson.M{
				"message":        1,
				"createdAt":      1,
				"sender.name":    1,
				"sender.email":   1,
				"receiver.name":  1,
				"receiver.email": 1,
			}}},
		}

		cursor, err := config.ChatCollection.Aggregate(r.Context(), pipeline)
		if err != nil {
			log.Printf("Error fetching messages: %v", err)
			http.Error(w, "Error fetching messages", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		messages := []bson.M{}
		if err := cursor.All(r.Context(), &messages); err != nil {
			log.Printf("Error decoding messages: %v", err)
			http.Error(w, "Error decoding messages", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Message: "Fetched messages",
			Data:    messages,
		})
	}
}
