package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/rjain-dev/estate_booking_system/backend/config"
	"github.com/rjain-dev/estate_booking_system/backend/models"
	"github.com/rjain-dev/estate_booking_system/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token,omitempty"`
	User    interface{} `json:"user,omitempty"`
}

func RegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user models.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			log.Printf("Error decoding user data: %v", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}

		if user.Name == "" || user.Email == "" || user.Phone == "" || user.Password == "" {
			log.Println("Missing required registration fields")
			http.Error(w, "Name, email, phone and password are required", http.StatusBadRequest)
			return
		}

		exists := config.UserCollection.FindOne(r.Context(), bson.M{"email": user.Email})
		if exists.Err() == nil {
			log.Printf("User email already exists: %s", user.Email)
			http.Error(w, "Email already exists", http.StatusConflict)
			return
		}

		hashedPwd, err := utils.HashPassword(user.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			http.Error(w, "Failed to hash password", http.StatusInternalServerError)
			return
		}
		user.Password = hashedPwd
		if user.Role != models.RoleAdmin {
			user.Role = models.RoleUser
		}
		user.CreatedAt = time.Now()
		user.UpdatedAt = user.CreatedAt

		res, err := config.UserCollection.InsertOne(r.Context(), user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				log.Printf("Duplicate email on insert: %s", user.Email)
				http.Error(w, "Email already exists", http.StatusConflict)
				return
			}
			log.Printf("Error inserting user into the database: %v", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		userID := res.InsertedID.(primitive.ObjectID).Hex()
		token, err := utils.GenerateJWT(userID, user.Role)
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(AuthResponse{Message: "User registered successfully", Token: token})
	}
}

func LoginUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials models.User
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("Error decoding login credentials: %v", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		var dbUser models.User
		err := config.UserCollection.FindOne(r.Context(), bson.M{"email": credentials.Email}).Decode(&dbUser)
		if err != nil {
			log.Printf("User not found: %s", credentials.Email)
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		if !utils.CheckPasswordHash(credentials.Password, dbUser.Password) {
			log.Printf("Invalid credentials for user: %s", credentials.Email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		token, err := utils.GenerateJWT(dbUser.ID.Hex(), dbUser.Role)
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AuthResponse{Message: "Login successful", Token: token, User: dbUser.Sanitize()})
	}
}

func GetAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := pageParams(r)

		result, err := utils.Paginate(r.Context(), config.UserCollection, bson.M{}, utils.PageOptions{
			Page:    page,
			Limit:   limit,
			Exclude: []string{"password"},
		})
		if err != nil {
			log.Printf("Error fetching users: %v", err)
			http.Error(w, "Error fetching users", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
