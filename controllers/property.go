package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rjain-dev/estate_booking_system/backend/config"
	"github.com/rjain-dev/estate_booking_system/backend/models"
	"github.com/rjain-dev/estate_booking_system/backend/utils"
	"github.com/gorilla/mux"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const maxUploadSize = 64 << 20

func CreateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _, ok := caller(r)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			log.Printf("Invalid multipart form: %v", err)
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}

		title := r.FormValue("title")
		description := r.FormValue("description")
		city := r.FormValue("city")
		propType := r.FormValue("type")
		if title == "" || description == "" || city == "" {
			log.Println("Missing required property fields")
			http.Error(w, "Title, description and city are required", http.StatusBadRequest)
			return
		}
		if !models.ValidPropertyType(propType) {
			log.Printf("Invalid property type: %s", propType)
			http.Error(w, "Type must be Sale or Rent", http.StatusBadRequest)
			return
		}

		price, err := strconv.ParseFloat(r.FormValue("price"), 64)
		if err != nil || price < 0 {
			log.Printf("Invalid price: %s", r.FormValue("price"))
			http.Error(w, "Invalid price", http.StatusBadRequest)
			return
		}

		lng, errLng := strconv.ParseFloat(r.FormValue("lng"), 64)
		lat, errLat := strconv.ParseFloat(r.FormValue("lat"), 64)
		if errLng != nil || errLat != nil {
			log.Println("Missing or invalid coordinates")
			http.Error(w, "Valid lng and lat are required", http.StatusBadRequest)
			return
		}

		count, err := config.UserCollection.CountDocuments(r.Context(), bson.M{"_id": callerID})
		if err != nil || count == 0 {
			log.Printf("Owner %s does not exist", callerID.Hex())
			http.Error(w, "Owner not found", http.StatusNotFound)
			return
		}

		images, err := saveUploadedFiles(r, "images", "uploads/images")
		if err != nil {
			log.Printf("Failed to store images: %v", err)
			http.Error(w, "Failed to store images", http.StatusInternalServerError)
			return
		}
		videos, err := saveUploadedFiles(r, "videos", "uploads/videos")
		if err != nil {
			log.Printf("Failed to store videos: %v", err)
			http.Error(w, "Failed to store videos", http.StatusInternalServerError)
			return
		}

		var amenities []string
		for _, a := range strings.Split(r.FormValue("amenities"), ",") {
			if trimmed := strings.TrimSpace(a); trimmed != "" {
				amenities = append(amenities, trimmed)
			}
		}

		now := time.Now()
		property := models.Property{
			ID:          primitive.NewObjectID(),
			Title:       title,
			Description: description,
			Price:       price,
			City:        city,
			Address:     r.FormValue("address"),
			Amenities:   amenities,
			Images:      images,
			Videos:      videos,
			Owner:       callerID,
			Location:    models.NewGeoPoint(lng, lat),
			Status:      true,
			IsExpire:    false,
			Type:        propType,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if _, err := config.PropertyCollection.InsertOne(r.Context(), property); err != nil {
			log.Printf("Insert failed: %v", err)
			http.Error(w, "Failed to create property", http.StatusInternalServerError)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(property)
	}
}

func GetAllProperties() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := pageParams(r)

		result, err := utils.Paginate(r.Context(), config.PropertyCollection, bson.M{}, utils.PageOptions{
			Page:  page,
			Limit: limit,
			Populate: []utils.Populate{
				{Path: "owner", From: "users", Exclude: []string{"password"}},
			},
		})
		if err != nil {
			log.Printf("Error fetching properties: %v", err)
			http.Error(w, "Error fetching properties", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

func SearchProperties(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		cacheKey := generateCacheKey(query)

		cachedData, err := redisClient.Get(r.Context(), cacheKey).Result()
		if err == nil {
			log.Printf("Cache Hit for key: %s", cacheKey)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cachedData))
			return
		}
		if err != redis.Nil {
			log.Printf("Redis GET error for key %s: %v", cacheKey, err)
		}

		params, err := ParseSearchParams(query)
		if err != nil {
			log.Printf("Invalid search parameters: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		pipeline := BuildSearchPipeline(params)

		cursor, err := config.PropertyCollection.Aggregate(r.Context(), pipeline)
		if err != nil {
			log.Printf("Error searching properties: %v", err)
			http.Error(w, "Error searching properties", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		properties := []models.Property{}
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding properties: %v", err)
			http.Error(w, "Error decoding properties", http.StatusInternalServerError)
			return
		}

		resultBytes, err := json.Marshal(map[string]interface{}{
			"success": true,
			"count":   len(properties),
			"data":    properties,
		})
		if err != nil {
			log.Printf("Failed to serialize properties: %v", err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}

		if err := redisClient.Set(r.Context(), cacheKey, resultBytes, 10*time.Minute).Err(); err != nil {
			log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(resultBytes)
	}
}

func UpdateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, role, ok := caller(r)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", propertyID, err)
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		var property models.Property
		err = config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&property)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				log.Printf("No property found with ID %s", propertyID)
				http.Error(w, "Property not found", http.StatusNotFound)
				return
			}
			log.Printf("Error fetching property %s: %v", propertyID, err)
			http.Error(w, "Error fetching property", http.StatusInternalServerError)
			return
		}

		if !canMutate(callerID, role, property.Owner) {
			log.Printf("User %s is not allowed to update property %s", callerID.Hex(), propertyID)
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}

		var updateData map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
			log.Printf("Invalid update data: %v", err)
			http.Error(w, "Invalid update data", http.StatusBadRequest)
			return
		}

		delete(updateData, "_id")
		delete(updateData, "id")
		delete(updateData, "owner")
		delete(updateData, "createdAt")
		updateData["updatedAt"] = time.Now()

		update := bson.M{"$set": updateData}
		if _, err := config.PropertyCollection.UpdateByID(r.Context(), objID, update); err != nil {
			log.Printf("Update failed for property %s: %v", propertyID, err)
			http.Error(w, "Update failed", http.StatusInternalServerError)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Property updated successfully"})
	}
}

func DeleteProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, role, ok := caller(r)
		if !ok {
			log.Println("User ID missing in context")
			http.Error(w, "User ID missing in context", http.StatusUnauthorized)
			return
		}

		propertyID := mux.Vars(r)["id"]
		objID, err := primitive.ObjectIDFromHex(propertyID)
		if err != nil {
			log.Printf("Invalid property ID %s: %v", propertyID, err)
			http.Error(w, "Invalid property ID", http.StatusBadRequest)
			return
		}

		var property models.Property
		err = config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": objID}).Decode(&property)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				log.Printf("No property found with ID %s", propertyID)
				http.Error(w, "Property not found", http.StatusNotFound)
				return
			}
			log.Printf("Error fetching property %s: %v", propertyID, err)
			http.Error(w, "Error fetching property", http.StatusInternalServerError)
			return
		}

		if !canMutate(callerID, role, property.Owner) {
			log.Printf("User %s is not allowed to delete property %s", callerID.Hex(), propertyID)
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}

		if _, err := config.PropertyCollection.DeleteOne(r.Context(), bson.M{"_id": objID}); err != nil {
			log.Printf("Delete failed for property %s: %v", propertyID, err)
			http.Error(w, "Delete failed", http.StatusInternalServerError)
			return
		}

		go func() {
			deletePropertyCache(redisClient)
		}()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Property deleted successfully"})
	}
}

// saveUploadedFiles writes every file under the given form field into
// destDir with a timestamp-prefixed name and returns the stored paths.
func saveUploadedFiles(r *http.Request, field, destDir string) ([]string, error) {
	paths := []string{}
	if r.MultipartForm == nil {
		return paths, nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return paths, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}

	for _, fh := range files {
		path, err := saveOneFile(fh, destDir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func saveOneFile(fh *multipart.FileHeader, destDir string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(fh.Filename))
	path := filepath.Join(destDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

func generateCacheKey(queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return "propertysearch:" + hex.EncodeToString(sum[:])
}

func deletePropertyCache(redisClient *redis.Client) {
	ctx := context.Background()
	const scanPattern = "propertysearch:*"
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = redisClient.Scan(ctx, cursor, scanPattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", scanPattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := redisClient.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, execErr := pipe.Exec(ctx); execErr != nil {
		log.Printf("Error executing pipeline for deleting %d property cache keys: %v", len(keysToDelete), execErr)
	} else {
		log.Printf("Property cache invalidated, deleted %d keys matching '%s'", len(keysToDelete), scanPattern)
	}
}
