package controllers

import (
	"net/http"
	"strconv"

	"github.com/rjain-dev/estate_booking_system/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	UserIDKey   = ContextKey("userID")
	UserRoleKey = ContextKey("userRole")
)

// caller pulls the authenticated user's id and role out of the request
// context set by the auth middleware.
func caller(r *http.Request) (primitive.ObjectID, string, bool) {
	idHex, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return primitive.NilObjectID, "", false
	}
	role, _ := r.Context().Value(UserRoleKey).(string)
	return id, role, true
}

// canMutate is the single ownership predicate: admins may mutate
// anything, everyone else only records they own.
func canMutate(callerID primitive.ObjectID, role string, owner primitive.ObjectID) bool {
	return role == models.RoleAdmin || owner == callerID
}

// pageParams reads page/limit query parameters with the usual defaults.
func pageParams(r *http.Request) (int64, int64) {
	page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}
