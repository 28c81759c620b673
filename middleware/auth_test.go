package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rjain-dev/estate_booking_system/backend/controllers"
	"github.com/rjain-dev/estate_booking_system/backend/models"
	"github.com/rjain-dev/estate_booking_system/backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	next, called := okHandler()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/bookings/my", nil)

	AuthMiddleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, *called)
}

func TestAuthMiddlewareBadFormat(t *testing.T) {
	next, called := okHandler()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/bookings/my", nil)
	req.Header.Set("Authorization", "Token abc")

	AuthMiddleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, *called)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	next, called := okHandler()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/bookings/my", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	AuthMiddleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, *called)
}

func TestAuthMiddlewareSetsClaims(t *testing.T) {
	token, err := utils.GenerateJWT("64f1a2b3c4d5e6f7a8b9c0d1", models.RoleUser)
	require.NoError(t, err)

	var gotID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = r.Context().Value(controllers.UserIDKey).(string)
		gotRole, _ = r.Context().Value(controllers.UserRoleKey).(string)
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/bookings/my", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	AuthMiddleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "64f1a2b3c4d5e6f7a8b9c0d1", gotID)
	assert.Equal(t, models.RoleUser, gotRole)
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	next, called := okHandler()
	gate := RequireRole(models.RoleAdmin)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/users/all", nil)
	ctx := context.WithValue(req.Context(), controllers.UserRoleKey, models.RoleUser)

	gate(next).ServeHTTP(rr, req.WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, *called)
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	next, called := okHandler()
	gate := RequireRole(models.RoleAdmin)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/users/all", nil)
	ctx := context.WithValue(req.Context(), controllers.UserRoleKey, models.RoleAdmin)

	gate(next).ServeHTTP(rr, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, *called)
}
