package utils

import (
	"testing"
	"time"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("64f1a2b3c4d5e6f7a8b9c0d1", "admin")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT failed: %v", err)
	}

	if claims.UserID != "64f1a2b3c4d5e6f7a8b9c0d1" {
		t.Errorf("Expected userID to round-trip, got %q", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("Expected role to round-trip, got %q", claims.Role)
	}

	expiresIn := time.Until(time.Unix(claims.ExpiresAt, 0))
	if expiresIn > time.Hour || expiresIn < 55*time.Minute {
		t.Errorf("Expected roughly one hour expiry, got %v", expiresIn)
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	if _, err := ValidateJWT("not.a.token"); err == nil {
		t.Error("Expected error for malformed token")
	}
}
