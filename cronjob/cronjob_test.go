package cronjob

import (
	"testing"
	"time"
)

func TestExpiryCutoff(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	cutoff := ExpiryCutoff(now)

	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Errorf("Expected cutoff %v, got %v", want, cutoff)
	}

	if !cutoff.Before(now) {
		t.Error("Cutoff must be in the past")
	}
}
