package controllers

import (
	"testing"

	"github.com/rjain-dev/estate_booking_system/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizeStatusCountsDefaultsToZero(t *testing.T) {
	counts := NormalizeStatusCounts(nil)
	assert.Equal(t, models.BookingStatusCounts{}, counts)

	counts = NormalizeStatusCounts([]statusCountGroup{
		{Status: models.BookingConfirmed, Count: 3},
	})
	assert.Equal(t, int64(0), counts.Pending)
	assert.Equal(t, int64(3), counts.Confirmed)
	assert.Equal(t, int64(0), counts.Cancelled)
}

func TestNormalizeStatusCountsAllStatuses(t *testing.T) {
	counts := NormalizeStatusCounts([]statusCountGroup{
		{Status: models.BookingPending, Count: 1},
		{Status: models.BookingConfirmed, Count: 2},
		{Status: models.BookingCancelled, Count: 4},
	})
	assert.Equal(t, models.BookingStatusCounts{Pending: 1, Confirmed: 2, Cancelled: 4}, counts)
}

func TestBuildBookingSearchPipelineSortDirection(t *testing.T) {
	pipeline := BuildBookingSearchPipeline(bson.M{}, false)
	last := pipeline[len(pipeline)-1]
	require.Equal(t, "$sort", last[0].Key)
	sort := last[0].Value.(bson.D)
	assert.Equal(t, "date", sort[0].Key)
	assert.Equal(t, -1, sort[0].Value)

	pipeline = BuildBookingSearchPipeline(bson.M{}, true)
	sort = pipeline[len(pipeline)-1][0].Value.(bson.D)
	assert.Equal(t, 1, sort[0].Value)
}

func TestBuildBookingSearchPipelineJoins(t *testing.T) {
	pipeline := BuildBookingSearchPipeline(bson.M{"user": "x"}, false)

	require.Len(t, pipeline, 7)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, "$lookup", pipeline[1][0].Key)
	assert.Equal(t, "$unwind", pipeline[2][0].Key)
	assert.Equal(t, "$lookup", pipeline[3][0].Key)
	assert.Equal(t, "$unwind", pipeline[4][0].Key)
	assert.Equal(t, "$project", pipeline[5][0].Key)

	userLookup := pipeline[1][0].Value.(bson.M)
	assert.Equal(t, "users", userLookup["from"])
	propertyLookup := pipeline[3][0].Value.(bson.M)
	assert.Equal(t, "properties", propertyLookup["from"])

	project := pipeline[5][0].Value.(bson.M)
	_, hasPassword := project["user.password"]
	assert.False(t, hasPassword)
	assert.Equal(t, 1, project["user.email"])
}

func TestBuildStatusCountsPipeline(t *testing.T) {
	pipeline := BuildStatusCountsPipeline(bson.M{"user": "x"})

	require.Len(t, pipeline, 2)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, "$group", pipeline[1][0].Key)

	group := pipeline[1][0].Value.(bson.M)
	assert.Equal(t, "$status", group["_id"])
}
