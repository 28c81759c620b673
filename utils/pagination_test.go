package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPageCount(t *testing.T) {
	assert.Equal(t, int64(3), PageCount(25, 10))
	assert.Equal(t, int64(1), PageCount(10, 10))
	assert.Equal(t, int64(0), PageCount(0, 10))
	assert.Equal(t, int64(1), PageCount(1, 10))
	assert.Equal(t, int64(0), PageCount(5, 0))
}

func TestBuildPagePipelineSkipAndLimit(t *testing.T) {
	pipeline := BuildPagePipeline(bson.M{}, PageOptions{Page: 2, Limit: 10})

	require.Len(t, pipeline, 4)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, "$sort", pipeline[1][0].Key)
	assert.Equal(t, "$skip", pipeline[2][0].Key)
	assert.Equal(t, int64(10), pipeline[2][0].Value)
	assert.Equal(t, "$limit", pipeline[3][0].Key)
	assert.Equal(t, int64(10), pipeline[3][0].Value)

	sort := pipeline[1][0].Value.(bson.D)
	assert.Equal(t, "createdAt", sort[0].Key)
	assert.Equal(t, -1, sort[0].Value)
}

func TestBuildPagePipelinePopulate(t *testing.T) {
	pipeline := BuildPagePipeline(bson.M{"user": "x"}, PageOptions{
		Page:  1,
		Limit: 5,
		Populate: []Populate{
			{Path: "user", From: "users", Exclude: []string{"password"}},
			{Path: "property", From: "properties"},
		},
	})

	// match, sort, skip, limit, then lookup+unwind+unset for user and
	// lookup+unwind for property.
	require.Len(t, pipeline, 9)
	assert.Equal(t, "$lookup", pipeline[4][0].Key)
	assert.Equal(t, "$unwind", pipeline[5][0].Key)
	assert.Equal(t, "$unset", pipeline[6][0].Key)
	assert.Equal(t, []string{"user.password"}, pipeline[6][0].Value)
	assert.Equal(t, "$lookup", pipeline[7][0].Key)
	assert.Equal(t, "$unwind", pipeline[8][0].Key)

	lookup := pipeline[4][0].Value.(bson.M)
	assert.Equal(t, "users", lookup["from"])
	assert.Equal(t, "user", lookup["localField"])
	assert.Equal(t, "_id", lookup["foreignField"])
}

func TestBuildPagePipelineRootExclude(t *testing.T) {
	pipeline := BuildPagePipeline(bson.M{}, PageOptions{
		Page:    1,
		Limit:   10,
		Exclude: []string{"password"},
	})

	require.Len(t, pipeline, 5)
	assert.Equal(t, "$unset", pipeline[4][0].Key)
	assert.Equal(t, []string{"password"}, pipeline[4][0].Value)
}
