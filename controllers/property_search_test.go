package controllers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseSearchParams(t *testing.T) {
	query := url.Values{}
	query.Set("keyword", "villa")
	query.Set("minPrice", "100000")
	query.Set("maxPrice", "200000")
	query.Set("city", "Karachi")
	query.Set("amenities", "WiFi, Pool,")
	query.Set("sortBy", "price_asc")

	params, err := ParseSearchParams(query)
	require.NoError(t, err)

	assert.Equal(t, "villa", params.Keyword)
	require.NotNil(t, params.MinPrice)
	assert.Equal(t, float64(100000), *params.MinPrice)
	require.NotNil(t, params.MaxPrice)
	assert.Equal(t, float64(200000), *params.MaxPrice)
	assert.Equal(t, "Karachi", params.City)
	assert.Equal(t, []string{"WiFi", "Pool"}, params.Amenities)
	assert.Equal(t, SortPriceAsc, params.SortBy)
	assert.False(t, params.HasGeo())
}

func TestParseSearchParamsGeoTriple(t *testing.T) {
	query := url.Values{}
	query.Set("lat", "24.86")
	query.Set("lng", "67.01")
	query.Set("distance", "5")

	params, err := ParseSearchParams(query)
	require.NoError(t, err)
	assert.True(t, params.HasGeo())
}

func TestParseSearchParamsIncompleteGeo(t *testing.T) {
	query := url.Values{}
	query.Set("lat", "24.86")

	_, err := ParseSearchParams(query)
	assert.Error(t, err)
}

func TestParseSearchParamsBadNumber(t *testing.T) {
	query := url.Values{}
	query.Set("minPrice", "cheap")

	_, err := ParseSearchParams(query)
	assert.Error(t, err)
}

func TestBuildSearchPipelineGeoFirst(t *testing.T) {
	lat, lng, dist := 24.86, 67.01, 5.0
	params := SearchParams{Lat: &lat, Lng: &lng, DistanceKM: &dist}

	pipeline := BuildSearchPipeline(params)

	require.Len(t, pipeline, 3)
	assert.Equal(t, "$geoNear", pipeline[0][0].Key)
	assert.Equal(t, "$match", pipeline[1][0].Key)
	assert.Equal(t, "$sort", pipeline[2][0].Key)

	geo := pipeline[0][0].Value.(bson.M)
	assert.Equal(t, float64(5000), geo["maxDistance"])
	assert.Equal(t, "distance", geo["distanceField"])
	near := geo["near"].(bson.M)
	assert.Equal(t, []float64{67.01, 24.86}, near["coordinates"])
}

func TestBuildSearchPipelineNoGeo(t *testing.T) {
	pipeline := BuildSearchPipeline(SearchParams{Keyword: "villa"})

	require.Len(t, pipeline, 2)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, "$sort", pipeline[1][0].Key)
}

func TestBuildSearchFilterAlwaysRestrictsVisibility(t *testing.T) {
	filter := buildSearchFilter(SearchParams{})

	assert.Equal(t, true, filter["status"])
	assert.Equal(t, false, filter["isExpire"])
}

func TestBuildSearchFilterPriceRange(t *testing.T) {
	min, max := 100000.0, 200000.0
	filter := buildSearchFilter(SearchParams{MinPrice: &min, MaxPrice: &max})

	price := filter["price"].(bson.M)
	assert.Equal(t, 100000.0, price["$gte"])
	assert.Equal(t, 200000.0, price["$lte"])
}

func TestBuildSearchFilterAmenitiesSuperset(t *testing.T) {
	filter := buildSearchFilter(SearchParams{Amenities: []string{"WiFi", "Pool"}})

	amenities := filter["amenities"].(bson.M)
	assert.Equal(t, []string{"WiFi", "Pool"}, amenities["$all"])
}

func TestSearchSortVariants(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, searchSort(SortPriceAsc))
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, searchSort(SortPriceDesc))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, searchSort(""))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, searchSort(SortNewest))
}
