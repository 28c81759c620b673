package controllers

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// SearchParams holds the parsed property search query. All filters are
// optional and combine independently.
type SearchParams struct {
	Keyword    string
	MinPrice   *float64
	MaxPrice   *float64
	City       string
	Amenities  []string
	Lat        *float64
	Lng        *float64
	DistanceKM *float64
	SortBy     string
}

// HasGeo reports whether the full lat/lng/distance triple was supplied.
func (p SearchParams) HasGeo() bool {
	return p.Lat != nil && p.Lng != nil && p.DistanceKM != nil
}

func ParseSearchParams(query url.Values) (SearchParams, error) {
	params := SearchParams{
		Keyword: strings.TrimSpace(query.Get("keyword")),
		City:    strings.TrimSpace(query.Get("city")),
		SortBy:  query.Get("sortBy"),
	}

	parseFloat := func(key string) (*float64, error) {
		raw := query.Get(key)
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid value for " + key)
		}
		return &v, nil
	}

	var err error
	if params.MinPrice, err = parseFloat("minPrice"); err != nil {
		return params, err
	}
	if params.MaxPrice, err = parseFloat("maxPrice"); err != nil {
		return params, err
	}
	if params.Lat, err = parseFloat("lat"); err != nil {
		return params, err
	}
	if params.Lng, err = parseFloat("lng"); err != nil {
		return params, err
	}
	if params.DistanceKM, err = parseFloat("distance"); err != nil {
		return params, err
	}

	geoSupplied := params.Lat != nil || params.Lng != nil || params.DistanceKM != nil
	if geoSupplied && !params.HasGeo() {
		return params, errors.New("lat, lng and distance must be supplied together")
	}

	for _, a := range strings.Split(query.Get("amenities"), ",") {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			params.Amenities = append(params.Amenities, trimmed)
		}
	}

	return params, nil
}

// BuildSearchPipeline assembles the search aggregation. $geoNear must be
// the leading stage when present, then a single $match carrying every
// text/range/tag predicate restricted to active, non-expired listings,
// then the sort.
func BuildSearchPipeline(params SearchParams) mongo.Pipeline {
	pipeline := mongo.Pipeline{}

	if params.HasGeo() {
		pipeline = append(pipeline, bson.D{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": []float64{*params.Lng, *params.Lat},
			},
			"distanceField": "distance",
			"maxDistance":   *params.DistanceKM * 1000,
			"spherical":     true,
			"key":           "location",
		}}})
	}

	pipeline = append(pipeline, bson.D{{Key: "$match", Value: buildSearchFilter(params)}})
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: searchSort(params.SortBy)}})

	return pipeline
}

func buildSearchFilter(params SearchParams) bson.M {
	filter := bson.M{
		"status":   true,
		"isExpire": false,
	}

	if params.Keyword != "" {
		regex := primitive.Regex{Pattern: params.Keyword, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": regex}},
			bson.M{"description": bson.M{"$regex": regex}},
		}
	}

	if params.MinPrice != nil || params.MaxPrice != nil {
		price := bson.M{}
		if params.MinPrice != nil {
			price["$gte"] = *params.MinPrice
		}
		if params.MaxPrice != nil {
			price["$lte"] = *params.MaxPrice
		}
		filter["price"] = price
	}

	if params.City != "" {
		filter["city"] = bson.M{"$regex": primitive.Regex{Pattern: params.City, Options: "i"}}
	}

	if len(params.Amenities) > 0 {
		filter["amenities"] = bson.M{"$all": params.Amenities}
	}

	return filter
}

func searchSort(sortBy string) bson.D {
	switch sortBy {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}
