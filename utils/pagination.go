package utils

import (
	"context"

	"github.com/rjain-dev/estate_booking_system/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Populate describes one reference expansion: the local field holding
// an ObjectID is replaced by the matching document from another
// collection, minus any excluded fields.
type Populate struct {
	Path    string
	From    string
	Exclude []string
}

type PageOptions struct {
	Page     int64
	Limit    int64
	Exclude  []string
	Populate []Populate
}

// Paginate fetches one page of filter matches sorted by descending
// creation time, applies the requested reference expansions, and counts
// the total matches separately so skip/limit never affect the totals.
func Paginate(ctx context.Context, coll *mongo.Collection, filter bson.M, opts PageOptions) (*models.PageResult, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}

	pipeline := BuildPagePipeline(filter, opts)

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []bson.M{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.PageResult{
		Records:      records,
		TotalRecords: count,
		TotalPages:   PageCount(count, opts.Limit),
		CurrentPage:  opts.Page,
	}, nil
}

// BuildPagePipeline assembles the aggregation stages for one page:
// match, createdAt-descending sort, skip/limit, then one
// $lookup/$unwind pair per populate spec.
func BuildPagePipeline(filter bson.M, opts PageOptions) mongo.Pipeline {
	skip := (opts.Page - 1) * opts.Limit

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: opts.Limit}},
	}

	if len(opts.Exclude) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$unset", Value: opts.Exclude}})
	}

	for _, p := range opts.Populate {
		pipeline = append(pipeline,
			bson.D{{Key: "$lookup", Value: bson.M{
				"from":         p.From,
				"localField":   p.Path,
				"foreignField": "_id",
				"as":           p.Path,
			}}},
			bson.D{{Key: "$unwind", Value: bson.M{
				"path":                       "$" + p.Path,
				"preserveNullAndEmptyArrays": true,
			}}},
		)
		if len(p.Exclude) > 0 {
			fields := make([]string, 0, len(p.Exclude))
			for _, f := range p.Exclude {
				fields = append(fields, p.Path+"."+f)
			}
			pipeline = append(pipeline, bson.D{{Key: "$unset", Value: fields}})
		}
	}

	return pipeline
}

// PageCount is ceil(total/limit).
func PageCount(total, limit int64) int64 {
	if limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}
