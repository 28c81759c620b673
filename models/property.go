package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PropertyTypeSale = "Sale"
	PropertyTypeRent = "Rent"
)

// GeoPoint is a GeoJSON point, coordinates ordered [lng, lat]. The
// properties collection carries a 2dsphere index on this field.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

type Property struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	City        string             `bson:"city" json:"city"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Amenities   []string           `bson:"amenities" json:"amenities"`
	Images      []string           `bson:"images" json:"images"`
	Videos      []string           `bson:"videos" json:"videos"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	Location    GeoPoint           `bson:"location" json:"location"`
	Status      bool               `bson:"status" json:"status"`
	IsExpire    bool               `bson:"isExpire" json:"isExpire"`
	Type        string             `bson:"type" json:"type"`
	Distance    float64            `bson:"distance,omitempty" json:"distance,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidPropertyType(t string) bool {
	return t == PropertyTypeSale || t == PropertyTypeRent
}
