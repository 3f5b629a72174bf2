package shop

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ObjectID primitive.ObjectID `bson:"_id,omitempty"`
	SKU      string             `bson:"sku" validate:"required"`
	Email    string             `bson:"email" validate:"required,email"`
	Rating   int                `bson:"rating" validate:"gte=1,lte=5"`
	Comment  string             `bson:"comment"`
	Created  time.Time          `bson:"created"`
}

// Filter returns a filter for reviews by a customer for a product.
func (r *Review) Filter() bson.D {
	return bson.D{
		{Key: "sku", Value: r.SKU},
		{Key: "email", Value: r.Email},
	}
}
