package shop

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/madkins23/go-serial/pointer"
)

var ProductValidatorJSON = `{
	"$jsonSchema": {
		"bsonType": "object",
		"required": ["sku", "name", "price_cents"],
		"properties": {
			"sku": {
				"bsonType": "string"
			},
			"name": {
				"bsonType": "string"
			},
			"price_cents": {
				"bsonType": ["int", "long"],
				"minimum": 0
			},
			"stock": {
				"bsonType": ["int", "long"],
				"minimum": 0
			}
		}
	}
}`

// ProductGroup is the pointer target group for products.
const ProductGroup = "products"

// Rating summarizes review scores for a product.
type Rating struct {
	Count int64   `bson:"count"`
	Mean  float64 `bson:"mean"`
}

var _ pointer.Target = &Product{}

type Product struct {
	ObjectID   primitive.ObjectID `bson:"_id,omitempty"`
	SKU        string             `bson:"sku" validate:"required"`
	Name       string             `bson:"name" validate:"required"`
	Category   string             `bson:"category"`
	PriceCents int64              `bson:"price_cents" validate:"gte=0"`
	Stock      int                `bson:"stock" validate:"gte=0"`
	Tags       []string           `bson:"tags,omitempty"`
	Rating     Rating             `bson:"rating"`
}

// Filter returns a filter for the product by unique SKU.
func (p *Product) Filter() bson.D {
	return bson.D{{Key: "sku", Value: p.SKU}}
}

// Group returns the pointer target group for products.
func (p *Product) Group() string {
	return ProductGroup
}

// Key returns the pointer target key for the product.
func (p *Product) Key() string {
	return p.SKU
}
