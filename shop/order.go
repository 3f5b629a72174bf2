package shop

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/madkins23/mongo-prep/mdbson"
)

// Order status values in lifecycle order.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Statuses lists all order status values.
var Statuses = []string{StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled}

// OrderItem is one line of an order.
// Name and unit price are copied from the product at order time
// so the order stays stable when the catalog changes.
type OrderItem struct {
	SKU       string `bson:"sku"`
	Name      string `bson:"name"`
	UnitCents int64  `bson:"unit_cents"`
	Quantity  int    `bson:"quantity" validate:"gte=1"`
}

type Order struct {
	ObjectID   primitive.ObjectID             `bson:"_id,omitempty"`
	Number     string                         `bson:"number" validate:"required"`
	Email      string                         `bson:"email" validate:"required,email"`
	Status     string                         `bson:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
	Items      []OrderItem                    `bson:"items" validate:"min=1,dive"`
	TotalCents int64                          `bson:"total_cents" validate:"gte=0"`
	Placed     time.Time                      `bson:"placed"`
	Payment    *mdbson.Wrapper[PaymentMethod] `bson:"payment,omitempty"`
}

// Filter returns a filter for the order by unique order number.
func (o *Order) Filter() bson.D {
	return bson.D{{Key: "number", Value: o.Number}}
}

// Total computes the order total from its items.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.UnitCents * int64(item.Quantity)
	}
	return total
}
