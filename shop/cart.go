package shop

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/madkins23/mongo-prep/mdbson"
)

// CartLine references its product by pointer instead of embedding it.
// Stored carts carry only the product group and SKU,
// reading a cart back resolves the product through cache or finder.
type CartLine struct {
	Product  *mdbson.Pointer[*Product] `bson:"product"`
	Quantity int                       `bson:"quantity" validate:"gte=1"`
}

type Cart struct {
	ObjectID primitive.ObjectID `bson:"_id,omitempty"`
	Email    string             `bson:"email" validate:"required,email"`
	Updated  time.Time          `bson:"updated"`
	Lines    []CartLine         `bson:"lines"`
}

// Filter returns a filter for the cart by customer email.
func (c *Cart) Filter() bson.D {
	return bson.D{{Key: "email", Value: c.Email}}
}

// TotalCents prices the cart from the resolved product pointers.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		if product := line.Product.Get(); product != nil {
			total += product.PriceCents * int64(line.Quantity)
		}
	}
	return total
}
