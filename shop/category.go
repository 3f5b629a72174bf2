package shop

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryKey supports cache lookup by slug without a full item.
type CategoryKey struct {
	Slug string
}

func (ck *CategoryKey) CacheKey() string {
	return ck.Slug
}

func (ck *CategoryKey) Filter() bson.D {
	return bson.D{{Key: "slug", Value: ck.Slug}}
}

// Category is a catalog grouping that changes rarely,
// suitable for serving out of an in-process cache.
type Category struct {
	ObjectID    primitive.ObjectID `bson:"_id,omitempty"`
	Slug        string             `bson:"slug" validate:"required"`
	Name        string             `bson:"name" validate:"required"`
	Description string             `bson:"description"`
	Realized    bool               `bson:"-"`
	expires     time.Time
}

func (c *Category) CacheKey() string {
	return c.Slug
}

func (c *Category) Filter() bson.D {
	return bson.D{{Key: "slug", Value: c.Slug}}
}

func (c *Category) ExpireAfter(duration time.Duration) {
	c.expires = time.Now().Add(duration)
}

func (c *Category) Expired() bool {
	return time.Now().After(c.expires)
}

func (c *Category) Realize() error {
	c.Realized = true
	return nil
}
