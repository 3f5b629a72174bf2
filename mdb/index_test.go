package mdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestIndexDescriptionAsBSON(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "email", Value: 1}}, NewIndexDescription(true, "email").AsBSON())
	assert.Equal(t, bson.D{{Key: "city", Value: 1}, {Key: "age", Value: 1}}, NewIndexDescription(false, "city", "age").AsBSON())
}

func TestTextIndexDescriptionAsBSON(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "name", Value: "text"}}, NewTextIndexDescription("name").AsBSON())
	assert.Equal(t, bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
		NewTextIndexDescription("name", "description").AsBSON())
}
