package shop

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var UserValidatorJSON = `{
	"$jsonSchema": {
		"bsonType": "object",
		"required": ["name", "email", "age"],
		"properties": {
			"name": {
				"bsonType": "string",
				"minLength": 2
			},
			"email": {
				"bsonType": "string",
				"pattern": "^.+@.+$"
			},
			"age": {
				"bsonType": "int",
				"minimum": 13
			}
		}
	}
}`

type User struct {
	ObjectID primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name" validate:"required,min=2"`
	Email    string             `bson:"email" validate:"required,email"`
	Age      int                `bson:"age" validate:"required,gte=13,lte=120"`
	City     string             `bson:"city"`
	Active   bool               `bson:"active"`
	Joined   time.Time          `bson:"joined"`
	Tags     []string           `bson:"tags,omitempty"`
}

// Filter returns a filter for the user by unique email.
func (u *User) Filter() bson.D {
	return bson.D{{Key: "email", Value: u.Email}}
}
