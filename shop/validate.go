package shop

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks an item against its validate tags.
// This is the client-side half of the validation story,
// the server side is enforced by the $jsonSchema validator constants.
func Validate(item interface{}) error {
	if err := validate.Struct(item); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}
