package mdb

import (
	"github.com/madkins23/mongo-prep/shop"
)

// Collection definitions shared by the database test suites.
var (
	testCollectionPlain = &CollectionDefinition{
		Name: "test-collection-plain",
	}
	testCollectionUsers = &CollectionDefinition{
		Name:           "test-users",
		ValidationJSON: shop.UserValidatorJSON,
	}
	testCollectionProducts = &CollectionDefinition{
		Name:           "test-products",
		ValidationJSON: shop.ProductValidatorJSON,
	}
	testCollectionOrders = &CollectionDefinition{
		Name: "test-orders",
	}
	testCollectionWrapped = &CollectionDefinition{
		Name: "test-wrapped",
	}
	testCollectionCarts = &CollectionDefinition{
		Name: "test-carts",
	}
	testCollectionCategories = &CollectionDefinition{
		Name: "test-categories",
	}
)
