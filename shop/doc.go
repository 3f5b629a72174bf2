// Package shop holds the study domain driven by the demos:
// users, products, orders, carts and reviews for a small web store.
// Models carry bson tags for storage and validate tags for client-side
// checking, with $jsonSchema validator constants for server-side
// enforcement of the same rules.
// The Seeder produces deterministic synthetic data for the walkthroughs.
package shop
