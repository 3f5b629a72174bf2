package mdb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Aggregate runs the specified pipeline on the collection and decodes all results.
// A package function rather than a method so that the row type can differ
// from the type stored in the collection.
func Aggregate[R any](c *Collection, pipeline mongo.Pipeline, opts ...*options.AggregateOptions) ([]R, error) {
	cursor, err := c.Collection.Aggregate(c.ctx, pipeline, opts...)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	rows := make([]R, 0)
	for cursor.Next(c.ctx) {
		var row R
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		rows = append(rows, row)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor: %w", err)
	}

	return rows, nil
}
