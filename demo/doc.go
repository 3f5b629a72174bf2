// Package demo holds runnable walkthroughs of MongoDB driver behavior:
// basic CRUD, aggregation pipelines, schema modeling patterns,
// indexing and query plans, plus transactions and change streams.
// Each demo creates its own collections, narrates driver operations
// through a structured logger and drops the collections afterwards
// unless told to keep them.
package demo
