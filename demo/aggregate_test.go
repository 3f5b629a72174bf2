package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func stageNames(pipeline mongo.Pipeline) []string {
	names := make([]string, len(pipeline))
	for i, stage := range pipeline {
		names[i] = stage[0].Key
	}
	return names
}

func TestStatusTotalsPipeline(t *testing.T) {
	pipeline := statusTotalsPipeline()
	require.Equal(t, []string{"$match", "$group", "$sort"}, stageNames(pipeline))
	group, ok := pipeline[1][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.E{Key: "_id", Value: "$status"}, group[0])
}

func TestTopProductsPipeline(t *testing.T) {
	pipeline := topProductsPipeline(7)
	require.Equal(t, []string{"$unwind", "$group", "$sort", "$limit"}, stageNames(pipeline))
	assert.Equal(t, "$items", pipeline[0][0].Value)
	assert.Equal(t, 7, pipeline[3][0].Value)
	group, ok := pipeline[1][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.E{Key: "_id", Value: "$items.sku"}, group[0])
}

func TestLookupProductsPipeline(t *testing.T) {
	pipeline := lookupProductsPipeline("catalog", 3)
	require.Equal(t, []string{"$unwind", "$lookup", "$unwind", "$project", "$limit"}, stageNames(pipeline))
	lookup, ok := pipeline[1][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.E{Key: "from", Value: "catalog"}, lookup[0])
	assert.Equal(t, bson.E{Key: "localField", Value: "items.sku"}, lookup[1])
	assert.Equal(t, bson.E{Key: "foreignField", Value: "sku"}, lookup[2])
	assert.Equal(t, 3, pipeline[4][0].Value)
}

func TestRevenueBucketsPipeline(t *testing.T) {
	pipeline := revenueBucketsPipeline()
	require.Equal(t, []string{"$bucket"}, stageNames(pipeline))
	bucket, ok := pipeline[0][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.E{Key: "groupBy", Value: "$total_cents"}, bucket[0])
	boundaries, ok := bucket[1].Value.(bson.A)
	require.True(t, ok)
	assert.Len(t, boundaries, 4)
	assert.Equal(t, 0, boundaries[0])
}

func TestRatingAveragesPipeline(t *testing.T) {
	pipeline := ratingAveragesPipeline()
	require.Equal(t, []string{"$group", "$sort"}, stageNames(pipeline))
	group, ok := pipeline[0][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.E{Key: "_id", Value: "$sku"}, group[0])
	mean, ok := group[2].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.E{Key: "$avg", Value: "$rating"}, mean[0])
}
