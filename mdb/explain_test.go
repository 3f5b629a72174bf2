package mdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func explainResponse(t *testing.T, document bson.D) bson.Raw {
	data, err := bson.Marshal(document)
	require.NoError(t, err)
	return data
}

func TestParseExplainCollectionScan(t *testing.T) {
	plan := parseExplain(explainResponse(t, bson.D{
		{Key: "queryPlanner", Value: bson.D{
			{Key: "winningPlan", Value: bson.D{
				{Key: "stage", Value: "COLLSCAN"},
				{Key: "direction", Value: "forward"},
			}},
		}},
		{Key: "executionStats", Value: bson.D{
			{Key: "nReturned", Value: 42},
			{Key: "totalKeysExamined", Value: 0},
			{Key: "totalDocsExamined", Value: 10000},
			{Key: "executionTimeMillis", Value: 17},
		}},
	}))
	assert.Equal(t, []string{"COLLSCAN"}, plan.Stages)
	assert.Empty(t, plan.IndexName)
	assert.False(t, plan.IndexUsed())
	assert.Equal(t, int64(42), plan.Returned)
	assert.Equal(t, int64(0), plan.KeysExamined)
	assert.Equal(t, int64(10000), plan.DocsExamined)
	assert.Equal(t, int64(17), plan.ExecutionMillis)
	assert.NotContains(t, plan.String(), "index=")
}

func TestParseExplainIndexScan(t *testing.T) {
	plan := parseExplain(explainResponse(t, bson.D{
		{Key: "queryPlanner", Value: bson.D{
			{Key: "winningPlan", Value: bson.D{
				{Key: "stage", Value: "FETCH"},
				{Key: "inputStage", Value: bson.D{
					{Key: "stage", Value: "IXSCAN"},
					{Key: "indexName", Value: "city_1_age_1"},
				}},
			}},
		}},
		{Key: "executionStats", Value: bson.D{
			{Key: "nReturned", Value: 12},
			{Key: "totalKeysExamined", Value: 12},
			{Key: "totalDocsExamined", Value: 12},
			{Key: "executionTimeMillis", Value: 1},
		}},
	}))
	assert.Equal(t, []string{"FETCH", "IXSCAN"}, plan.Stages)
	assert.Equal(t, "city_1_age_1", plan.IndexName)
	assert.True(t, plan.IndexUsed())
	summary := plan.String()
	assert.Contains(t, summary, "FETCH<IXSCAN")
	assert.Contains(t, summary, "index=city_1_age_1")
	assert.Contains(t, summary, "docsExamined=12")
}

func TestParseExplainMergedStages(t *testing.T) {
	plan := parseExplain(explainResponse(t, bson.D{
		{Key: "queryPlanner", Value: bson.D{
			{Key: "winningPlan", Value: bson.D{
				{Key: "stage", Value: "SORT_MERGE"},
				{Key: "inputStages", Value: bson.A{
					bson.D{{Key: "stage", Value: "IXSCAN"}, {Key: "indexName", Value: "email_1"}},
					bson.D{{Key: "stage", Value: "IXSCAN"}, {Key: "indexName", Value: "city_1"}},
				}},
			}},
		}},
	}))
	assert.Equal(t, []string{"SORT_MERGE", "IXSCAN", "IXSCAN"}, plan.Stages)
	// First index found wins.
	assert.Equal(t, "email_1", plan.IndexName)
	assert.True(t, plan.IndexUsed())
}

func TestParseExplainTextScore(t *testing.T) {
	plan := parseExplain(explainResponse(t, bson.D{
		{Key: "queryPlanner", Value: bson.D{
			{Key: "winningPlan", Value: bson.D{
				{Key: "stage", Value: "TEXT_MATCH"},
				{Key: "inputStage", Value: bson.D{
					{Key: "stage", Value: "IXSCAN"},
					{Key: "indexName", Value: "name_text"},
				}},
			}},
		}},
	}))
	assert.Equal(t, []string{"TEXT_MATCH", "IXSCAN"}, plan.Stages)
	assert.Equal(t, "name_text", plan.IndexName)
	assert.True(t, plan.IndexUsed())
}

func TestParseExplainEmptyResponse(t *testing.T) {
	plan := parseExplain(explainResponse(t, bson.D{}))
	assert.Empty(t, plan.Stages)
	assert.Empty(t, plan.IndexName)
	assert.False(t, plan.IndexUsed())
	assert.Zero(t, plan.Returned)
	assert.Zero(t, plan.KeysExamined)
	assert.Zero(t, plan.DocsExamined)
	assert.Zero(t, plan.ExecutionMillis)
	assert.NotPanics(t, func() { _ = plan.String() })
}
