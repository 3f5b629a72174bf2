package mdb

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// ExplainPlan summarizes the interesting parts of an explain command response.
type ExplainPlan struct {
	// Stages of the winning plan from the outside in (e.g. FETCH then IXSCAN).
	Stages []string

	// IndexName used by the winning plan, empty for collection scans.
	IndexName string

	Returned        int64
	KeysExamined    int64
	DocsExamined    int64
	ExecutionMillis int64
}

// ExplainQuery runs the explain command for a find with the specified filter
// at executionStats verbosity and parses the response.
func ExplainQuery(ctx context.Context, collection *Collection, filter bson.D) (*ExplainPlan, error) {
	if ctx == nil {
		ctx = collection.Context()
	}

	command := bson.D{
		{Key: "explain", Value: bson.D{
			{Key: "find", Value: collection.Name()},
			{Key: "filter", Value: filter},
		}},
		{Key: "verbosity", Value: "executionStats"},
	}
	var response bson.Raw
	if err := collection.Access.Database().RunCommand(ctx, command).Decode(&response); err != nil {
		return nil, fmt.Errorf("run explain command: %w", err)
	}

	return parseExplain(response), nil
}

// IndexUsed reports whether the winning plan read from an index.
func (plan *ExplainPlan) IndexUsed() bool {
	for _, stage := range plan.Stages {
		if stage == "IXSCAN" || strings.HasPrefix(stage, "TEXT") {
			return true
		}
	}

	return false
}

// String summarizes the plan on a single line for log output.
func (plan *ExplainPlan) String() string {
	summary := strings.Join(plan.Stages, "<")
	if plan.IndexName != "" {
		summary += " index=" + plan.IndexName
	}
	return fmt.Sprintf("%s returned=%d keysExamined=%d docsExamined=%d millis=%d",
		summary, plan.Returned, plan.KeysExamined, plan.DocsExamined, plan.ExecutionMillis)
}

// parseExplain pulls plan and execution data out of the raw explain response.
// Fields missing from the response are left at their zero values.
func parseExplain(response bson.Raw) *ExplainPlan {
	plan := &ExplainPlan{
		Returned:        lookupInt64(response, "executionStats", "nReturned"),
		KeysExamined:    lookupInt64(response, "executionStats", "totalKeysExamined"),
		DocsExamined:    lookupInt64(response, "executionStats", "totalDocsExamined"),
		ExecutionMillis: lookupInt64(response, "executionStats", "executionTimeMillis"),
	}

	if value, err := response.LookupErr("queryPlanner", "winningPlan"); err == nil {
		if doc, ok := value.DocumentOK(); ok {
			plan.walk(doc)
		}
	}

	return plan
}

// walk descends through the winning plan collecting stage names and the index name.
// Plans branch through inputStage (single child) or inputStages (merge stages).
func (plan *ExplainPlan) walk(stage bson.Raw) {
	if value, err := stage.LookupErr("stage"); err == nil {
		if name, ok := value.StringValueOK(); ok {
			plan.Stages = append(plan.Stages, name)
		}
	}
	if value, err := stage.LookupErr("indexName"); err == nil {
		if name, ok := value.StringValueOK(); ok && plan.IndexName == "" {
			plan.IndexName = name
		}
	}
	if value, err := stage.LookupErr("inputStage"); err == nil {
		if doc, ok := value.DocumentOK(); ok {
			plan.walk(doc)
		}
	}
	if value, err := stage.LookupErr("inputStages"); err == nil {
		if array, ok := value.ArrayOK(); ok {
			if values, err := array.Values(); err == nil {
				for _, item := range values {
					if doc, ok := item.DocumentOK(); ok {
						plan.walk(doc)
					}
				}
			}
		}
	}
}

func lookupInt64(raw bson.Raw, path ...string) int64 {
	value, err := raw.LookupErr(path...)
	if err != nil {
		return 0
	}
	if result, ok := value.AsInt64OK(); ok {
		return result
	}

	return 0
}
