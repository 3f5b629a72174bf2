package demo

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/madkins23/mongo-prep/mdb"
	"github.com/madkins23/mongo-prep/shop"
)

// runIndexing loads a pile of synthetic users, captures query plans
// before and after index creation and compares the numbers.
func (r *Runner) runIndexing() error {
	logger := r.demoLogger("indexing")
	logger.Info().Int("count", r.options.Count).Int("workers", r.options.Workers).
		Msg("Indexing and performance walkthrough")

	users, err := mdb.ConnectTypedCollection[shop.User](r.access,
		&mdb.CollectionDefinition{Name: "index-users"})
	if err != nil {
		return fmt.Errorf("connect users collection: %w", err)
	}
	// Drop instead of clearing so indexes from a kept run go away too.
	if err := users.Drop(); err != nil {
		return fmt.Errorf("drop users collection: %w", err)
	}
	defer r.dropUnlessKept(logger, &users.Collection)

	start := time.Now()
	sample, err := r.loadUsers(users)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	elapsed := time.Since(start)
	logger.Info().Int("count", r.options.Count).Dur("elapsed", elapsed).
		Float64("perSecond", float64(r.options.Count)/elapsed.Seconds()).
		Msg("Loaded synthetic users")

	cityAge := bson.D{{Key: "city", Value: sample.City}, {Key: "age", Value: bson.D{{Key: "$gte", Value: 30}, {Key: "$lt", Value: 40}}}}
	queries := []bson.D{
		{{Key: "email", Value: sample.Email}},
		cityAge,
		{{Key: "name", Value: bson.D{{Key: "$regex", Value: "^" + strings.Fields(sample.Name)[0]}}}},
	}

	before, err := mdb.ExplainQuery(nil, &users.Collection, cityAge)
	if err != nil {
		return fmt.Errorf("explain before indexes: %w", err)
	}
	logger.Info().Str("plan", before.String()).Bool("indexUsed", before.IndexUsed()).
		Msg("Query plan before indexes")

	beforeElapsed, err := r.timeQueries(users, queries)
	if err != nil {
		return fmt.Errorf("time queries before indexes: %w", err)
	}

	for _, description := range []*mdb.IndexDescription{
		mdb.NewIndexDescription(true, "email"),
		mdb.NewIndexDescription(false, "city", "age"),
		mdb.NewTextIndexDescription("name"),
	} {
		if err := r.access.Index(&users.Collection, description); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	logger.Info().Msg("Created unique email, compound city+age and text name indexes")

	after, err := mdb.ExplainQuery(nil, &users.Collection, cityAge)
	if err != nil {
		return fmt.Errorf("explain after indexes: %w", err)
	}
	logger.Info().Str("plan", after.String()).Bool("indexUsed", after.IndexUsed()).
		Msg("Query plan after indexes")
	logger.Info().
		Int64("docsExaminedBefore", before.DocsExamined).
		Int64("docsExaminedAfter", after.DocsExamined).
		Int64("millisBefore", before.ExecutionMillis).
		Int64("millisAfter", after.ExecutionMillis).
		Msg("Plan comparison")

	afterElapsed, err := r.timeQueries(users, queries)
	if err != nil {
		return fmt.Errorf("time queries after indexes: %w", err)
	}
	logger.Info().Dur("before", beforeElapsed).Dur("after", afterElapsed).
		Msg("Fixed query set timing")

	// Text search only works once the text index exists.
	term := strings.Fields(sample.Name)[0]
	matches, err := users.FindAll(
		bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: term}}}},
		options.Find().SetLimit(5))
	if err != nil {
		return fmt.Errorf("text search: %w", err)
	}
	logger.Info().Str("term", term).Int("matches", len(matches)).Msg("Text search through the name index")

	logger.Info().Msg("Indexing walkthrough complete")
	return nil
}

// loadUsers seeds the collection through a pool of insert workers.
// Returns a user from the middle of the load for use in queries.
func (r *Runner) loadUsers(users *mdb.TypedCollection[shop.User]) (*shop.User, error) {
	const batchSize = 500
	seeder := shop.NewSeeder(r.options.Seed)

	batches := make(chan []interface{}, r.options.Workers)
	var inserted int64
	var firstErr error
	var errOnce sync.Once
	var group sync.WaitGroup
	for i := 0; i < r.options.Workers; i++ {
		group.Add(1)
		go func() {
			defer group.Done()
			// Keep draining after a failure so the generator never blocks.
			for batch := range batches {
				if err := users.CreateMany(batch); err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				atomic.AddInt64(&inserted, int64(len(batch)))
			}
		}()
	}

	var sample *shop.User
	target := r.options.Count / 2
	generated := 0
	for generated < r.options.Count {
		size := batchSize
		if remaining := r.options.Count - generated; remaining < size {
			size = remaining
		}
		batch := seeder.Users(size)
		if sample == nil && generated+size > target {
			sample = batch[target-generated]
		}
		batches <- asDocuments(batch)
		generated += size
	}
	close(batches)
	group.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if count := atomic.LoadInt64(&inserted); count != int64(r.options.Count) {
		return nil, fmt.Errorf("inserted %d of %d users", count, r.options.Count)
	}
	return sample, nil
}

// timeQueries runs the fixed query set repeatedly and returns the elapsed time.
func (r *Runner) timeQueries(users *mdb.TypedCollection[shop.User], queries []bson.D) (time.Duration, error) {
	const rounds = 20
	start := time.Now()
	for i := 0; i < rounds; i++ {
		for _, query := range queries {
			if _, err := users.FindAll(query, options.Find().SetLimit(10)); err != nil {
				return 0, fmt.Errorf("timed query '%v': %w", query, err)
			}
		}
	}
	return time.Since(start), nil
}
