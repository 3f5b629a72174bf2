package demo

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/madkins23/mongo-prep/mdb"
)

// Names lists the demos in the order they are usually run.
// The name all runs the four core demos in sequence.
var Names = []string{"crud", "aggregate", "modeling", "indexing", "txn", "watch", "all"}

// coreDemos are the demos executed by the name all.
var coreDemos = []string{"crud", "aggregate", "modeling", "indexing"}

var (
	// DefaultCount of synthetic users loaded by the indexing demo.
	DefaultCount = 10000

	// DefaultWorkers loading data concurrently in the indexing demo.
	DefaultWorkers = 4
)

// Options adjust demo data volume and cleanup.
type Options struct {
	// Seed for the deterministic data generator.
	Seed int64

	// Count of synthetic users loaded by the indexing demo.
	Count int

	// Workers inserting batches concurrently in the indexing demo.
	Workers int

	// Keep demo collections after a run instead of dropping them.
	Keep bool
}

// Runner executes demos against a connected database.
type Runner struct {
	access  *mdb.Access
	logger  zerolog.Logger
	options Options
}

// NewRunner creates a Runner, filling in option defaults.
func NewRunner(access *mdb.Access, logger zerolog.Logger, options Options) *Runner {
	if options.Count <= 0 {
		options.Count = DefaultCount
	}
	if options.Workers <= 0 {
		options.Workers = DefaultWorkers
	}
	return &Runner{
		access:  access,
		logger:  logger,
		options: options,
	}
}

// Run executes the named demo.
// The name all runs the core demos in order, stopping at the first failure.
func (r *Runner) Run(name string) error {
	if name == "all" {
		for _, core := range coreDemos {
			if err := r.Run(core); err != nil {
				return err
			}
		}
		return nil
	}

	demos := map[string]func() error{
		"crud":      r.runCrud,
		"aggregate": r.runAggregate,
		"modeling":  r.runModeling,
		"indexing":  r.runIndexing,
		"txn":       r.runTxn,
		"watch":     r.runWatch,
	}
	demo, found := demos[name]
	if !found {
		return fmt.Errorf("unknown demo '%s'", name)
	}

	if err := demo(); err != nil {
		return fmt.Errorf("%s demo: %w", name, err)
	}
	return nil
}

// demoLogger returns the runner logger tagged with the demo name.
func (r *Runner) demoLogger(name string) zerolog.Logger {
	return r.logger.With().Str("demo", name).Logger()
}

// dropUnlessKept drops demo collections at the end of a run.
// Provided for use in defer statements.
func (r *Runner) dropUnlessKept(logger zerolog.Logger, collections ...*mdb.Collection) {
	if r.options.Keep {
		return
	}
	for _, collection := range collections {
		if err := collection.Drop(); err != nil {
			logger.Error().Err(err).Str("collection", collection.Name()).Msg("Drop collection")
		}
	}
}

// asDocuments converts typed items for batch insertion.
func asDocuments[T any](items []T) []interface{} {
	documents := make([]interface{}, len(items))
	for i, item := range items {
		documents[i] = item
	}
	return documents
}
