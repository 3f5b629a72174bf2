// Command prep runs MongoDB interview preparation demos.
//
// Each demo creates its own collections in the target database,
// loads synthetic shop data and narrates what it does through the log:
//
//	prep -demo crud
//	prep -demo indexing -count 50000 -workers 8
//	prep -demo all -db warmup -keep
//
// The txn and watch demos need a replica set and skip themselves
// with a warning when the server is a standalone.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/madkins23/mongo-prep/demo"
	"github.com/madkins23/mongo-prep/mdb"
)

var (
	flagDemo    = flag.String("demo", "all", "demo to run ("+strings.Join(demo.Names, "|")+")")
	flagURI     = flag.String("uri", "", "connection URI (default $MONGODB_URI, then "+mdb.DefaultURI+")")
	flagDB      = flag.String("db", "mongo-prep", "database name")
	flagCount   = flag.Int("count", demo.DefaultCount, "users loaded by the indexing demo")
	flagWorkers = flag.Int("workers", demo.DefaultWorkers, "concurrent insert workers in the indexing demo")
	flagSeed    = flag.Int64("seed", 1, "seed for the deterministic data generator")
	flagKeep    = flag.Bool("keep", false, "keep demo collections after the run")
	flagDebug   = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()
	level := zerolog.InfoLevel
	if *flagDebug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := run(logger); err != nil {
		logger.Error().Err(err).Msg("Demo failed")
		os.Exit(1)
	}
}

// run is separate from main so deferred cleanup happens before any exit.
func run(logger zerolog.Logger) error {
	uri := *flagURI
	if uri == "" {
		uri = os.Getenv("MONGODB_URI")
	}
	config := &mdb.Config{
		LogInfoFn: func(msg string) {
			logger.Info().Str("pkg", "mdb").Msg(msg)
		},
	}
	if uri != "" {
		config.Options = options.Client().ApplyURI(uri)
	}

	access, err := mdb.Connect(*flagDB, config)
	if err != nil {
		return fmt.Errorf("connect to database '%s': %w", *flagDB, err)
	}
	defer func() {
		if err := access.Disconnect(); err != nil {
			logger.Error().Err(err).Msg("Disconnect")
		}
	}()

	runner := demo.NewRunner(access, logger, demo.Options{
		Seed:    *flagSeed,
		Count:   *flagCount,
		Workers: *flagWorkers,
		Keep:    *flagKeep,
	})
	return runner.Run(*flagDemo)
}
