// Command dbping checks connectivity to a Mongo server.
//
// Connects to the named database, times a ping and disconnects:
//
//	dbping -db mongo-prep
//	dbping -uri mongodb://remote:27017 -db mongo-prep
package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/madkins23/mongo-prep/mdb"
)

var (
	flagURI = flag.String("uri", "", "connection URI (default $MONGODB_URI, then "+mdb.DefaultURI+")")
	flagDB  = flag.String("db", "mongo-prep", "database name")
)

func main() {
	flag.Parse()
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	uri := *flagURI
	if uri == "" {
		uri = os.Getenv("MONGODB_URI")
	}
	config := &mdb.Config{
		LogInfoFn: func(msg string) {
			logger.Debug().Str("pkg", "mdb").Msg(msg)
		},
	}
	if uri != "" {
		config.Options = options.Client().ApplyURI(uri)
	}

	// Connect pings once already, time a second ping for the report.
	access, err := mdb.Connect(*flagDB, config)
	if err != nil {
		logger.Error().Err(err).Str("db", *flagDB).Msg("Unable to connect")
		os.Exit(1)
	}
	status := 0
	start := time.Now()
	if err := access.Ping(); err != nil {
		logger.Error().Err(err).Msg("Ping failed")
		status = 1
	} else {
		logger.Info().
			Str("db", *flagDB).
			Dur("roundTrip", time.Since(start)).
			Msg("Server is up")
	}
	if err := access.Disconnect(); err != nil {
		logger.Error().Err(err).Str("db", *flagDB).Msg("Unable to disconnect")
		status = 1
	}
	os.Exit(status)
}
