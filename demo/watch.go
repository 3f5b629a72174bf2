package demo

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madkins23/mongo-prep/mdb"
	"github.com/madkins23/mongo-prep/shop"
)

// eventLimit is how many change events the watch demo reads before stopping.
const eventLimit = 5

// runWatch opens a change stream filtered to inserts on an order collection,
// feeds it from a background inserter and reads a bounded number of events.
// Requires a replica set, standalone servers log the restriction and skip.
func (r *Runner) runWatch() error {
	logger := r.demoLogger("watch")
	logger.Info().Msg("Change stream walkthrough")

	if err := shop.RegisterPaymentMethods(); err != nil {
		return fmt.Errorf("register payment methods: %w", err)
	}

	orders, err := mdb.ConnectTypedCollection[shop.Order](r.access,
		&mdb.CollectionDefinition{Name: "watch-orders"})
	if err != nil {
		return fmt.Errorf("connect orders collection: %w", err)
	}
	defer r.dropUnlessKept(logger, &orders.Collection)
	if err := orders.DeleteAll(); err != nil {
		return fmt.Errorf("clear orders collection: %w", err)
	}

	ctx, cancel := r.access.ContextWithTimeout(30 * time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.D{{Key: "operationType", Value: "insert"}}}}}
	stream, err := orders.Watch(ctx, pipeline)
	if mdb.IsReplicaSetRequired(err) {
		logger.Warn().Msg("Change streams require a replica set, skipping demo")
		return nil
	} else if err != nil {
		return fmt.Errorf("open change stream: %w", err)
	}
	defer func() {
		if err := stream.Close(ctx); err != nil {
			logger.Error().Err(err).Msg("Close change stream")
		}
	}()

	// Background inserter feeding the stream until told to stop.
	seeder := shop.NewSeeder(r.options.Seed)
	buyers := seeder.Users(5)
	catalog := seeder.Products(5)
	var stop int32
	done := make(chan error, 1)
	go func() {
		for atomic.LoadInt32(&stop) == 0 {
			if err := orders.Create(seeder.Order(buyers, catalog)); err != nil {
				done <- fmt.Errorf("insert order: %w", err)
				return
			}
			time.Sleep(50 * time.Millisecond)
		}
		done <- nil
	}()

	received := 0
	for received < eventLimit && stream.Next(ctx) {
		var event struct {
			OperationType string     `bson:"operationType"`
			FullDocument  shop.Order `bson:"fullDocument"`
		}
		if err := stream.Decode(&event); err != nil {
			atomic.StoreInt32(&stop, 1)
			<-done
			return fmt.Errorf("decode change event: %w", err)
		}
		received++
		logger.Info().Str("operation", event.OperationType).
			Str("order", event.FullDocument.Number).
			Str("status", event.FullDocument.Status).
			Msg("Change event")
	}
	atomic.StoreInt32(&stop, 1)
	if err := <-done; err != nil {
		return err
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("change stream: %w", err)
	}

	logger.Info().Int("events", received).Msg("Change stream walkthrough complete")
	return nil
}
