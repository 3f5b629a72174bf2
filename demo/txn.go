package demo

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/madkins23/mongo-prep/mdb"
	"github.com/madkins23/mongo-prep/mdbson"
	"github.com/madkins23/mongo-prep/shop"
)

var errInsufficientStock = errors.New("insufficient stock")

// fixedStock is the starting stock for every product in the transaction demo.
const fixedStock = 10

// runTxn walks through a checkout that decrements stock and inserts
// the order inside one multi-document transaction.
// Requires a replica set, standalone servers log the restriction and skip.
func (r *Runner) runTxn() error {
	logger := r.demoLogger("txn")
	logger.Info().Msg("Transaction walkthrough")

	if err := shop.RegisterPaymentMethods(); err != nil {
		return fmt.Errorf("register payment methods: %w", err)
	}

	products, err := mdb.ConnectTypedCollection[shop.Product](r.access,
		&mdb.CollectionDefinition{Name: "txn-products"})
	if err != nil {
		return fmt.Errorf("connect products collection: %w", err)
	}
	orders, err := mdb.ConnectTypedCollection[shop.Order](r.access,
		&mdb.CollectionDefinition{Name: "txn-orders"})
	if err != nil {
		return fmt.Errorf("connect orders collection: %w", err)
	}
	defer r.dropUnlessKept(logger, &products.Collection, &orders.Collection)
	for _, collection := range []*mdb.Collection{&products.Collection, &orders.Collection} {
		if err := collection.DeleteAll(); err != nil {
			return fmt.Errorf("clear collection %s: %w", collection.Name(), err)
		}
	}

	seeder := shop.NewSeeder(r.options.Seed)
	catalog := seeder.Products(5)
	for _, item := range catalog {
		item.Stock = fixedStock
	}
	if err := products.CreateMany(asDocuments(catalog)); err != nil {
		return fmt.Errorf("insert products: %w", err)
	}
	buyer := seeder.User()
	pick := catalog[0]

	err = r.checkout(logger, products, orders, buyer.Email, pick.SKU, 3)
	if mdb.IsReplicaSetRequired(err) {
		logger.Warn().Msg("Transactions require a replica set, skipping demo")
		return nil
	} else if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	refreshed, err := products.Find(pick.Filter())
	if err != nil {
		return fmt.Errorf("find product: %w", err)
	}
	count, err := orders.Count(mdb.NoFilter())
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	logger.Info().Int("stockBefore", fixedStock).Int("stockAfter", refreshed.Stock).
		Int64("orders", count).Msg("Checkout committed")

	// Overselling aborts, leaving stock and orders untouched.
	err = r.checkout(logger, products, orders, buyer.Email, pick.SKU, fixedStock*10)
	if !errors.Is(err, errInsufficientStock) {
		return fmt.Errorf("expected insufficient stock, got: %v", err)
	}
	refreshed, err = products.Find(pick.Filter())
	if err != nil {
		return fmt.Errorf("find product after abort: %w", err)
	}
	count, err = orders.Count(mdb.NoFilter())
	if err != nil {
		return fmt.Errorf("count orders after abort: %w", err)
	}
	logger.Info().Int("stock", refreshed.Stock).Int64("orders", count).
		Msg("Oversell aborted, nothing changed")

	logger.Info().Msg("Transaction walkthrough complete")
	return nil
}

// checkout runs the checkout transaction in a session.
// The whole transaction retries on transient errors.
func (r *Runner) checkout(logger zerolog.Logger,
	products *mdb.TypedCollection[shop.Product], orders *mdb.TypedCollection[shop.Order],
	email, sku string, quantity int) error {
	ctx, cancel := r.access.ContextWithTimeout(30 * time.Second)
	defer cancel()

	return r.access.Client().UseSessionWithOptions(ctx,
		options.Session().SetDefaultReadPreference(readpref.Primary()),
		func(sctx mongo.SessionContext) error {
			for {
				err := checkoutTxn(sctx, products, orders, email, sku, quantity)
				if err == nil {
					return nil
				}
				if mdb.IsTransientTransaction(err) {
					logger.Info().Msg("Transient transaction error, retrying from the start")
					continue
				}
				return err
			}
		})
}

// checkoutTxn performs one attempt of the checkout transaction.
// The commit itself retries while its outcome is unknown.
func checkoutTxn(sctx mongo.SessionContext,
	products *mdb.TypedCollection[shop.Product], orders *mdb.TypedCollection[shop.Order],
	email, sku string, quantity int) error {
	if err := sctx.StartTransaction(options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.New(writeconcern.WMajority())),
	); err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}

	result, err := products.UpdateOne(sctx,
		bson.D{{Key: "sku", Value: sku}, {Key: "stock", Value: bson.D{{Key: "$gte", Value: quantity}}}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "stock", Value: -quantity}}}})
	if err != nil {
		_ = sctx.AbortTransaction(sctx)
		return fmt.Errorf("decrement stock: %w", err)
	}
	if result.MatchedCount == 0 {
		_ = sctx.AbortTransaction(sctx)
		return errInsufficientStock
	}

	var product shop.Product
	if err := products.FindOne(sctx, bson.D{{Key: "sku", Value: sku}}).Decode(&product); err != nil {
		_ = sctx.AbortTransaction(sctx)
		return fmt.Errorf("read product: %w", err)
	}

	order := &shop.Order{
		Number: uuid.NewString(),
		Email:  email,
		Status: shop.StatusPaid,
		Items: []shop.OrderItem{{
			SKU:       sku,
			Name:      product.Name,
			UnitCents: product.PriceCents,
			Quantity:  quantity,
		}},
		Placed:  time.Now().UTC(),
		Payment: mdbson.Wrap[shop.PaymentMethod](&shop.CardPayment{Brand: "visa", Last4: "4242"}),
	}
	order.TotalCents = order.Total()
	if _, err := orders.InsertOne(sctx, order); err != nil {
		_ = sctx.AbortTransaction(sctx)
		return fmt.Errorf("insert order: %w", err)
	}

	for {
		err := sctx.CommitTransaction(sctx)
		if err == nil {
			return nil
		}
		if mdb.IsUnknownCommit(err) {
			continue
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
}
