package demo

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/go-serial/pointer"

	"github.com/madkins23/mongo-prep/mdb"
	"github.com/madkins23/mongo-prep/mdbson"
	"github.com/madkins23/mongo-prep/shop"
)

// runModeling walks through the schema modeling patterns:
// client-side vs server-side validation, unique indexes,
// cached rarely-changing data, polymorphic payment documents
// and cart lines that reference products instead of embedding them.
func (r *Runner) runModeling() error {
	logger := r.demoLogger("modeling")
	logger.Info().Msg("Schema modeling walkthrough")

	if err := shop.RegisterPaymentMethods(); err != nil {
		return fmt.Errorf("register payment methods: %w", err)
	}
	// Pointer caches are process globals, leave them clean for other demos.
	defer func() {
		pointer.ClearTargetCache()
		pointer.ClearFinderCache()
	}()

	users, err := mdb.ConnectTypedCollection[shop.User](r.access, &mdb.CollectionDefinition{
		Name:           "model-users",
		ValidationJSON: shop.UserValidatorJSON,
	})
	if err != nil {
		return fmt.Errorf("connect users collection: %w", err)
	}
	products, err := mdb.ConnectTypedCollection[shop.Product](r.access, &mdb.CollectionDefinition{
		Name:           "model-products",
		ValidationJSON: shop.ProductValidatorJSON,
		Finishers: []mdb.CollectionFinisher{
			mdb.NewIndexDescription(true, "sku").Finisher(),
		},
	})
	if err != nil {
		return fmt.Errorf("connect products collection: %w", err)
	}
	orders, err := mdb.ConnectTypedCollection[shop.Order](r.access,
		&mdb.CollectionDefinition{Name: "model-orders"})
	if err != nil {
		return fmt.Errorf("connect orders collection: %w", err)
	}
	carts, err := mdb.ConnectTypedCollection[shop.Cart](r.access,
		&mdb.CollectionDefinition{Name: "model-carts"})
	if err != nil {
		return fmt.Errorf("connect carts collection: %w", err)
	}
	categoryCollection, err := mdb.ConnectCollection(r.access,
		&mdb.CollectionDefinition{Name: "model-categories"})
	if err != nil {
		return fmt.Errorf("connect categories collection: %w", err)
	}
	categories := mdb.NewCachedCollection[*shop.Category](categoryCollection, time.Minute)

	defer r.dropUnlessKept(logger,
		&users.Collection, &products.Collection, &orders.Collection, &carts.Collection, &categories.Collection)
	for _, collection := range []*mdb.Collection{
		&users.Collection, &products.Collection, &orders.Collection, &carts.Collection, &categories.Collection,
	} {
		if err := collection.DeleteAll(); err != nil {
			return fmt.Errorf("clear collection %s: %w", collection.Name(), err)
		}
	}

	seeder := shop.NewSeeder(r.options.Seed)

	// Validation happens twice: struct tags before the insert,
	// the collection $jsonSchema on the server behind it.
	bad := seeder.User()
	bad.Email = "not-an-email"
	if err := shop.Validate(bad); err == nil {
		return errors.New("expected client-side validation failure")
	} else {
		logger.Info().Err(err).Msg("Client-side validation rejected bad email")
	}

	good := seeder.User()
	if err := shop.Validate(good); err != nil {
		return fmt.Errorf("validate user: %w", err)
	}
	if err := users.Create(good); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	logger.Info().Str("email", good.Email).Msg("Validated user stored")

	if err := users.Create(bson.M{"name": "Bypass", "age": 7}); !mdb.IsValidationFailure(err) {
		return fmt.Errorf("expected server validation error, got: %v", err)
	}
	logger.Info().Msg("Server validator caught insert that bypassed struct checks")

	// A unique index turns duplicate business keys into errors.
	item := seeder.Product()
	if err := products.Create(item); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if err := products.Create(item); !mdb.IsDuplicate(err) {
		return fmt.Errorf("expected duplicate key error, got: %v", err)
	}
	logger.Info().Str("sku", item.SKU).Msg("Unique index rejected duplicate SKU")

	// Rarely-changing categories served from an in-process cache.
	for _, category := range shop.Categories() {
		if err := categories.Create(category); err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
	}
	booksKey := &shop.CategoryKey{Slug: "books"}
	fromDB, err := categories.Find(booksKey)
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}
	fromCache, err := categories.Find(booksKey)
	if err != nil {
		return fmt.Errorf("find category again: %w", err)
	}
	logger.Info().Str("category", fromDB.Name).Bool("sameInstance", fromDB == fromCache).
		Msg("Second category read served from cache")

	categories.InvalidateByPrefix("b")
	reread, err := categories.Find(booksKey)
	if err != nil {
		return fmt.Errorf("find category after invalidate: %w", err)
	}
	logger.Info().Bool("sameInstance", fromDB == reread).
		Msg("Invalidated entry re-read from database")

	// Polymorphic payments: the wrapper stores the concrete type with the data.
	buyers := seeder.Users(3)
	payments := []shop.PaymentMethod{
		&shop.CardPayment{Brand: "visa", Last4: "4242"},
		&shop.BankTransfer{Bank: "first-national", Reference: "ref-1001"},
		&shop.StoreCredit{Cents: 1500},
	}
	catalog := seeder.Products(4)
	for _, payment := range payments {
		order := seeder.Order(buyers, catalog)
		order.Payment = mdbson.Wrap[shop.PaymentMethod](payment)
		if err := orders.Create(order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
	}
	stored, err := orders.FindAll(mdb.NoFilter())
	if err != nil {
		return fmt.Errorf("find orders: %w", err)
	}
	for _, order := range stored {
		payment := order.Payment.Get()
		logger.Info().Str("order", order.Number).Str("kind", payment.Kind()).
			Stringer("payment", payment).Msg("Payment came back with its concrete type")
	}

	// Carts reference products by group and key.
	// Reading a cart resolves the references, here through a finder
	// backed by the products collection after the cache went cold.
	if err := products.CreateMany(asDocuments(catalog)); err != nil {
		return fmt.Errorf("insert catalog: %w", err)
	}
	cart := seeder.Cart(buyers[0], catalog)
	if err := carts.Create(cart); err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}

	pointer.ClearTargetCache()
	if err := pointer.SetFinder(shop.ProductGroup, func(key string) (pointer.Target, error) {
		logger.Info().Str("sku", key).Msg("Finder fetching product from database")
		found, err := products.Find(bson.D{{Key: "sku", Value: key}})
		if err != nil {
			return nil, fmt.Errorf("find product %s: %w", key, err)
		}
		return found, nil
	}, true); err != nil {
		return fmt.Errorf("set product finder: %w", err)
	}

	populated, err := carts.Find(cart.Filter())
	if err != nil {
		return fmt.Errorf("find cart: %w", err)
	}
	for _, line := range populated.Lines {
		product := line.Product.Get()
		logger.Info().Str("sku", product.SKU).Str("name", product.Name).Int("quantity", line.Quantity).
			Msg("Cart line resolved to product")
	}
	logger.Info().Int64("totalCents", populated.TotalCents()).
		Msg("Cart priced from resolved references")

	logger.Info().Msg("Modeling walkthrough complete")
	return nil
}
