package demo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/madkins23/mongo-prep/mdb"
	"github.com/madkins23/mongo-prep/shop"
)

// Row types decoded from the aggregation pipelines.
// Pipeline output rarely matches the stored document type.

type statusTotal struct {
	Status  string `bson:"_id"`
	Orders  int64  `bson:"orders"`
	Revenue int64  `bson:"revenue"`
}

type productSales struct {
	SKU     string `bson:"_id"`
	Name    string `bson:"name"`
	Sold    int64  `bson:"sold"`
	Revenue int64  `bson:"revenue"`
}

type orderLine struct {
	Number   string `bson:"number"`
	SKU      string `bson:"sku"`
	Category string `bson:"category"`
	Quantity int64  `bson:"quantity"`
	Stock    int64  `bson:"stock"`
}

type revenueBucket struct {
	// Bound is the lower bucket boundary or the default bucket label.
	Bound   interface{} `bson:"_id"`
	Orders  int64       `bson:"orders"`
	Revenue int64       `bson:"revenue"`
}

type productRating struct {
	SKU   string  `bson:"_id"`
	Count int64   `bson:"count"`
	Mean  float64 `bson:"mean"`
}

////////////////////////////////////////////////////////////////////////////////

// statusTotalsPipeline groups orders by status, summing count and revenue.
func statusTotalsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "total_cents", Value: bson.D{{Key: "$gt", Value: 0}}}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total_cents"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
	}
}

// topProductsPipeline unwinds order items and ranks products by units sold.
func topProductsPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$items.sku"},
			{Key: "name", Value: bson.D{{Key: "$first", Value: "$items.name"}}},
			{Key: "sold", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$multiply", Value: bson.A{"$items.unit_cents", "$items.quantity"}},
			}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "sold", Value: -1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}
}

// lookupProductsPipeline joins order items to the product catalog collection.
func lookupProductsPipeline(productsCollection string, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: productsCollection},
			{Key: "localField", Value: "items.sku"},
			{Key: "foreignField", Value: "sku"},
			{Key: "as", Value: "product"},
		}}},
		bson.D{{Key: "$unwind", Value: "$product"}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "number", Value: 1},
			{Key: "sku", Value: "$items.sku"},
			{Key: "category", Value: "$product.category"},
			{Key: "quantity", Value: "$items.quantity"},
			{Key: "stock", Value: "$product.stock"},
		}}},
		bson.D{{Key: "$limit", Value: limit}},
	}
}

// revenueBucketsPipeline sorts orders into fixed revenue brackets.
func revenueBucketsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$bucket", Value: bson.D{
			{Key: "groupBy", Value: "$total_cents"},
			{Key: "boundaries", Value: bson.A{0, 2500, 10000, 50000}},
			{Key: "default", Value: "larger"},
			{Key: "output", Value: bson.D{
				{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$total_cents"}}},
			}},
		}}},
	}
}

// ratingAveragesPipeline averages review ratings per product.
func ratingAveragesPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$sku"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "mean", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "mean", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

////////////////////////////////////////////////////////////////////////////////

// runAggregate seeds orders, products and reviews
// and walks through the aggregation pipelines above.
func (r *Runner) runAggregate() error {
	logger := r.demoLogger("aggregate")
	logger.Info().Msg("Aggregation pipeline walkthrough")

	if err := shop.RegisterPaymentMethods(); err != nil {
		return fmt.Errorf("register payment methods: %w", err)
	}

	orders, err := mdb.ConnectTypedCollection[shop.Order](r.access,
		&mdb.CollectionDefinition{Name: "agg-orders"})
	if err != nil {
		return fmt.Errorf("connect orders collection: %w", err)
	}
	products, err := mdb.ConnectTypedCollection[shop.Product](r.access,
		&mdb.CollectionDefinition{Name: "agg-products"})
	if err != nil {
		return fmt.Errorf("connect products collection: %w", err)
	}
	reviews, err := mdb.ConnectTypedCollection[shop.Review](r.access,
		&mdb.CollectionDefinition{Name: "agg-reviews"})
	if err != nil {
		return fmt.Errorf("connect reviews collection: %w", err)
	}
	defer r.dropUnlessKept(logger, &orders.Collection, &products.Collection, &reviews.Collection)
	for _, collection := range []*mdb.Collection{&orders.Collection, &products.Collection, &reviews.Collection} {
		if err := collection.DeleteAll(); err != nil {
			return fmt.Errorf("clear collection %s: %w", collection.Name(), err)
		}
	}

	seeder := shop.NewSeeder(r.options.Seed)
	buyers := seeder.Users(25)
	catalog := seeder.Products(15)
	orderData := seeder.Orders(120, buyers, catalog)
	reviewData := seeder.Reviews(80, buyers, catalog)
	if err := products.CreateMany(asDocuments(catalog)); err != nil {
		return fmt.Errorf("insert products: %w", err)
	}
	if err := orders.CreateMany(asDocuments(orderData)); err != nil {
		return fmt.Errorf("insert orders: %w", err)
	}
	if err := reviews.CreateMany(asDocuments(reviewData)); err != nil {
		return fmt.Errorf("insert reviews: %w", err)
	}
	logger.Info().Int("orders", len(orderData)).Int("products", len(catalog)).Int("reviews", len(reviewData)).
		Msg("Seeded collections")

	// Revenue and order count per status: $match, $group, $sort.
	totals, err := mdb.Aggregate[statusTotal](&orders.Collection, statusTotalsPipeline())
	if err != nil {
		return fmt.Errorf("status totals: %w", err)
	}
	for _, row := range totals {
		logger.Info().Str("status", row.Status).Int64("orders", row.Orders).Int64("revenueCents", row.Revenue).
			Msg("Status total")
	}

	// Best sellers: $unwind the line items, $group per SKU, $sort, $limit.
	top, err := mdb.Aggregate[productSales](&orders.Collection, topProductsPipeline(5))
	if err != nil {
		return fmt.Errorf("top products: %w", err)
	}
	for _, row := range top {
		logger.Info().Str("sku", row.SKU).Str("name", row.Name).Int64("sold", row.Sold).
			Int64("revenueCents", row.Revenue).Msg("Top product")
	}

	// Join order lines to the catalog: $lookup, $unwind, $project.
	lines, err := mdb.Aggregate[orderLine](&orders.Collection, lookupProductsPipeline(products.Name(), 5))
	if err != nil {
		return fmt.Errorf("lookup products: %w", err)
	}
	for _, row := range lines {
		logger.Info().Str("order", row.Number).Str("sku", row.SKU).Str("category", row.Category).
			Int64("quantity", row.Quantity).Int64("stock", row.Stock).Msg("Order line joined to catalog")
	}

	// Order value distribution: $bucket.
	buckets, err := mdb.Aggregate[revenueBucket](&orders.Collection, revenueBucketsPipeline())
	if err != nil {
		return fmt.Errorf("revenue buckets: %w", err)
	}
	for _, row := range buckets {
		logger.Info().Interface("bound", row.Bound).Int64("orders", row.Orders).Int64("revenueCents", row.Revenue).
			Msg("Revenue bucket")
	}

	// Average review score per product: $group with $avg.
	ratings, err := mdb.Aggregate[productRating](&reviews.Collection, ratingAveragesPipeline())
	if err != nil {
		return fmt.Errorf("rating averages: %w", err)
	}
	shown := ratings
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, row := range shown {
		logger.Info().Str("sku", row.SKU).Int64("reviews", row.Count).Float64("mean", row.Mean).
			Msg("Product rating")
	}

	logger.Info().Msg("Aggregation walkthrough complete")
	return nil
}
