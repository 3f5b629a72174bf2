package demo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/madkins23/mongo-prep/mdb"
	"github.com/madkins23/mongo-prep/shop"
)

// runCrud walks through the basic driver operations on a user collection:
// inserts, filtered finds, projection and paging, counts, distinct values,
// update operators, replacement and deletes.
func (r *Runner) runCrud() error {
	logger := r.demoLogger("crud")
	logger.Info().Msg("Basic CRUD walkthrough")

	users, err := mdb.ConnectTypedCollection[shop.User](r.access, &mdb.CollectionDefinition{
		Name:           "crud-users",
		ValidationJSON: shop.UserValidatorJSON,
		Finishers: []mdb.CollectionFinisher{
			mdb.NewIndexDescription(true, "email").Finisher(),
		},
	})
	if err != nil {
		return fmt.Errorf("connect users collection: %w", err)
	}
	defer r.dropUnlessKept(logger, &users.Collection)
	if err := users.DeleteAll(); err != nil {
		return fmt.Errorf("clear users collection: %w", err)
	}

	seeder := shop.NewSeeder(r.options.Seed)

	// Insert one document, then a batch.
	first := seeder.User()
	if err := users.Create(first); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	logger.Info().Str("email", first.Email).Msg("Inserted single user")

	batch := seeder.Users(24)
	if err := users.CreateMany(asDocuments(batch)); err != nil {
		return fmt.Errorf("insert user batch: %w", err)
	}
	logger.Info().Int("count", len(batch)).Msg("Inserted user batch")

	// Equality, $in, range and regex filters.
	found, err := users.Find(first.Filter())
	if err != nil {
		return fmt.Errorf("find by email: %w", err)
	}
	logger.Info().Str("name", found.Name).Str("city", found.City).Msg("Found by email")

	inCities, err := users.FindAll(bson.D{{Key: "city", Value: bson.D{{Key: "$in", Value: bson.A{"Boston", "Denver"}}}}})
	if err != nil {
		return fmt.Errorf("find by city list: %w", err)
	}
	thirties, err := users.FindAll(bson.D{{Key: "age", Value: bson.D{{Key: "$gte", Value: 30}, {Key: "$lt", Value: 40}}}})
	if err != nil {
		return fmt.Errorf("find by age range: %w", err)
	}
	aNames, err := users.FindAll(bson.D{{Key: "name", Value: bson.D{{Key: "$regex", Value: "^A"}}}})
	if err != nil {
		return fmt.Errorf("find by name prefix: %w", err)
	}
	logger.Info().
		Int("cityList", len(inCities)).
		Int("ageRange", len(thirties)).
		Int("namePrefix", len(aNames)).
		Msg("Filtered queries")

	// Projection with sort, limit and skip.
	page, err := users.FindAll(mdb.NoFilter(), options.Find().
		SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "email", Value: 1}, {Key: "age", Value: 1}}).
		SetSort(bson.D{{Key: "age", Value: -1}}).
		SetSkip(5).
		SetLimit(5))
	if err != nil {
		return fmt.Errorf("find page: %w", err)
	}
	if len(page) > 0 {
		logger.Info().Int("size", len(page)).Str("top", page[0].Name).Int("age", page[0].Age).
			Msg("Projected page sorted by age")
	}

	// Counts and distinct values.
	total, err := users.Count(mdb.NoFilter())
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	active, err := users.Count(bson.D{{Key: "active", Value: true}})
	if err != nil {
		return fmt.Errorf("count active users: %w", err)
	}
	cities, err := users.StringValuesFor("city", nil)
	if err != nil {
		return fmt.Errorf("distinct cities: %w", err)
	}
	logger.Info().Int64("total", total).Int64("active", active).Strs("cities", cities).
		Msg("Counts and distinct cities")

	// Update operators on a single document.
	if err := users.Update(first.Filter(), bson.D{
		{Key: "$set", Value: bson.D{{Key: "city", Value: "Madison"}}},
		{Key: "$inc", Value: bson.D{{Key: "age", Value: 1}}},
		{Key: "$currentDate", Value: bson.D{{Key: "joined", Value: true}}},
	}); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	updated, err := users.Find(first.Filter())
	if err != nil {
		return fmt.Errorf("find updated user: %w", err)
	}
	logger.Info().Str("city", updated.City).Int("age", updated.Age).Msg("Updated single user")

	// Update many in one call.
	result, err := users.UpdateMany(users.Context(),
		bson.D{{Key: "active", Value: false}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "tags", Value: bson.A{"lapsed"}}}}})
	if err != nil {
		return fmt.Errorf("update many: %w", err)
	}
	logger.Info().Int64("matched", result.MatchedCount).Int64("modified", result.ModifiedCount).
		Msg("Tagged inactive users")

	// Replace the whole document.
	// Clear the ID so the update does not touch the immutable _id field.
	updated.ObjectID = primitive.NilObjectID
	updated.City = "Savannah"
	updated.Tags = nil
	if err := users.Replace(first.Filter(), updated); err != nil {
		return fmt.Errorf("replace user: %w", err)
	}
	logger.Info().Str("email", updated.Email).Msg("Replaced user document")

	// Find or create is idempotent.
	extra := seeder.User()
	if _, err := users.FindOrCreate(extra.Filter(), extra); err != nil {
		return fmt.Errorf("find or create: %w", err)
	}
	if _, err := users.FindOrCreate(extra.Filter(), extra); err != nil {
		return fmt.Errorf("find or create again: %w", err)
	}
	logger.Info().Str("email", extra.Email).Msg("Find-or-create ran twice, one document")

	// Expected failures surface through the error predicates.
	if err := users.Create(first); !mdb.IsDuplicate(err) {
		return fmt.Errorf("expected duplicate key error, got: %v", err)
	}
	logger.Info().Msg("Unique index rejected duplicate email")

	if err := users.Create(bson.M{"name": "No Email", "age": 9}); !mdb.IsValidationFailure(err) {
		return fmt.Errorf("expected validation error, got: %v", err)
	}
	logger.Info().Msg("Collection validator rejected incomplete document")

	// Delete one, repeat idempotently, then delete everything.
	if err := users.Delete(extra.Filter(), false); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err := users.Delete(extra.Filter(), true); err != nil {
		return fmt.Errorf("idempotent delete: %w", err)
	}
	if err := users.DeleteAll(); err != nil {
		return fmt.Errorf("delete all users: %w", err)
	}
	remaining, err := users.Count(mdb.NoFilter())
	if err != nil {
		return fmt.Errorf("count after delete: %w", err)
	}
	logger.Info().Int64("remaining", remaining).Msg("CRUD walkthrough complete")

	return nil
}
