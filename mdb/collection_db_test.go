//go:build database

package mdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/mongo-prep/shop"
)

type collectionTestSuite struct {
	AccessTestSuite
}

func TestCollectionSuite(t *testing.T) {
	suite.Run(t, new(collectionTestSuite))
}

func (suite *collectionTestSuite) TestCollection() {
	collection, err := suite.access.Collection(nil, "mdb-collection", "")
	suite.Require().NoError(err)
	suite.NotNil(collection)
}

func (suite *collectionTestSuite) TestCollectionValidator() {
	collection, err := suite.access.Collection(nil, "mdb-collection-validator", shop.UserValidatorJSON)
	suite.Require().NoError(err)
	suite.Require().NotNil(collection)
	suite.Require().NoError(collection.DeleteAll())
	suite.NoError(collection.Create(shop.NewSeeder(42).User()))
	err = collection.Create(bson.M{"name": "No Email", "age": 9})
	suite.Require().Error(err)
	suite.True(IsValidationFailure(err))
}

func (suite *collectionTestSuite) TestCollectionFinisher() {
	var finished bool
	collection, err := suite.access.Collection(
		nil, "mdb-collection-finisher", shop.UserValidatorJSON,
		func(access *Access, collection *Collection) error {
			access.Info("Running finisher")
			finished = true
			return nil
		})
	suite.Require().NoError(err)
	suite.NotNil(collection)
	suite.True(finished)
}

func (suite *collectionTestSuite) TestCollectionFinisherError() {
	collection, err := suite.access.Collection(
		nil, "mdb-collection-finisher-error", shop.UserValidatorJSON,
		func(access *Access, collection *Collection) error {
			return errors.New("fail")
		})
	suite.Error(err)
	suite.Nil(collection)
}

////////////////////////////////////////////////////////////////////////////////

func (suite *collectionTestSuite) TestCountDeleteAll() {
	collection := suite.ConnectCollection(testCollectionPlain)
	users := shop.NewSeeder(7).Users(5)
	documents := make([]interface{}, len(users))
	for i, user := range users {
		documents[i] = user
	}
	suite.Require().NoError(collection.CreateMany(documents))
	count, err := collection.Count(NoFilter())
	suite.Require().NoError(err)
	suite.Equal(int64(5), count)
	suite.Require().NoError(collection.Delete(users[0].Filter(), false))
	suite.Require().NoError(collection.Delete(users[0].Filter(), true))
	suite.Error(collection.Delete(users[0].Filter(), false))
	suite.Require().NoError(collection.DeleteAll())
	count, err = collection.Count(NoFilter())
	suite.Require().NoError(err)
	suite.Zero(count)
}

func (suite *collectionTestSuite) TestFindOrCreate() {
	collection := suite.ConnectCollection(testCollectionPlain)
	user := shop.NewSeeder(11).User()
	found, err := collection.Find(user.Filter())
	suite.Require().Error(err)
	suite.True(IsNotFound(err))
	suite.Nil(found)
	created, err := collection.FindOrCreate(user.Filter(), user)
	suite.Require().NoError(err)
	suite.NotNil(created)
	again, err := collection.FindOrCreate(user.Filter(), user)
	suite.Require().NoError(err)
	suite.Equal(created, again)
}

func (suite *collectionTestSuite) TestIterate() {
	collection := suite.ConnectCollection(testCollectionPlain)
	users := shop.NewSeeder(13).Users(4)
	for _, user := range users {
		suite.Require().NoError(collection.Create(user))
	}
	count := 0
	suite.Require().NoError(collection.Iterate(NoFilter(), func(item interface{}) error {
		count++
		return nil
	}))
	suite.Equal(len(users), count)
}

func (suite *collectionTestSuite) TestStringValuesFor() {
	collection := suite.ConnectCollection(testCollectionPlain)
	for _, city := range []string{"Austin", "Boston", "Austin", "Denver"} {
		suite.Require().NoError(collection.Create(bson.M{"city": city}))
	}
	cities, err := collection.StringValuesFor("city", nil)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"Austin", "Boston", "Denver"}, cities)
}

func (suite *collectionTestSuite) TestUpdate() {
	collection := suite.ConnectCollection(testCollectionPlain)
	user := shop.NewSeeder(17).User()
	suite.Require().NoError(collection.Create(user))
	suite.Require().NoError(collection.Update(user.Filter(), bson.M{"$set": bson.M{"city": "Utopia"}}))
	err := collection.Update(
		bson.D{{Key: "email", Value: "nobody@example.com"}},
		bson.M{"$set": bson.M{"city": "Nowhere"}})
	suite.Require().Error(err)
	suite.ErrorIs(err, errNoItemMatch)
}

func (suite *collectionTestSuite) TestReplace() {
	collection := suite.ConnectCollection(testCollectionPlain)
	user := shop.NewSeeder(19).User()
	suite.Require().NoError(collection.Create(user))
	user.City = "Yreka"
	suite.Require().NoError(collection.Replace(user.Filter(), user))
	found, err := collection.Find(user.Filter())
	suite.Require().NoError(err)
	suite.NotNil(found)
}
