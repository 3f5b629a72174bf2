//go:build database

package mdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/madkins23/mongo-prep/shop"
)

type cacheTestSuite struct {
	AccessTestSuite
	cached *CachedCollection[*shop.Category]
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(cacheTestSuite))
}

func (suite *cacheTestSuite) SetupSuite() {
	suite.AccessTestSuite.SetupSuite()
	suite.cached = ConnectCachedCollectionHelper[*shop.Category](
		&suite.AccessTestSuite, testCollectionCategories, time.Hour)
}

func (suite *cacheTestSuite) SetupTest() {
	for _, category := range shop.Categories() {
		suite.Require().NoError(suite.cached.Create(category))
	}
}

func (suite *cacheTestSuite) TearDownTest() {
	suite.cached.InvalidateByPrefix("")
	suite.NoError(suite.cached.DeleteAll())
}

func (suite *cacheTestSuite) TestFindNone() {
	item, err := suite.cached.Find(&shop.CategoryKey{Slug: "no-such"})
	suite.Require().Error(err)
	suite.True(IsNotFound(err))
	suite.Nil(item)
}

func (suite *cacheTestSuite) TestFindCachesInstance() {
	first, err := suite.cached.Find(&shop.CategoryKey{Slug: "books"})
	suite.Require().NoError(err)
	suite.Require().NotNil(first)
	suite.True(first.Realized)
	_, ok := suite.cached.cache["books"]
	suite.True(ok)
	second, err := suite.cached.Find(&shop.CategoryKey{Slug: "books"})
	suite.Require().NoError(err)
	suite.True(first == second)
}

func (suite *cacheTestSuite) TestDeleteClearsCache() {
	item, err := suite.cached.Find(&shop.CategoryKey{Slug: "games"})
	suite.Require().NoError(err)
	suite.Require().NotNil(item)
	suite.Require().NoError(suite.cached.Delete(item, false))
	_, ok := suite.cached.cache["games"]
	suite.False(ok)
	gone, err := suite.cached.Find(&shop.CategoryKey{Slug: "games"})
	suite.Require().Error(err)
	suite.True(IsNotFound(err))
	suite.Nil(gone)
	suite.Error(suite.cached.Delete(item, false))
	suite.NoError(suite.cached.Delete(item, true))
}

func (suite *cacheTestSuite) TestFindOrCreate() {
	brandNew := &shop.Category{Slug: "vintage", Name: "Vintage", Description: "Old things"}
	item, err := suite.cached.Find(brandNew)
	suite.Require().Error(err)
	suite.True(IsNotFound(err))
	suite.Nil(item)
	item, err = suite.cached.FindOrCreate(brandNew)
	suite.Require().NoError(err)
	suite.Require().NotNil(item)
	suite.True(item.Realized)
	again, err := suite.cached.FindOrCreate(brandNew)
	suite.Require().NoError(err)
	suite.True(item == again)
}

func (suite *cacheTestSuite) TestExpired() {
	// A second cache over the same collection with a tiny expiry.
	quick := NewCachedCollection[*shop.Category](&suite.cached.Collection, time.Millisecond)
	first, err := quick.Find(&shop.CategoryKey{Slug: "tools"})
	suite.Require().NoError(err)
	suite.Require().NotNil(first)
	time.Sleep(5 * time.Millisecond)
	second, err := quick.Find(&shop.CategoryKey{Slug: "tools"})
	suite.Require().NoError(err)
	suite.Require().NotNil(second)
	suite.False(first == second)
}

func (suite *cacheTestSuite) TestInvalidateByPrefix() {
	_, err := suite.cached.Find(&shop.CategoryKey{Slug: "books"})
	suite.Require().NoError(err)
	_, err = suite.cached.Find(&shop.CategoryKey{Slug: "garden"})
	suite.Require().NoError(err)
	suite.cached.InvalidateByPrefix("b")
	_, ok := suite.cached.cache["books"]
	suite.False(ok)
	_, ok = suite.cached.cache["garden"]
	suite.True(ok)
}
