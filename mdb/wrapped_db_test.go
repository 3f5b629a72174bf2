//go:build database

package mdb

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/mongo-prep/mdbson"
	"github.com/madkins23/mongo-prep/shop"
)

type wrappedTestSuite struct {
	AccessTestSuite
	orders *TypedCollection[shop.Order]
}

func TestWrappedSuite(t *testing.T) {
	suite.Run(t, new(wrappedTestSuite))
}

func (suite *wrappedTestSuite) SetupSuite() {
	suite.Require().NoError(shop.RegisterPaymentMethods())
	suite.AccessTestSuite.SetupSuite()
	suite.orders = ConnectTypedCollectionHelper[shop.Order](&suite.AccessTestSuite, testCollectionOrders)
}

func (suite *wrappedTestSuite) TearDownTest() {
	suite.NoError(suite.orders.DeleteAll())
}

func (suite *wrappedTestSuite) TestPaymentRoundTrip() {
	seeder := shop.NewSeeder(43)
	buyers := seeder.Users(3)
	catalog := seeder.Products(4)
	order := seeder.Order(buyers, catalog)
	suite.Require().NoError(suite.orders.Create(order))
	found, err := suite.orders.Find(order.Filter())
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.Require().NotNil(found.Payment)
	payment := found.Payment.Get()
	suite.Require().NotNil(payment)
	suite.Equal(order.Payment.Get().Kind(), payment.Kind())
	suite.Equal(order.Payment.Get().String(), payment.String())
	suite.Equal(order.TotalCents, found.TotalCents)
}

func (suite *wrappedTestSuite) TestPaymentKinds() {
	seeder := shop.NewSeeder(47)
	buyers := seeder.Users(2)
	catalog := seeder.Products(3)
	for _, payment := range []shop.PaymentMethod{
		&shop.CardPayment{Brand: "amex", Last4: "0005"},
		&shop.BankTransfer{Bank: "coastal-credit", Reference: "ref-77"},
		&shop.StoreCredit{Cents: 4200},
	} {
		order := seeder.Order(buyers, catalog)
		order.Payment = mdbson.Wrap[shop.PaymentMethod](payment)
		suite.Require().NoError(suite.orders.Create(order))
	}
	kinds := make(map[string]int)
	suite.Require().NoError(suite.orders.Iterate(NoFilter(), func(order *shop.Order) error {
		kinds[order.Payment.Get().Kind()]++
		return nil
	}))
	suite.Equal(map[string]int{"card": 1, "bank": 1, "credit": 1}, kinds)
}

////////////////////////////////////////////////////////////////////////////////

// wrappedPayments exercises wrappers nested in fields, arrays and maps.
type wrappedPayments struct {
	Label  string                                         `bson:"label"`
	Single *mdbson.Wrapper[shop.PaymentMethod]            `bson:"single"`
	Array  []*mdbson.Wrapper[shop.PaymentMethod]          `bson:"array"`
	Map    map[string]*mdbson.Wrapper[shop.PaymentMethod] `bson:"map"`
}

func (suite *wrappedTestSuite) TestWrappedShapes() {
	wrapped := ConnectTypedCollectionHelper[wrappedPayments](&suite.AccessTestSuite, testCollectionWrapped)
	payments := []*mdbson.Wrapper[shop.PaymentMethod]{
		mdbson.Wrap[shop.PaymentMethod](&shop.CardPayment{Brand: "visa", Last4: "4242"}),
		mdbson.Wrap[shop.PaymentMethod](&shop.BankTransfer{Bank: "hometown", Reference: "ref-12"}),
		mdbson.Wrap[shop.PaymentMethod](&shop.StoreCredit{Cents: 900}),
	}
	item := &wrappedPayments{
		Label:  "shapes",
		Single: payments[0],
		Array:  payments,
		Map:    make(map[string]*mdbson.Wrapper[shop.PaymentMethod], len(payments)),
	}
	for _, payment := range payments {
		item.Map[payment.Get().Kind()] = payment
	}
	suite.Require().NoError(wrapped.Create(item))
	found, err := wrapped.Find(bson.D{{Key: "label", Value: "shapes"}})
	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.Equal("card", found.Single.Get().Kind())
	suite.Require().Len(found.Array, len(payments))
	for i, payment := range payments {
		suite.Equal(payment.Get().String(), found.Array[i].Get().String())
	}
	suite.Require().Len(found.Map, len(payments))
	for kind, payment := range item.Map {
		suite.Require().Contains(found.Map, kind)
		suite.Equal(payment.Get().String(), found.Map[kind].Get().String())
	}
}
