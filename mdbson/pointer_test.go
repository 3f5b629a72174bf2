package mdbson

import (
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/madkins23/go-serial/pointer"
)

type PointerTestSuite struct {
	suite.Suite
	showSerialized bool
}

func (suite *PointerTestSuite) SetupSuite() {
	if showSerialized, found := os.LookupEnv("GO-TYPE-SHOW-SERIALIZED"); found {
		var err error
		suite.showSerialized, err = strconv.ParseBool(showSerialized)
		suite.Require().NoError(err)
	}
}

func (suite *PointerTestSuite) SetupTest() {
	pointer.ClearTargetCache()
	pointer.ClearFinderCache()
}

func TestPointerSuite(t *testing.T) {
	suite.Run(t, new(PointerTestSuite))
}

//////////////////////////////////////////////////////////////////////////

func (suite *PointerTestSuite) TestPointer() {
	ptr := Point[*Depot](depotEast)
	suite.Assert().Equal(depotEast, ptr.Get())
	ptr.Set(depotWest)
	suite.Assert().Equal(depotWest, ptr.Get())
}

// TestMarshalCycle checks resolution through the target cache.
// Marshaling fills the cache so no finder is required to read back.
func (suite *PointerTestSuite) TestMarshalCycle() {
	start := makeNetwork()
	marshaled, err := bson.Marshal(start)
	suite.Require().NoError(err)
	suite.Require().NotNil(marshaled)

	finish := new(network)
	suite.Require().NotNil(finish)
	suite.Require().NoError(bson.Unmarshal(marshaled, finish))
	if suite.showSerialized {
		fmt.Println("---------------------------")
		spew.Dump(finish)
	}

	suite.Require().Equal(start, finish)

	// Resolved targets are singletons out of the target cache.
	suite.True(start.Main.Get() == finish.Main.Get())
	for index, item := range start.Backup {
		suite.True(item.Get() == finish.Backup[index].Get())
	}
	for key, item := range start.ByCode {
		suite.True(item.Get() == finish.ByCode[key].Get())
	}
}

// TestFinder checks resolution through a registered finder
// after the target cache has been emptied.
func (suite *PointerTestSuite) TestFinder() {
	start := makeNetwork()
	marshaled, err := bson.Marshal(start)
	suite.Require().NoError(err)

	pointer.ClearTargetCache()
	finderCount := 0
	suite.Require().NoError(pointer.SetFinder("depots", func(key string) (pointer.Target, error) {
		finderCount++
		for _, depot := range allDepots {
			if depot.Code == key {
				return depot, nil
			}
		}
		return nil, fmt.Errorf("no depot '%s'", key)
	}, false))

	finish := new(network)
	suite.Require().NoError(bson.Unmarshal(marshaled, finish))
	suite.Require().Equal(start, finish)

	// One lookup per distinct target, repeats come from the rebuilt cache.
	suite.Assert().Equal(3, finderCount)
}

func (suite *PointerTestSuite) TestMissingTarget() {
	marshaled, err := bson.Marshal(bson.M{"group": "depots", "key": "XX"})
	suite.Require().NoError(err)
	ptr := new(Pointer[*Depot])
	err = bson.Unmarshal(marshaled, ptr)
	suite.Require().Error(err)
	suite.Assert().Contains(err.Error(), "get target")
}

func (suite *PointerTestSuite) TestEmptyGroup() {
	marshaled, err := bson.Marshal(bson.M{"group": "", "key": "E1"})
	suite.Require().NoError(err)
	ptr := new(Pointer[*Depot])
	err = bson.Unmarshal(marshaled, ptr)
	suite.Require().Error(err)
	suite.Assert().Contains(err.Error(), "empty group field")
}

//////////////////////////////////////////////////////////////////////////
// Fixtures: depots referenced by code from multiple places.

var _ pointer.Target = &Depot{}

type Depot struct {
	Code string
	City string
}

func (d *Depot) Group() string {
	return "depots"
}

func (d *Depot) Key() string {
	return d.Code
}

var (
	depotEast  = &Depot{Code: "E1", City: "Boston"}
	depotWest  = &Depot{Code: "W1", City: "Portland"}
	depotSouth = &Depot{Code: "S1", City: "Austin"}
	allDepots  = []*Depot{depotEast, depotWest, depotSouth}
)

type network struct {
	Main   *Pointer[*Depot]
	Backup []*Pointer[*Depot]
	ByCode map[string]*Pointer[*Depot]
}

func makeNetwork() *network {
	return &network{
		Main: Point[*Depot](depotEast),
		Backup: []*Pointer[*Depot]{
			Point[*Depot](depotWest),
			Point[*Depot](depotSouth),
		},
		ByCode: map[string]*Pointer[*Depot]{
			depotEast.Code: Point[*Depot](depotEast),
			depotWest.Code: Point[*Depot](depotWest),
		},
	}
}
