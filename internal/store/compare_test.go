// internal/store/compare_test.go
package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/uzagro/storefront/internal/store/persist"
)

// failingPersister simulates an unavailable storage backend.
type failingPersister struct{}

func (failingPersister) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage unavailable")
}

func (failingPersister) Save(context.Context, string, []byte) error {
	return errors.New("storage unavailable")
}

type CompareTestSuite struct {
	suite.Suite
	persister *persist.Memory
	compare   *Compare
}

func (suite *CompareTestSuite) SetupTest() {
	suite.persister = persist.NewMemory()
	suite.compare = NewCompare(suite.persister, "")
}

func (suite *CompareTestSuite) TestAddItemCapacityBound() {
	for i := int64(1); i <= 4; i++ {
		suite.Equal(Added, suite.compare.AddItem(testProduct(i, usd(10))))
	}

	result := suite.compare.AddItem(testProduct(5, usd(10)))

	suite.Equal(CapacityExceeded, result)
	suite.Equal(4, suite.compare.Len())
	suite.False(suite.compare.Contains(5))
}

func (suite *CompareTestSuite) TestAddItemDedupIdempotent() {
	p := testProduct(1, usd(10))

	suite.Equal(Added, suite.compare.AddItem(p))
	suite.Equal(AlreadyPresent, suite.compare.AddItem(p))

	suite.Equal(1, suite.compare.Len())
}

func (suite *CompareTestSuite) TestOpenLifecycle() {
	suite.False(suite.compare.IsOpen())

	suite.compare.AddItem(testProduct(1, usd(10)))
	suite.True(suite.compare.IsOpen())

	suite.compare.RemoveItem(1)
	suite.False(suite.compare.IsOpen())
}

func (suite *CompareTestSuite) TestRemoveKeepsBarOpenWhileItemsRemain() {
	suite.compare.AddItem(testProduct(1, usd(10)))
	suite.compare.AddItem(testProduct(2, usd(10)))

	suite.compare.RemoveItem(1)

	suite.True(suite.compare.IsOpen())
	suite.Equal(1, suite.compare.Len())
}

func (suite *CompareTestSuite) TestRemoveItemAbsentIsNoop() {
	suite.compare.AddItem(testProduct(1, usd(10)))

	suite.compare.RemoveItem(99)

	suite.Equal(1, suite.compare.Len())
	suite.True(suite.compare.IsOpen())
}

func (suite *CompareTestSuite) TestClearClosesBar() {
	suite.compare.AddItem(testProduct(1, usd(10)))
	suite.compare.AddItem(testProduct(2, usd(10)))

	suite.compare.Clear()

	suite.Equal(0, suite.compare.Len())
	suite.False(suite.compare.IsOpen())
}

func (suite *CompareTestSuite) TestToggleSymmetry() {
	p := testProduct(1, usd(10))

	suite.Equal(Added, suite.compare.Toggle(p))
	suite.Equal(Removed, suite.compare.Toggle(p))

	suite.Equal(0, suite.compare.Len())
	suite.False(suite.compare.IsOpen())
}

func (suite *CompareTestSuite) TestToggleOpenExplicit() {
	suite.compare.ToggleOpen(true)
	suite.True(suite.compare.IsOpen())

	suite.compare.ToggleOpen()
	suite.False(suite.compare.IsOpen())
}

func (suite *CompareTestSuite) TestPersistenceRoundTrip() {
	suite.compare.AddItem(testProduct(1, usd(10)))
	suite.compare.AddItem(testProduct(2, usd(20)))

	reloaded := NewCompare(suite.persister, "")

	items := reloaded.Items()
	suite.Require().Len(items, 2)
	suite.Equal(int64(1), items[0].ID)
	suite.Equal(int64(2), items[1].ID)
	suite.False(reloaded.IsOpen())
}

func (suite *CompareTestSuite) TestRehydrateEnforcesCapacityAndDedup() {
	blob := `{"state":{"items":[` +
		`{"id":1},{"id":1},{"id":2},{"id":3},{"id":4},{"id":5}` +
		`]},"version":1}`
	err := suite.persister.Save(context.Background(), CompareStorageKey, []byte(blob))
	suite.Require().NoError(err)

	reloaded := NewCompare(suite.persister, "")

	suite.Equal(4, reloaded.Len())
	suite.True(reloaded.Contains(1))
	suite.False(reloaded.Contains(5))
}

func (suite *CompareTestSuite) TestRehydrateCorruptSnapshotStartsEmpty() {
	err := suite.persister.Save(context.Background(), CompareStorageKey, []byte("not json"))
	suite.Require().NoError(err)

	reloaded := NewCompare(suite.persister, "")

	suite.Equal(0, reloaded.Len())
}

func (suite *CompareTestSuite) TestSubscribeNotifiedOnMutations() {
	var calls int
	unsubscribe := suite.compare.Subscribe(func() { calls++ })
	defer unsubscribe()

	suite.compare.AddItem(testProduct(1, usd(10)))
	suite.compare.RemoveItem(1)
	suite.compare.ToggleOpen(true)

	suite.Equal(3, calls)
}

func (suite *CompareTestSuite) TestFailedAddDoesNotNotify() {
	for i := int64(1); i <= 4; i++ {
		suite.compare.AddItem(testProduct(i, usd(10)))
	}

	var calls int
	unsubscribe := suite.compare.Subscribe(func() { calls++ })
	defer unsubscribe()

	suite.compare.AddItem(testProduct(1, usd(10))) // duplicate
	suite.compare.AddItem(testProduct(9, usd(10))) // over capacity

	suite.Equal(0, calls)
}

func (suite *CompareTestSuite) TestSessionScopedKeysAreIsolated() {
	a := NewCompare(suite.persister, CompareStorageKey+":session-a")
	b := NewCompare(suite.persister, CompareStorageKey+":session-b")

	a.AddItem(testProduct(1, usd(10)))

	reloadedB := NewCompare(suite.persister, CompareStorageKey+":session-b")
	suite.Equal(0, b.Len())
	suite.Equal(0, reloadedB.Len())

	reloadedA := NewCompare(suite.persister, CompareStorageKey+":session-a")
	suite.Equal(1, reloadedA.Len())
}

func (suite *CompareTestSuite) TestContains() {
	suite.False(suite.compare.Contains(1))
	suite.compare.AddItem(testProduct(1, usd(10)))
	suite.True(suite.compare.Contains(1))
}

func TestCompareSuite(t *testing.T) {
	suite.Run(t, new(CompareTestSuite))
}
