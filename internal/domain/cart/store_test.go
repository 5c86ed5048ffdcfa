// internal/domain/cart/store_test.go
package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewStore(client, logger), mr
}

func TestGetReturnsEmptyCartWhenMissing(t *testing.T) {
	store, _ := newTestStore(t)

	c, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.UserID)
	assert.Empty(t, c.Lines)
	assert.Equal(t, uint64(0), c.Revision)
	assert.Equal(t, int64(0), c.Total())
}

func TestGetTreatsCorruptRecordAsEmpty(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set("cart:user:user-1", "{not json")

	c, err := store.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestAddMergesByProductID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, "user-1", Line{ProductID: "prod-a", Name: "후드 집업", UnitPrice: 1000, Quantity: 2})
	require.NoError(t, err)

	c, err := store.Add(ctx, "user-1", Line{ProductID: "prod-a", Name: "후드 집업", UnitPrice: 1000, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, int64(5000), c.Total())
	assert.Equal(t, uint64(2), c.Revision)
}

func TestAddAppendsDistinctProducts(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, "user-1", Line{ProductID: "prod-a", UnitPrice: 1000, Quantity: 2})
	require.NoError(t, err)
	c, err := store.Add(ctx, "user-1", Line{ProductID: "prod-b", UnitPrice: 500, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, c.Lines, 2)
	assert.Equal(t, int64(2500), c.Total())
	assert.Equal(t, 3, c.Count())
}

func TestUpdateQuantityBelowOneIsNoOp(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, "user-1", Line{ProductID: "prod-a", UnitPrice: 1000, Quantity: 2})
	require.NoError(t, err)

	c, err := store.UpdateQuantity(ctx, "user-1", "prod-a", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, uint64(1), c.Revision)
}

func TestUpdateQuantityUnknownProduct(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.UpdateQuantity(context.Background(), "user-1", "prod-missing", 3)
	assert.Error(t, err)
}

func TestRemoveDeletesLine(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, "user-1", Line{ProductID: "prod-a", UnitPrice: 1000, Quantity: 2})
	require.NoError(t, err)
	_, err = store.Add(ctx, "user-1", Line{ProductID: "prod-b", UnitPrice: 500, Quantity: 1})
	require.NoError(t, err)

	c, err := store.Remove(ctx, "user-1", "prod-a")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "prod-b", c.Lines[0].ProductID)
}

func TestLastWriteWinsAcrossSaves(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, "user-1", Line{ProductID: "prod-a", UnitPrice: 1000, Quantity: 1})
	require.NoError(t, err)
	_, err = store.UpdateQuantity(ctx, "user-1", "prod-a", 7)
	require.NoError(t, err)

	c, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 7, c.Lines[0].Quantity)
	assert.Equal(t, uint64(2), c.Revision)
}

func TestBuyNowRoundTripAndClear(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetBuyNow(ctx, "user-1", Line{ProductID: "prod-a", UnitPrice: 9000, Quantity: 0}))

	line, err := store.BuyNow(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, line)
	assert.Equal(t, 1, line.Quantity)

	require.NoError(t, store.ClearBuyNow(ctx, "user-1"))
	line, err = store.BuyNow(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, line)
}

func TestBuyNowMissingIsNil(t *testing.T) {
	store, _ := newTestStore(t)

	line, err := store.BuyNow(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, line)
}

func TestClearAllEmptiesBothRecords(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Add(ctx, "user-1", Line{ProductID: "prod-a", UnitPrice: 1000, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, store.SetBuyNow(ctx, "user-1", Line{ProductID: "prod-b", UnitPrice: 500, Quantity: 1}))

	require.NoError(t, store.ClearAll(ctx, "user-1"))

	c, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)

	line, err := store.BuyNow(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, line)
}

func TestMutationsPublishChangeEvents(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	sub := redis.NewClient(&redis.Options{Addr: mr.Addr()}).Subscribe(ctx, EventChannel("user-1"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	_, err = store.Add(ctx, "user-1", Line{ProductID: "prod-a", UnitPrice: 1000, Quantity: 1})
	require.NoError(t, err)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg.Payload, `"revision":1`)
	assert.Contains(t, msg.Payload, `"count":1`)
}
