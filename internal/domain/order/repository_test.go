// internal/domain/order/repository_test.go
package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Order{}, &OrderItem{}))

	return NewRepository(db)
}

func newTestOrder(userID string) *Order {
	return &Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		OrderName:     "후드 집업 외 1건",
		Status:        StatusPending,
		TotalAmount:   2500,
		Currency:      "KRW",
		PaymentMethod: "CARD",
		RecipientName: "김민준",
		Phone:         "010-1234-5678",
		Address:       "서울특별시 강남구 테헤란로 123",
		Items: []OrderItem{
			{ProductID: "prod-a", Name: "후드 집업", UnitPrice: 1000, Quantity: 2, LineTotal: 2000},
			{ProductID: "prod-b", Name: "양말 세트", UnitPrice: 500, Quantity: 1, LineTotal: 500},
		},
	}
}

func TestCreateAndGetByID(t *testing.T) {
	repo := newTestRepository(t)

	o := newTestOrder("user-1")
	require.NoError(t, repo.Create(o))

	got, err := repo.GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderName, got.OrderName)
	assert.Equal(t, StatusPending, got.Status)
	require.Len(t, got.Items, 2)

	var sum int64
	for _, item := range got.Items {
		sum += item.LineTotal
	}
	assert.Equal(t, got.TotalAmount, sum)
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	repo := newTestRepository(t)

	o := newTestOrder("user-1")
	o.Items = nil
	assert.Error(t, repo.Create(o))

	_, err := repo.GetByID(o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByIDForUserHidesForeignOrders(t *testing.T) {
	repo := newTestRepository(t)

	o := newTestOrder("user-1")
	require.NoError(t, repo.Create(o))

	_, err := repo.GetByIDForUser(o.ID, "user-2")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := repo.GetByIDForUser(o.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestListByUserNewestFirst(t *testing.T) {
	repo := newTestRepository(t)

	first := newTestOrder("user-1")
	first.CreatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Create(first))

	second := newTestOrder("user-1")
	second.CreatedAt = time.Now().Add(-1 * time.Hour)
	require.NoError(t, repo.Create(second))

	other := newTestOrder("user-2")
	require.NoError(t, repo.Create(other))

	orders, err := repo.ListByUser("user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestMarkPaidPatchesStatusPaymentAndTimestamp(t *testing.T) {
	repo := newTestRepository(t)

	o := newTestOrder("user-1")
	require.NoError(t, repo.Create(o))

	paidAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.MarkPaid(o.ID, "pay-123", paidAt))

	got, err := repo.GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
	assert.Equal(t, "pay-123", got.PaymentID)
	require.NotNil(t, got.PaidAt)
	assert.True(t, got.IsTerminal())

	// item snapshots survive the patch untouched
	require.Len(t, got.Items, 2)
	assert.Equal(t, int64(2500), got.TotalAmount)
}

func TestMarkFailedLeavesPaymentFieldsEmpty(t *testing.T) {
	repo := newTestRepository(t)

	o := newTestOrder("user-1")
	require.NoError(t, repo.Create(o))
	require.NoError(t, repo.MarkFailed(o.ID))

	got, err := repo.GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Empty(t, got.PaymentID)
	assert.Nil(t, got.PaidAt)
}

func TestUpdateUnknownOrder(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.Update(uuid.NewString(), map[string]interface{}{"status": StatusFailed})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDoesNotJudgeTransitions(t *testing.T) {
	repo := newTestRepository(t)

	o := newTestOrder("user-1")
	require.NoError(t, repo.Create(o))
	require.NoError(t, repo.MarkPaid(o.ID, "pay-1", time.Now()))

	// the repository applies whatever patch it is handed
	require.NoError(t, repo.Update(o.ID, map[string]interface{}{"status": StatusFailed}))

	got, err := repo.GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
}

func TestListStalePending(t *testing.T) {
	repo := newTestRepository(t)

	stale := newTestOrder("user-1")
	stale.CreatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Create(stale))

	fresh := newTestOrder("user-1")
	require.NoError(t, repo.Create(fresh))

	paid := newTestOrder("user-1")
	paid.CreatedAt = time.Now().Add(-3 * time.Hour)
	require.NoError(t, repo.Create(paid))
	require.NoError(t, repo.MarkPaid(paid.ID, "pay-1", time.Now()))

	orders, err := repo.ListStalePending(time.Now().Add(-time.Hour), 100)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, stale.ID, orders[0].ID)
}

func TestListAllFiltersAndPages(t *testing.T) {
	repo := newTestRepository(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(newTestOrder("user-1")))
	}
	failed := newTestOrder("user-2")
	require.NoError(t, repo.Create(failed))
	require.NoError(t, repo.MarkFailed(failed.ID))

	orders, total, err := repo.ListAll("", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, orders, 2)

	orders, total, err = repo.ListAll(StatusFailed, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, failed.ID, orders[0].ID)
}

func TestCountByStatus(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Create(newTestOrder("user-1")))
	require.NoError(t, repo.Create(newTestOrder("user-1")))
	failed := newTestOrder("user-2")
	require.NoError(t, repo.Create(failed))
	require.NoError(t, repo.MarkFailed(failed.ID))

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[StatusPending])
	assert.Equal(t, int64(1), counts[StatusFailed])
}
