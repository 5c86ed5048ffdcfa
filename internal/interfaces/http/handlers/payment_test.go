// internal/interfaces/http/handlers/payment_test.go
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/payment"
	"github.com/your-org/storefront-backend/internal/domain/profile"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubGateway struct{}

func (stubGateway) IsInitialized() bool                          { return true }
func (stubGateway) RequestPayment(*payment.PaymentRequest) error { return nil }

type completionFixture struct {
	router *gin.Engine
	carts  *cart.Store
	orders *order.Repository
}

func newCompletionFixture(t *testing.T) *completionFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&order.Order{}, &order.OrderItem{}, &profile.Profile{}))

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	carts := cart.NewStore(redisClient, log)
	orders := order.NewRepository(db)
	service := checkout.NewService(carts, orders, profile.NewService(db), stubGateway{}, nil, nil, &config.Config{}, log)

	router := gin.New()
	router.GET("/api/v1/payments/complete", NewPaymentHandler(service).Complete)

	return &completionFixture{router: router, carts: carts, orders: orders}
}

func (f *completionFixture) createPendingOrder(t *testing.T, userID string) *order.Order {
	t.Helper()

	o := &order.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		OrderName:     "후드 집업",
		Status:        order.StatusPending,
		TotalAmount:   49000,
		Currency:      "KRW",
		PaymentMethod: payment.MethodCard,
		RecipientName: "김민준",
		Phone:         "010-1234-5678",
		Address:       "서울특별시 강남구 테헤란로 123",
		Items: []order.OrderItem{
			{ProductID: "prod-hoodie", Name: "후드 집업", UnitPrice: 49000, Quantity: 1, LineTotal: 49000},
		},
	}
	require.NoError(t, f.orders.Create(o))
	return o
}

func (f *completionFixture) complete(t *testing.T, paymentID, status, orderID string) *httptest.ResponseRecorder {
	t.Helper()

	q := url.Values{}
	if paymentID != "" {
		q.Set("paymentId", paymentID)
	}
	if status != "" {
		q.Set("status", status)
	}
	if orderID != "" {
		q.Set("orderId", orderID)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/complete?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCompleteSuccessRedirect(t *testing.T) {
	f := newCompletionFixture(t)
	ctx := context.Background()

	o := f.createPendingOrder(t, "user-1")
	_, err := f.carts.Add(ctx, "user-1", cart.Line{ProductID: "prod-hoodie", Name: "후드 집업", UnitPrice: 49000, Quantity: 1})
	require.NoError(t, err)

	w := f.complete(t, "pay-1", "success", o.ID)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"paid"`)

	got, err := f.orders.GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, got.Status)
	assert.Equal(t, "pay-1", got.PaymentID)

	c, err := f.carts.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
}

func TestCompleteFailureRedirectKeepsCart(t *testing.T) {
	f := newCompletionFixture(t)
	ctx := context.Background()

	o := f.createPendingOrder(t, "user-1")
	_, err := f.carts.Add(ctx, "user-1", cart.Line{ProductID: "prod-hoodie", Name: "후드 집업", UnitPrice: 49000, Quantity: 1})
	require.NoError(t, err)

	w := f.complete(t, "pay-1", "cancelled", o.ID)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"failed"`)

	c, err := f.carts.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, c.Lines, 1)
}

func TestCompleteWithoutOrderIDIsNotFound(t *testing.T) {
	f := newCompletionFixture(t)

	o := f.createPendingOrder(t, "user-1")

	w := f.complete(t, "pay-1", "success", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	got, err := f.orders.GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, got.Status)
}

func TestCompleteReplayIsIdempotent(t *testing.T) {
	f := newCompletionFixture(t)

	o := f.createPendingOrder(t, "user-1")

	first := f.complete(t, "pay-1", "success", o.ID)
	assert.Equal(t, http.StatusOK, first.Code)
	second := f.complete(t, "pay-1", "success", o.ID)
	assert.Equal(t, http.StatusOK, second.Code)

	got, err := f.orders.GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, got.Status)
}

func TestCompleteUnknownOrder(t *testing.T) {
	f := newCompletionFixture(t)

	w := f.complete(t, "pay-1", "success", uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)
}
