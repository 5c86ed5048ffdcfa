// internal/domain/catalog/service_test.go
package catalog

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

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Product{}))

	seed := []Product{
		{ID: "prod-old", Name: "후드 집업", Price: 59000, SalePrice: 49000, IsActive: true, CreatedAt: time.Now().Add(-2 * time.Hour)},
		{ID: "prod-new", Name: "데일리 스니커즈", Price: 89000, SalePrice: 79000, IsActive: true, CreatedAt: time.Now().Add(-1 * time.Hour)},
		{ID: "prod-hidden", Name: "판매 종료 상품", Price: 10000, IsActive: false, CreatedAt: time.Now()},
	}
	require.NoError(t, db.Create(&seed).Error)

	return NewService(db)
}

func TestListReturnsActiveNewestFirst(t *testing.T) {
	svc := newTestService(t)

	products, err := svc.List()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "prod-new", products[0].ID)
	assert.Equal(t, "prod-old", products[1].ID)
}

func TestGetHidesInactiveProducts(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Get("prod-old")
	require.NoError(t, err)
	assert.Equal(t, int64(49000), p.SalePrice)

	_, err = svc.Get("prod-hidden")
	assert.Error(t, err)

	_, err = svc.Get("missing")
	assert.Error(t, err)
}
