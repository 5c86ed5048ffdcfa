// internal/domain/profile/service_test.go
package profile

import (
	"testing"

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
	require.NoError(t, db.AutoMigrate(&Profile{}))

	return NewService(db)
}

func TestUpsertCreatesOnFirstSignIn(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Upsert(&UpsertRequest{
		ID:       "kakao-1",
		Email:    "Min@Example.com",
		FullName: "김민준",
	})
	require.NoError(t, err)
	assert.Equal(t, "min@example.com", p.Email)
	assert.Equal(t, "kakao", p.Provider)
	assert.False(t, p.IsAdmin())
}

func TestUpsertRefreshesButKeepsRole(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upsert(&UpsertRequest{ID: "kakao-1", Email: "min@example.com", FullName: "김민준"})
	require.NoError(t, err)

	require.NoError(t, svc.db.Model(&Profile{}).Where("id = ?", "kakao-1").Update("role", RoleAdmin).Error)

	p, err := svc.Upsert(&UpsertRequest{ID: "kakao-1", Email: "min@example.com", FullName: "김민준 개명"})
	require.NoError(t, err)
	assert.Equal(t, "김민준 개명", p.FullName)
	assert.True(t, p.IsAdmin())
}

func TestUpsertKeepsFieldsWhenProviderOmitsThem(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upsert(&UpsertRequest{ID: "kakao-1", Email: "min@example.com", FullName: "김민준", AvatarURL: "/a.png"})
	require.NoError(t, err)

	p, err := svc.Upsert(&UpsertRequest{ID: "kakao-1", Email: "min@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "김민준", p.FullName)
	assert.Equal(t, "/a.png", p.AvatarURL)
}

func TestGetUnknownProfile(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get("missing")
	assert.Error(t, err)
}

func TestUpdateEditableFields(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upsert(&UpsertRequest{ID: "kakao-1", Email: "min@example.com"})
	require.NoError(t, err)

	p, err := svc.Update("kakao-1", &UpdateRequest{FullName: "새 이름"})
	require.NoError(t, err)
	assert.Equal(t, "새 이름", p.FullName)

	_, err = svc.Update("missing", &UpdateRequest{FullName: "x"})
	assert.Error(t, err)
}
