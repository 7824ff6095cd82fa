package services

import (
	"testing"

	"guardiannet-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultAdmin(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	svc := NewAdminService(db, cfg)

	require.NoError(t, svc.EnsureDefaultAdmin())

	admin, err := svc.GetAdminByUsername("admin")
	require.NoError(t, err)
	assert.True(t, svc.CheckPassword(cfg.DefaultAdminPassword, admin.Password))

	// 重复调用不应创建第二个管理员
	require.NoError(t, svc.EnsureDefaultAdmin())
	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateAdminHashesPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, newTestConfig(t))

	admin := &models.Admin{
		Username: "ops",
		Password: "secret123",
		Email:    "ops@example.com",
	}
	require.NoError(t, svc.CreateAdmin(admin))
	assert.NotEqual(t, "secret123", admin.Password)
	assert.True(t, svc.CheckPassword("secret123", admin.Password))

	// 用户名唯一
	err := svc.CreateAdmin(&models.Admin{Username: "ops", Password: "other", Email: "ops2@example.com"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteLastAdminRefused(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, newTestConfig(t))

	require.NoError(t, svc.EnsureDefaultAdmin())
	admin, err := svc.GetAdminByUsername("admin")
	require.NoError(t, err)

	err = svc.DeleteAdmin(admin.ID)
	assert.ErrorIs(t, err, ErrInvalidState, "最后一个管理员不允许删除")

	require.NoError(t, svc.CreateAdmin(&models.Admin{
		Username: "second",
		Password: "secret123",
		Email:    "second@example.com",
	}))

	err = svc.DeleteAdmin(9999)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.NoError(t, svc.DeleteAdmin(admin.ID))
}
