package services

import (
	"testing"

	"guardiannet-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndExtractToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(t), db)

	token, err := svc.GenerateToken(42, RoleGuard)
	require.NoError(t, err)

	claims, err := svc.ExtractClaims(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, RoleGuard, claims.Role)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(t), db)

	token, err := svc.GenerateToken(1, RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "tampered")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestLoginAcrossAccountTables(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	svc := NewJWTService(cfg, db)

	admins := NewAdminService(db, cfg)
	require.NoError(t, admins.EnsureDefaultAdmin())
	resident := seedResident(t, db, "H-801")
	guard := seedGuard(t, db)

	result, err := svc.Login("admin", cfg.DefaultAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, result.Role)
	assert.NotEmpty(t, result.Token)

	result, err = svc.Login(guard.Username, "password123")
	require.NoError(t, err)
	assert.Equal(t, RoleGuard, result.Role)
	assert.Equal(t, guard.ID, result.UserID)

	// 居民使用手机号登录
	result, err = svc.Login(resident.Phone, "password123")
	require.NoError(t, err)
	assert.Equal(t, RoleResident, result.Role)
	assert.Equal(t, resident.ID, result.UserID)

	_, err = svc.Login("admin", "wrong-password")
	assert.Error(t, err)

	_, err = svc.Login("nobody", "password123")
	assert.Error(t, err)
}

func TestLoginTokenCarriesIdentity(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	svc := NewJWTService(cfg, db)
	guard := seedGuard(t, db)

	var stored models.SecurityGuard
	require.NoError(t, db.First(&stored, guard.ID).Error)
	assert.NotEqual(t, "password123", stored.Password, "密码应以哈希存储")

	result, err := svc.Login(guard.Username, "password123")
	require.NoError(t, err)

	claims, err := svc.ExtractClaims(result.Token)
	require.NoError(t, err)
	assert.Equal(t, guard.ID, claims.UserID)
	assert.Equal(t, RoleGuard, claims.Role)
}
