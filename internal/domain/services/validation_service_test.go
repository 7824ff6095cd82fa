package services

import (
	"testing"
	"time"

	"guardiannet-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidationFixture(t *testing.T) (InterfaceValidationService, *stubCache, *models.Resident) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig(t)
	cache := newStubCache()
	resident := seedResident(t, db, "B-201")

	codes := NewCodeService()
	notifier := newStubNotifier()
	visitors := NewVisitorService(db, cfg, codes, notifier)
	_, err := visitors.InviteVisitor(InviteVisitorInput{
		ResidentID: resident.ID,
		Name:       "Ravi Kumar",
		Phone:      "+919876543210",
		FlatNo:     resident.FlatNo,
		Purpose:    "Dinner",
	})
	require.NoError(t, err)

	return NewValidationService(db, cfg, cache), cache, resident
}

func TestValidateCodeNotFoundIsNotAnError(t *testing.T) {
	svc, _, _ := newValidationFixture(t)

	outcome, err := svc.ValidateCode("no-such-code")
	require.NoError(t, err, "未命中是正常分支，不应返回错误")
	assert.False(t, outcome.Found)
	assert.Nil(t, outcome.Visitor)
	assert.Nil(t, outcome.Delivery)
}

func TestValidateCodeEmptyRejected(t *testing.T) {
	svc, _, _ := newValidationFixture(t)

	_, err := svc.ValidateCode("   ")
	assert.True(t, IsValidationError(err))
}

func TestValidateCodeFindsApprovedVisitor(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	cache := newStubCache()
	resident := seedResident(t, db, "B-202")

	visitors := NewVisitorService(db, cfg, NewCodeService(), newStubNotifier())
	invited, err := visitors.InviteVisitor(InviteVisitorInput{
		ResidentID: resident.ID,
		Name:       "Ravi Kumar",
		Phone:      "+919876543210",
		FlatNo:     resident.FlatNo,
	})
	require.NoError(t, err)

	svc := NewValidationService(db, cfg, cache)
	outcome, err := svc.ValidateCode(*invited.Code)
	require.NoError(t, err)
	require.True(t, outcome.Found)
	require.NotNil(t, outcome.Visitor)
	assert.Equal(t, invited.ID, outcome.Visitor.ID)
	assert.Equal(t, models.VisitorStatusApproved, outcome.Visitor.Status)

	// 命中后应写入缓存
	cached, cacheErr := cache.GetVisitorByCode(*invited.Code)
	require.NoError(t, cacheErr)
	assert.Equal(t, invited.ID, cached.ID)
}

func TestValidateCodeIgnoresTerminalStates(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	resident := seedResident(t, db, "B-203")

	code := "exited-code"
	now := time.Now()
	exited := &models.Visitor{
		Name:       "Gone Visitor",
		Phone:      "+911111111111",
		FlatNo:     resident.FlatNo,
		ResidentID: resident.ID,
		Code:       &code,
		Status:     models.VisitorStatusExited,
		EntryTime:  &now,
		ExitTime:   &now,
	}
	require.NoError(t, db.Create(exited).Error)

	svc := NewValidationService(db, cfg, newStubCache())
	outcome, err := svc.ValidateCode(code)
	require.NoError(t, err)
	assert.False(t, outcome.Found, "终态记录的通行码应视为未命中")
}

func TestValidateCodeFindsPendingDelivery(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	resident := seedResident(t, db, "B-204")

	deliveries := NewDeliveryService(db, cfg, NewCodeService(), newStubNotifier())
	created, err := deliveries.CreateDeliveryRequest(CreateDeliveryInput{
		ResidentID:  resident.ID,
		CourierName: "Speedy",
		Phone:       "9876543210",
		Apartment:   resident.FlatNo,
		Company:     "BlueDart",
	})
	require.NoError(t, err)

	svc := NewValidationService(db, cfg, newStubCache())
	outcome, err := svc.ValidateCode(*created.Code)
	require.NoError(t, err)
	require.True(t, outcome.Found)
	assert.Nil(t, outcome.Visitor)
	require.NotNil(t, outcome.Delivery)
	assert.Equal(t, created.ID, outcome.Delivery.ID)
}

func TestSearchByNameMatchesCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	resident := seedResident(t, db, "B-205")

	visitors := NewVisitorService(db, cfg, NewCodeService(), newStubNotifier())
	invited, err := visitors.InviteVisitor(InviteVisitorInput{
		ResidentID: resident.ID,
		Name:       "Ravi Kumar",
		Phone:      "+919876543210",
		FlatNo:     resident.FlatNo,
	})
	require.NoError(t, err)

	svc := NewValidationService(db, cfg, newStubCache())

	outcome, err := svc.SearchByName("ravi")
	require.NoError(t, err)
	require.True(t, outcome.Found)
	assert.Equal(t, invited.ID, outcome.Visitor.ID)

	outcome, err = svc.SearchByName("nobody")
	require.NoError(t, err)
	assert.False(t, outcome.Found)
}
