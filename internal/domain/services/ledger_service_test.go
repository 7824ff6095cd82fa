package services

import (
	"testing"
	"time"

	"guardiannet-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type ledgerFixture struct {
	db       *gorm.DB
	svc      InterfaceLedgerService
	notifier *stubNotifier
	cache    *stubCache
	resident *models.Resident
	guard    *models.SecurityGuard
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig(t)
	notifier := newStubNotifier()
	cache := newStubCache()
	return &ledgerFixture{
		db:       db,
		svc:      NewLedgerService(db, cfg, notifier, cache),
		notifier: notifier,
		cache:    cache,
		resident: seedResident(t, db, "D-401"),
		guard:    seedGuard(t, db),
	}
}

func (f *ledgerFixture) seedVisitor(t *testing.T, status models.VisitorStatus) *models.Visitor {
	t.Helper()
	code := "visitor-code-" + string(status)
	visitor := &models.Visitor{
		Name:       "Ledger Visitor",
		Phone:      "+919812345678",
		FlatNo:     f.resident.FlatNo,
		ResidentID: f.resident.ID,
		Code:       &code,
		Status:     status,
	}
	require.NoError(t, f.db.Create(visitor).Error)
	return visitor
}

func (f *ledgerFixture) seedDelivery(t *testing.T, status models.DeliveryStatus) *models.DeliveryRequest {
	t.Helper()
	code := "delivery-code-" + string(status)
	delivery := &models.DeliveryRequest{
		ResidentID:  f.resident.ID,
		CourierName: "Speedy",
		Phone:       "+919876543210",
		Apartment:   f.resident.FlatNo,
		Company:     "BlueDart",
		Code:        &code,
		Status:      status,
	}
	require.NoError(t, f.db.Create(delivery).Error)
	return delivery
}

func TestVisitorEntryExitRoundTrip(t *testing.T) {
	f := newLedgerFixture(t)
	visitor := f.seedVisitor(t, models.VisitorStatusApproved)

	entered, err := f.svc.RecordVisitorEntry(visitor.ID, &f.guard.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisitorStatusCheckedIn, entered.Status)
	require.NotNil(t, entered.EntryTime)
	assert.Nil(t, entered.ExitTime)
	assert.Equal(t, 1, f.notifier.residentCount())

	exited, err := f.svc.RecordVisitorExit(visitor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisitorStatusExited, exited.Status)
	require.NotNil(t, exited.ExitTime)
	assert.False(t, exited.ExitTime.Before(*exited.EntryTime), "离开时间不能早于进入时间")
}

func TestVisitorEntryTwiceReturnsAlreadyEntered(t *testing.T) {
	f := newLedgerFixture(t)
	visitor := f.seedVisitor(t, models.VisitorStatusApproved)

	first, err := f.svc.RecordVisitorEntry(visitor.ID, nil)
	require.NoError(t, err)
	firstEntry := *first.EntryTime

	_, err = f.svc.RecordVisitorEntry(visitor.ID, nil)
	assert.ErrorIs(t, err, ErrAlreadyEntered)
	assert.ErrorIs(t, err, ErrInvalidState, "已入场错误应同时命中无效状态")

	// 进入时间只写一次
	var reloaded models.Visitor
	require.NoError(t, f.db.First(&reloaded, visitor.ID).Error)
	assert.Equal(t, firstEntry.Unix(), reloaded.EntryTime.Unix())
}

func TestVisitorEntryRequiresApproval(t *testing.T) {
	f := newLedgerFixture(t)

	pending := f.seedVisitor(t, models.VisitorStatusPending)
	_, err := f.svc.RecordVisitorEntry(pending.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NotErrorIs(t, err, ErrAlreadyEntered)

	_, err = f.svc.RecordVisitorEntry(9999, nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestVisitorExitWithoutEntry(t *testing.T) {
	f := newLedgerFixture(t)
	visitor := f.seedVisitor(t, models.VisitorStatusApproved)

	_, err := f.svc.RecordVisitorExit(visitor.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestVisitorEntryInvalidatesCodeCache(t *testing.T) {
	f := newLedgerFixture(t)
	visitor := f.seedVisitor(t, models.VisitorStatusApproved)
	require.NoError(t, f.cache.CacheVisitorByCode(visitor, time.Minute))

	_, err := f.svc.RecordVisitorEntry(visitor.ID, nil)
	require.NoError(t, err)

	_, err = f.cache.GetVisitorByCode(*visitor.Code)
	assert.Error(t, err, "状态转换后缓存应失效")
}

func TestDeliveryEntryExitRoundTrip(t *testing.T) {
	f := newLedgerFixture(t)
	delivery := f.seedDelivery(t, models.DeliveryStatusPending)

	entered, err := f.svc.RecordDeliveryEntry(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusApproved, entered.Status)
	require.NotNil(t, entered.EntryTime)

	completed, err := f.svc.RecordDeliveryExit(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusCompleted, completed.Status)
	require.NotNil(t, completed.ExitTime)
}

func TestDeliveryEntryTwice(t *testing.T) {
	f := newLedgerFixture(t)
	delivery := f.seedDelivery(t, models.DeliveryStatusPending)

	_, err := f.svc.RecordDeliveryEntry(delivery.ID)
	require.NoError(t, err)

	_, err = f.svc.RecordDeliveryEntry(delivery.ID)
	assert.ErrorIs(t, err, ErrAlreadyEntered)
}

func TestDeliveryEntryAfterCancel(t *testing.T) {
	f := newLedgerFixture(t)
	delivery := f.seedDelivery(t, models.DeliveryStatusCancelled)

	_, err := f.svc.RecordDeliveryEntry(delivery.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.NotErrorIs(t, err, ErrAlreadyEntered)
}

func TestDeliveryExitWithoutEntry(t *testing.T) {
	f := newLedgerFixture(t)
	delivery := f.seedDelivery(t, models.DeliveryStatusPending)

	_, err := f.svc.RecordDeliveryExit(delivery.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestListVisitorLogsFilters(t *testing.T) {
	f := newLedgerFixture(t)
	other := seedResident(t, f.db, "D-402")

	approved := f.seedVisitor(t, models.VisitorStatusApproved)
	_, err := f.svc.RecordVisitorEntry(approved.ID, nil)
	require.NoError(t, err)

	codeOther := "other-visitor-code"
	require.NoError(t, f.db.Create(&models.Visitor{
		Name:       "Other Visitor",
		Phone:      "+919811111111",
		FlatNo:     other.FlatNo,
		ResidentID: other.ID,
		Code:       &codeOther,
		Status:     models.VisitorStatusPending,
	}).Error)

	logs, total, err := f.svc.ListVisitorLogs(LogFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, logs, 2)

	logs, total, err = f.svc.ListVisitorLogs(LogFilter{
		Status:     string(models.VisitorStatusCheckedIn),
		ResidentID: &f.resident.ID,
		Page:       1,
		PageSize:   10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, approved.ID, logs[0].ID)

	// 时间窗口不命中任何记录
	past := time.Now().Add(-48 * time.Hour)
	pastEnd := time.Now().Add(-24 * time.Hour)
	_, total, err = f.svc.ListVisitorLogs(LogFilter{
		StartTime: &past,
		EndTime:   &pastEnd,
		Page:      1,
		PageSize:  10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestListDeliveryLogsFilters(t *testing.T) {
	f := newLedgerFixture(t)

	pending := f.seedDelivery(t, models.DeliveryStatusPending)
	_, err := f.svc.RecordDeliveryEntry(pending.ID)
	require.NoError(t, err)

	logs, total, err := f.svc.ListDeliveryLogs(LogFilter{
		Status:   string(models.DeliveryStatusApproved),
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, pending.ID, logs[0].ID)
}
