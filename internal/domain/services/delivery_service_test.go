package services

import (
	"testing"
	"time"

	"guardiannet-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDeliveryFixture(t *testing.T) (InterfaceDeliveryService, *gorm.DB, *models.Resident, *stubNotifier) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig(t)
	notifier := newStubNotifier()
	resident := seedResident(t, db, "E-501")
	svc := NewDeliveryService(db, cfg, NewCodeService(), notifier)
	return svc, db, resident, notifier
}

func TestCreateDeliveryRequest(t *testing.T) {
	svc, _, resident, notifier := newDeliveryFixture(t)

	created, err := svc.CreateDeliveryRequest(CreateDeliveryInput{
		ResidentID:  resident.ID,
		CourierName: "Speedy",
		Phone:       "9876543210",
		Apartment:   resident.FlatNo,
		Company:     "BlueDart",
	})
	require.NoError(t, err)

	assert.Equal(t, models.DeliveryStatusPending, created.Status)
	assert.Equal(t, "+919876543210", created.Phone, "10位手机号应补全国家码")
	require.NotNil(t, created.Code)
	assert.Len(t, *created.Code, 20, "快递使用短通行码")

	// 快递员应收到携带通行码的短信
	bodies := notifier.phoneBodies(created.Phone)
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], *created.Code)
}

func TestCreateDeliveryRequiresCompany(t *testing.T) {
	svc, db, resident, notifier := newDeliveryFixture(t)

	_, err := svc.CreateDeliveryRequest(CreateDeliveryInput{
		ResidentID:  resident.ID,
		CourierName: "Speedy",
		Phone:       "9876543210",
		Apartment:   resident.FlatNo,
	})
	assert.True(t, IsValidationError(err), "缺少快递公司应为校验错误")

	// 校验失败前不应有任何落库和短信
	var count int64
	require.NoError(t, db.Model(&models.DeliveryRequest{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	assert.Empty(t, notifier.phoneBodies("+919876543210"))
}

func TestCreateDeliveryRejectsBadPhone(t *testing.T) {
	svc, _, resident, _ := newDeliveryFixture(t)

	_, err := svc.CreateDeliveryRequest(CreateDeliveryInput{
		ResidentID:  resident.ID,
		CourierName: "Speedy",
		Phone:       "12345",
		Apartment:   resident.FlatNo,
		Company:     "BlueDart",
	})
	assert.True(t, IsValidationError(err))
}

func TestCreateDeliveryKeepsInternationalPhone(t *testing.T) {
	svc, _, resident, _ := newDeliveryFixture(t)

	created, err := svc.CreateDeliveryRequest(CreateDeliveryInput{
		ResidentID:  resident.ID,
		CourierName: "Speedy",
		Phone:       "+8613812345678",
		Apartment:   resident.FlatNo,
		Company:     "SF Express",
	})
	require.NoError(t, err)
	assert.Equal(t, "+8613812345678", created.Phone)
}

func TestOnePendingDeliveryPerResident(t *testing.T) {
	svc, _, resident, _ := newDeliveryFixture(t)

	input := CreateDeliveryInput{
		ResidentID:  resident.ID,
		CourierName: "Speedy",
		Phone:       "9876543210",
		Apartment:   resident.FlatNo,
		Company:     "BlueDart",
	}
	first, err := svc.CreateDeliveryRequest(input)
	require.NoError(t, err)

	_, err = svc.CreateDeliveryRequest(input)
	assert.ErrorIs(t, err, ErrPendingDeliveryExists)
	assert.ErrorIs(t, err, ErrConflict)

	// 取消后即可再次登记
	_, err = svc.CancelDelivery(first.ID, resident.ID)
	require.NoError(t, err)

	_, err = svc.CreateDeliveryRequest(input)
	assert.NoError(t, err)
}

func TestEditDeliveryPendingOnly(t *testing.T) {
	svc, db, resident, _ := newDeliveryFixture(t)

	created, err := svc.CreateDeliveryRequest(CreateDeliveryInput{
		ResidentID:  resident.ID,
		CourierName: "Speedy",
		Phone:       "9876543210",
		Apartment:   resident.FlatNo,
		Company:     "BlueDart",
	})
	require.NoError(t, err)

	newName := "Faster"
	newTime := time.Now().Add(2 * time.Hour)
	edited, err := svc.EditDelivery(created.ID, resident.ID, EditDeliveryInput{
		CourierName:  &newName,
		ExpectedTime: &newTime,
	})
	require.NoError(t, err)
	assert.Equal(t, "Faster", edited.CourierName)
	require.NotNil(t, edited.ExpectedTime)

	// 放行后不允许再修改
	require.NoError(t, db.Model(&models.DeliveryRequest{}).
		Where("id = ?", created.ID).
		Update("status", models.DeliveryStatusApproved).Error)

	_, err = svc.EditDelivery(created.ID, resident.ID, EditDeliveryInput{CourierName: &newName})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEditDeliveryOwnership(t *testing.T) {
	svc, _, resident, _ := newDeliveryFixture(t)

	created, err := svc.CreateDeliveryRequest(CreateDeliveryInput{
		ResidentID:  resident.ID,
		CourierName: "Speedy",
		Phone:       "9876543210",
		Apartment:   resident.FlatNo,
		Company:     "BlueDart",
	})
	require.NoError(t, err)

	newName := "Faster"
	_, err = svc.EditDelivery(created.ID, resident.ID+100, EditDeliveryInput{CourierName: &newName})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCancelDelivery(t *testing.T) {
	svc, _, resident, _ := newDeliveryFixture(t)

	created, err := svc.CreateDeliveryRequest(CreateDeliveryInput{
		ResidentID:  resident.ID,
		CourierName: "Speedy",
		Phone:       "9876543210",
		Apartment:   resident.FlatNo,
		Company:     "BlueDart",
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelDelivery(created.ID, resident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusCancelled, cancelled.Status)

	// 已取消的不能再次取消
	_, err = svc.CancelDelivery(created.ID, resident.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestGetAllDeliveriesRejectsUnknownStatus(t *testing.T) {
	svc, _, resident, _ := newDeliveryFixture(t)

	_, _, err := svc.GetAllDeliveries("shipped", resident.ID, 1, 10)
	assert.True(t, IsValidationError(err))
}

func TestDeliveryTimeline(t *testing.T) {
	svc, db, resident, _ := newDeliveryFixture(t)
	cfg := newTestConfig(t)
	ledger := NewLedgerService(db, cfg, newStubNotifier(), newStubCache())

	created, err := svc.CreateDeliveryRequest(CreateDeliveryInput{
		ResidentID:  resident.ID,
		CourierName: "Speedy",
		Phone:       "9876543210",
		Apartment:   resident.FlatNo,
		Company:     "BlueDart",
	})
	require.NoError(t, err)

	events, err := svc.DeliveryTimeline(created.ID, resident.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "created", events[0].Action)

	_, err = ledger.RecordDeliveryEntry(created.ID)
	require.NoError(t, err)
	_, err = ledger.RecordDeliveryExit(created.ID)
	require.NoError(t, err)

	events, err = svc.DeliveryTimeline(created.ID, resident.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "created", events[0].Action)
	assert.Equal(t, "entered", events[1].Action)
	assert.Equal(t, "completed", events[2].Action)
}
