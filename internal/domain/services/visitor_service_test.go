package services

import (
	"testing"

	"guardiannet-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newVisitorFixture(t *testing.T) (InterfaceVisitorService, *gorm.DB, *models.Resident, *stubNotifier) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig(t)
	notifier := newStubNotifier()
	resident := seedResident(t, db, "F-601")
	svc := NewVisitorService(db, cfg, NewCodeService(), notifier)
	return svc, db, resident, notifier
}

func TestInviteVisitorIssuesCodeAndApproves(t *testing.T) {
	svc, _, resident, notifier := newVisitorFixture(t)

	visitor, err := svc.InviteVisitor(InviteVisitorInput{
		ResidentID: resident.ID,
		Name:       "Ravi Kumar",
		Phone:      "+919876543210",
		FlatNo:     resident.FlatNo,
	})
	require.NoError(t, err)

	assert.Equal(t, models.VisitorStatusApproved, visitor.Status, "预约访客无需审批")
	assert.True(t, visitor.PreRegistered)
	assert.Equal(t, "Guest", visitor.Purpose, "默认事由")
	require.NotNil(t, visitor.Code)

	bodies := notifier.phoneBodies(visitor.Phone)
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], *visitor.Code, "访客短信应包含通行码")
}

func TestInviteVisitorFlatMustMatchResident(t *testing.T) {
	svc, _, resident, _ := newVisitorFixture(t)

	_, err := svc.InviteVisitor(InviteVisitorInput{
		ResidentID: resident.ID,
		Name:       "Ravi Kumar",
		Phone:      "+919876543210",
		FlatNo:     "Z-999",
	})
	assert.True(t, IsValidationError(err))
}

func TestInviteVisitorUnknownResident(t *testing.T) {
	svc, _, _, _ := newVisitorFixture(t)

	_, err := svc.InviteVisitor(InviteVisitorInput{
		ResidentID: 9999,
		Name:       "Ravi Kumar",
		Phone:      "+919876543210",
		FlatNo:     "F-601",
	})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestGetVisitorByID(t *testing.T) {
	svc, _, resident, _ := newVisitorFixture(t)

	invited, err := svc.InviteVisitor(InviteVisitorInput{
		ResidentID: resident.ID,
		Name:       "Ravi Kumar",
		Phone:      "+919876543210",
		FlatNo:     resident.FlatNo,
	})
	require.NoError(t, err)

	found, err := svc.GetVisitorByID(invited.ID)
	require.NoError(t, err)
	assert.Equal(t, invited.Name, found.Name)
	require.NotNil(t, found.Resident, "应预加载负责居民")
	assert.Equal(t, resident.ID, found.Resident.ID)

	_, err = svc.GetVisitorByID(9999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestSearchVisitorsByName(t *testing.T) {
	svc, _, resident, _ := newVisitorFixture(t)

	for _, name := range []string{"Ravi Kumar", "Ravina Shah", "Amit Patel"} {
		_, err := svc.InviteVisitor(InviteVisitorInput{
			ResidentID: resident.ID,
			Name:       name,
			Phone:      "+919876543210",
			FlatNo:     resident.FlatNo,
		})
		require.NoError(t, err)
	}

	results, total, err := svc.SearchVisitorsByName("ravi", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, results, 2)

	// 过短的片段直接拒绝，避免全表模糊扫描
	_, _, err = svc.SearchVisitorsByName("r", 1, 10)
	assert.True(t, IsValidationError(err))
}

func TestResendNotification(t *testing.T) {
	svc, db, resident, notifier := newVisitorFixture(t)

	invited, err := svc.InviteVisitor(InviteVisitorInput{
		ResidentID: resident.ID,
		Name:       "Ravi Kumar",
		Phone:      "+919876543210",
		FlatNo:     resident.FlatNo,
	})
	require.NoError(t, err)

	// 预约访客：重发通行码短信
	require.NoError(t, svc.ResendNotification(invited.ID, resident.ID))
	assert.Len(t, notifier.phoneBodies(invited.Phone), 2)

	// 未预约访客：向负责居民重发审批提醒
	code := "walkin-code"
	walkin := &models.Visitor{
		Name:       "Walkin Visitor",
		Phone:      "+919811111111",
		FlatNo:     resident.FlatNo,
		ResidentID: resident.ID,
		Code:       &code,
		Status:     models.VisitorStatusPending,
	}
	require.NoError(t, db.Create(walkin).Error)

	require.NoError(t, svc.ResendNotification(walkin.ID, resident.ID))
	assert.Equal(t, 1, notifier.residentCount())

	// 归属校验
	err = svc.ResendNotification(invited.ID, resident.ID+100)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
