package services

import (
	"os"
	"testing"

	"guardiannet-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApprovalFixture(t *testing.T) (InterfaceApprovalService, *stubNotifier, *models.Resident, *models.SecurityGuard, string) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig(t)
	notifier := newStubNotifier()
	resident := seedResident(t, db, "C-301")
	guard := seedGuard(t, db)

	svc := NewApprovalService(db, cfg, NewCodeService(), NewEvidenceService(cfg), notifier, newStubCache())
	return svc, notifier, resident, guard, cfg.EvidenceDir
}

func validSubmitInput(resident *models.Resident, guard *models.SecurityGuard) SubmitApprovalInput {
	return SubmitApprovalInput{
		Name:             "Walkin Visitor",
		Phone:            "+919812345678",
		FlatNo:           resident.FlatNo,
		Purpose:          "Plumbing",
		GuardID:          &guard.ID,
		ImageData:        []byte("fake-jpeg-bytes"),
		ImageContentType: "image/jpeg",
	}
}

func TestSubmitForApprovalCreatesPendingVisitor(t *testing.T) {
	svc, notifier, resident, guard, _ := newApprovalFixture(t)

	visitor, err := svc.SubmitForApproval(validSubmitInput(resident, guard))
	require.NoError(t, err)

	assert.Equal(t, models.VisitorStatusPending, visitor.Status)
	assert.False(t, visitor.PreRegistered)
	assert.Equal(t, resident.ID, visitor.ResidentID)
	require.NotNil(t, visitor.GuardID)
	assert.Equal(t, guard.ID, *visitor.GuardID)
	assert.NotEmpty(t, visitor.ImageRef)
	require.NotNil(t, visitor.Code)

	// 负责居民应收到审批提醒
	assert.Equal(t, 1, notifier.residentCount())
}

func TestSubmitForApprovalRequiresEvidence(t *testing.T) {
	svc, _, resident, guard, evidenceDir := newApprovalFixture(t)

	input := validSubmitInput(resident, guard)
	input.ImageData = nil
	_, err := svc.SubmitForApproval(input)
	assert.True(t, IsValidationError(err), "缺少证据照片应为校验错误")

	entries, readErr := os.ReadDir(evidenceDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "校验失败前不应有任何证据落盘")
}

func TestSubmitForApprovalValidatesBeforeStoringEvidence(t *testing.T) {
	svc, _, resident, guard, evidenceDir := newApprovalFixture(t)

	input := validSubmitInput(resident, guard)
	input.Name = ""
	_, err := svc.SubmitForApproval(input)
	assert.True(t, IsValidationError(err))

	entries, readErr := os.ReadDir(evidenceDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestSubmitForApprovalUnknownFlat(t *testing.T) {
	svc, _, resident, guard, _ := newApprovalFixture(t)

	input := validSubmitInput(resident, guard)
	input.FlatNo = "Z-999"
	_, err := svc.SubmitForApproval(input)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDecideApprove(t *testing.T) {
	svc, notifier, resident, guard, _ := newApprovalFixture(t)

	visitor, err := svc.SubmitForApproval(validSubmitInput(resident, guard))
	require.NoError(t, err)

	decided, err := svc.Decide(visitor.ID, DecisionApprove, resident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisitorStatusApproved, decided.Status)

	// 提交的保安与访客本人都应收到结果通知
	assert.Len(t, notifier.guardNotes, 1)
	assert.NotEmpty(t, notifier.phoneBodies(visitor.Phone))
}

func TestDecideDeny(t *testing.T) {
	svc, _, resident, guard, _ := newApprovalFixture(t)

	visitor, err := svc.SubmitForApproval(validSubmitInput(resident, guard))
	require.NoError(t, err)

	decided, err := svc.Decide(visitor.ID, DecisionDeny, resident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisitorStatusDenied, decided.Status)
	assert.True(t, decided.Status.IsTerminal())
}

func TestDecideTwiceFails(t *testing.T) {
	svc, _, resident, guard, _ := newApprovalFixture(t)

	visitor, err := svc.SubmitForApproval(validSubmitInput(resident, guard))
	require.NoError(t, err)

	_, err = svc.Decide(visitor.ID, DecisionApprove, resident.ID)
	require.NoError(t, err)

	_, err = svc.Decide(visitor.ID, DecisionDeny, resident.ID)
	assert.ErrorIs(t, err, ErrInvalidState, "重复审批应被条件更新拦截")
}

func TestDecideUnknownVisitor(t *testing.T) {
	svc, _, resident, _, _ := newApprovalFixture(t)

	_, err := svc.Decide(9999, DecisionApprove, resident.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDecideInvalidDecision(t *testing.T) {
	svc, _, resident, guard, _ := newApprovalFixture(t)

	visitor, err := svc.SubmitForApproval(validSubmitInput(resident, guard))
	require.NoError(t, err)

	_, err = svc.Decide(visitor.ID, Decision("maybe"), resident.ID)
	assert.True(t, IsValidationError(err))
}

func TestDecideOwnershipEnforced(t *testing.T) {
	svc, _, resident, guard, _ := newApprovalFixture(t)

	visitor, err := svc.SubmitForApproval(validSubmitInput(resident, guard))
	require.NoError(t, err)

	// 其他居民不应看到该记录存在
	_, err = svc.Decide(visitor.ID, DecisionApprove, resident.ID+100)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// residentID为0表示管理员操作，允许通过
	decided, err := svc.Decide(visitor.ID, DecisionApprove, 0)
	require.NoError(t, err)
	assert.Equal(t, models.VisitorStatusApproved, decided.Status)
}

func TestListPendingScopedToResident(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	notifier := newStubNotifier()
	residentA := seedResident(t, db, "C-310")
	residentB := seedResident(t, db, "C-311")
	guard := seedGuard(t, db)

	svc := NewApprovalService(db, cfg, NewCodeService(), NewEvidenceService(cfg), notifier, newStubCache())

	inputA := validSubmitInput(residentA, guard)
	_, err := svc.SubmitForApproval(inputA)
	require.NoError(t, err)

	inputB := validSubmitInput(residentB, guard)
	inputB.Phone = "+919811111111"
	_, err = svc.SubmitForApproval(inputB)
	require.NoError(t, err)

	all, total, err := svc.ListPending(nil, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	scoped, total, err := svc.ListPending(&residentA.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, scoped, 1)
	assert.Equal(t, residentA.ID, scoped[0].ResidentID)
}
