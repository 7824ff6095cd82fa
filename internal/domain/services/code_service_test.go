package services

import (
	"testing"

	"guardiannet-http-service/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeServiceIssue(t *testing.T) {
	codes := NewCodeService()

	code := codes.Issue()
	_, err := uuid.Parse(code)
	assert.NoError(t, err, "通行码应为合法UUID")

	assert.NotEqual(t, code, codes.Issue())
}

func TestCodeServiceIssueShort(t *testing.T) {
	codes := NewCodeService()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := codes.IssueShort()
		assert.Len(t, code, 20)
		assert.False(t, seen[code], "短通行码不应重复")
		seen[code] = true
	}
}

// fixedCodeService 先返回固定的码值制造唯一索引冲突，再返回新码
type fixedCodeService struct {
	codes []string
	next  int
}

func (s *fixedCodeService) Issue() string {
	code := s.codes[s.next]
	if s.next < len(s.codes)-1 {
		s.next++
	}
	return code
}

func (s *fixedCodeService) IssueShort() string { return s.Issue() }

func TestCreateWithFreshCodeRetriesOnDuplicate(t *testing.T) {
	db := newTestDB(t)
	resident := seedResident(t, db, "A-101")

	dup := "duplicate-code"
	existing := &models.Visitor{
		Name:       "First",
		Phone:      "+911111111111",
		FlatNo:     resident.FlatNo,
		ResidentID: resident.ID,
		Code:       &dup,
		Status:     models.VisitorStatusApproved,
	}
	require.NoError(t, db.Create(existing).Error)

	codes := &fixedCodeService{codes: []string{"duplicate-code", "fresh-code"}}
	visitor := &models.Visitor{
		Name:       "Second",
		Phone:      "+912222222222",
		FlatNo:     resident.FlatNo,
		ResidentID: resident.ID,
		Status:     models.VisitorStatusApproved,
	}
	require.NoError(t, createWithFreshCode(db, codes, visitor))

	assert.NotZero(t, visitor.ID)
	require.NotNil(t, visitor.Code)
	assert.Equal(t, "fresh-code", *visitor.Code)
}

func TestCreateWithFreshCodeExhaustsRetries(t *testing.T) {
	db := newTestDB(t)
	resident := seedResident(t, db, "A-102")

	dup := "stuck-code"
	existing := &models.Visitor{
		Name:       "First",
		Phone:      "+911111111111",
		FlatNo:     resident.FlatNo,
		ResidentID: resident.ID,
		Code:       &dup,
		Status:     models.VisitorStatusApproved,
	}
	require.NoError(t, db.Create(existing).Error)

	// 码值永远冲突，重试耗尽后应报冲突
	codes := &fixedCodeService{codes: []string{"stuck-code"}}
	visitor := &models.Visitor{
		Name:       "Second",
		Phone:      "+912222222222",
		FlatNo:     resident.FlatNo,
		ResidentID: resident.ID,
		Status:     models.VisitorStatusApproved,
	}
	err := createWithFreshCode(db, codes, visitor)
	assert.ErrorIs(t, err, ErrConflict)
}
