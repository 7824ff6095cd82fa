package services

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"

	"guardiannet-http-service/internal/domain/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 通行码签发冲突的最大重试次数
const codeIssueMaxRetries = 5

// InterfaceCodeService defines the entry code issuer interface
type InterfaceCodeService interface {
	Issue() string
	IssueShort() string
}

// CodeService 签发通行码。通行码不包含任何访客信息，
// 防止通过构造码值进行枚举；唯一性由数据库唯一索引兜底，
// 插入冲突时由调用方重新签发。
type CodeService struct{}

// NewCodeService 创建一个新的通行码服务
func NewCodeService() InterfaceCodeService {
	return &CodeService{}
}

// 1 Issue 签发一个随机通行码（UUID格式，用于二维码）
func (s *CodeService) Issue() string {
	return uuid.NewString()
}

// 2 IssueShort 签发一个较短的随机通行码（20位Base32，用于口头转述的场景）
func (s *CodeService) IssueShort() string {
	var buf [12]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand 不可用属于环境故障，无法安全降级
		panic("generate random code failed: " + err.Error())
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf[:])
}

// createWithFreshCode 为访客记录签发通行码并插入。
// 唯一性以数据库唯一索引为准：插入冲突时换新码重试，而不是先查后插
func createWithFreshCode(db *gorm.DB, codes InterfaceCodeService, visitor *models.Visitor) error {
	for attempt := 0; attempt < codeIssueMaxRetries; attempt++ {
		code := codes.Issue()
		visitor.Code = &code
		err := db.Create(visitor).Error
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			visitor.ID = 0
			continue
		}
		return err
	}
	return fmt.Errorf("通行码签发冲突重试次数用尽: %w", ErrConflict)
}

// createDeliveryWithFreshCode 为快递申请签发短通行码并插入，冲突时重试
func createDeliveryWithFreshCode(db *gorm.DB, codes InterfaceCodeService, delivery *models.DeliveryRequest) error {
	for attempt := 0; attempt < codeIssueMaxRetries; attempt++ {
		code := codes.IssueShort()
		delivery.Code = &code
		err := db.Create(delivery).Error
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			delivery.ID = 0
			continue
		}
		return err
	}
	return fmt.Errorf("通行码签发冲突重试次数用尽: %w", ErrConflict)
}
