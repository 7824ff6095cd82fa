package services

import (
	"errors"
	"fmt"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// SubmitApprovalInput 现场登记未预约访客的输入。
// 未预约访客必须附带证据照片。
type SubmitApprovalInput struct {
	Name             string
	Phone            string
	FlatNo           string
	Purpose          string
	GuardID          *uint
	ImageData        []byte
	ImageContentType string
}

// Decision 表示居民对待审批访客的处理结果
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
)

// InterfaceApprovalService defines the manual approval interface
type InterfaceApprovalService interface {
	SubmitForApproval(input SubmitApprovalInput) (*models.Visitor, error)
	Decide(visitorID uint, decision Decision, residentID uint) (*models.Visitor, error)
	ListPending(residentID *uint, page, pageSize int) ([]models.Visitor, int64, error)
}

// ApprovalService 负责人工审批回退路径：
// 采集证据、创建待审批记录、接收居民决定并通知提交人
type ApprovalService struct {
	DB       *gorm.DB
	Config   *config.Config
	Codes    InterfaceCodeService
	Evidence InterfaceEvidenceService
	Notifier InterfaceNotificationService
	Cache    InterfaceRedisService
}

// NewApprovalService 创建一个新的审批服务
func NewApprovalService(
	db *gorm.DB,
	cfg *config.Config,
	codes InterfaceCodeService,
	evidence InterfaceEvidenceService,
	notifier InterfaceNotificationService,
	cache InterfaceRedisService,
) InterfaceApprovalService {
	return &ApprovalService{
		DB:       db,
		Config:   cfg,
		Codes:    codes,
		Evidence: evidence,
		Notifier: notifier,
		Cache:    cache,
	}
}

// 1 SubmitForApproval 现场登记未预约访客，创建待审批记录并通知负责居民。
// 所有字段校验在任何持久化写入（包括证据落盘）之前完成。
func (s *ApprovalService) SubmitForApproval(input SubmitApprovalInput) (*models.Visitor, error) {
	if input.Name == "" {
		return nil, NewValidationError("name", "不能为空")
	}
	if input.Phone == "" {
		return nil, NewValidationError("phone", "不能为空")
	}
	if input.FlatNo == "" {
		return nil, NewValidationError("flat_no", "不能为空")
	}
	if len(input.ImageData) == 0 {
		return nil, NewValidationError("image", "未预约访客必须提供证据照片")
	}

	// 按房号解析负责审批的居民
	var resident models.Resident
	if err := s.DB.Where("flat_no = ?", input.FlatNo).First(&resident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("房号 %s 没有对应居民: %w", input.FlatNo, ErrRecordNotFound)
		}
		return nil, err
	}

	// 校验全部通过后才落盘证据
	imageRef, err := s.Evidence.Store(input.ImageData, input.ImageContentType)
	if err != nil {
		return nil, err
	}

	purpose := input.Purpose
	if purpose == "" {
		purpose = "Guest"
	}

	visitor := &models.Visitor{
		Name:          input.Name,
		Phone:         input.Phone,
		FlatNo:        input.FlatNo,
		Purpose:       purpose,
		ResidentID:    resident.ID,
		GuardID:       input.GuardID,
		ImageRef:      imageRef,
		Status:        models.VisitorStatusPending,
		PreRegistered: false,
	}

	if err := createWithFreshCode(s.DB, s.Codes, visitor); err != nil {
		return nil, err
	}

	s.Notifier.NotifyResident(resident.ID,
		"访客进入申请",
		fmt.Sprintf("访客 %s（%s）申请进入 %s，事由：%s，请及时处理", visitor.Name, visitor.Phone, visitor.FlatNo, visitor.Purpose))

	return visitor, nil
}

// 2 Decide 记录居民对待审批访客的决定。
// 状态转换是以 status=pending 为条件的单次原子更新，
// 并发的重复审批只有一个会生效，其余得到 ErrInvalidState。
func (s *ApprovalService) Decide(visitorID uint, decision Decision, residentID uint) (*models.Visitor, error) {
	if decision != DecisionApprove && decision != DecisionDeny {
		return nil, NewValidationError("decision", "必须为 approve 或 deny")
	}

	var visitor models.Visitor
	if err := s.DB.First(&visitor, visitorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	// 只有负责该房号的居民可以审批；residentID为0表示管理员操作
	if residentID != 0 && visitor.ResidentID != residentID {
		return nil, ErrRecordNotFound
	}

	// 人工审批路径必须已有证据照片才能离开 pending
	if !visitor.PreRegistered && visitor.ImageRef == "" {
		return nil, fmt.Errorf("缺少证据照片: %w", ErrInvalidState)
	}

	target := models.VisitorStatusApproved
	if decision == DecisionDeny {
		target = models.VisitorStatusDenied
	}

	result := s.DB.Model(&models.Visitor{}).
		Where("id = ? AND status = ?", visitorID, models.VisitorStatusPending).
		Update("status", target)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// 没有命中条件更新：记录已被处理过（包括并发竞争失败的情况）
		return nil, fmt.Errorf("审批已处理: %w", ErrInvalidState)
	}

	if visitor.Code != nil && s.Cache != nil {
		_ = s.Cache.InvalidateVisitorCode(*visitor.Code)
	}

	if err := s.DB.First(&visitor, visitorID).Error; err != nil {
		return nil, err
	}

	// 通知提交申请的保安与访客本人
	verdict := "已批准"
	if decision == DecisionDeny {
		verdict = "已被拒绝"
	}
	if visitor.GuardID != nil {
		s.Notifier.NotifyGuard(*visitor.GuardID,
			"访客审批结果",
			fmt.Sprintf("访客 %s 进入 %s 的申请%s", visitor.Name, visitor.FlatNo, verdict))
	}
	s.Notifier.NotifyVisitorPhone(visitor.Phone,
		"访问申请结果",
		fmt.Sprintf("您进入 %s 的访问申请%s", visitor.FlatNo, verdict))

	return &visitor, nil
}

// 3 ListPending 查询待审批访客队列，最新优先。
// residentID 为 nil 时返回全局队列（闸口使用），否则只返回该居民名下的
func (s *ApprovalService) ListPending(residentID *uint, page, pageSize int) ([]models.Visitor, int64, error) {
	var visitors []models.Visitor
	var total int64

	query := s.DB.Model(&models.Visitor{}).Where("status = ?", models.VisitorStatusPending)
	if residentID != nil {
		query = query.Where("resident_id = ?", *residentID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Preload("Resident").
		Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&visitors).Error; err != nil {
		return nil, 0, err
	}

	return visitors, total, nil
}
