package services

import (
	"errors"
	"fmt"
	"strings"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InviteVisitorInput 居民预约访客的输入
type InviteVisitorInput struct {
	ResidentID uint
	Name       string
	Phone      string
	FlatNo     string
	Purpose    string
}

// InterfaceVisitorService defines the visitor registration interface
type InterfaceVisitorService interface {
	InviteVisitor(input InviteVisitorInput) (*models.Visitor, error)
	GetVisitorByID(id uint) (*models.Visitor, error)
	SearchVisitorsByName(name string, page, pageSize int) ([]models.Visitor, int64, error)
	ResendNotification(visitorID uint, residentID uint) error
}

// VisitorService 处理访客的预约登记与查询
type VisitorService struct {
	DB       *gorm.DB
	Config   *config.Config
	Codes    InterfaceCodeService
	Notifier InterfaceNotificationService
}

// NewVisitorService 创建一个新的访客服务
func NewVisitorService(db *gorm.DB, cfg *config.Config, codes InterfaceCodeService, notifier InterfaceNotificationService) InterfaceVisitorService {
	return &VisitorService{
		DB:       db,
		Config:   cfg,
		Codes:    codes,
		Notifier: notifier,
	}
}

// 1 InviteVisitor 居民预约访客：直接签发通行码并置为 approved，
// 闸口扫码命中后即可进入，无需再次审批
func (s *VisitorService) InviteVisitor(input InviteVisitorInput) (*models.Visitor, error) {
	if input.Name == "" {
		return nil, NewValidationError("name", "不能为空")
	}
	if input.Phone == "" {
		return nil, NewValidationError("phone", "不能为空")
	}
	if input.FlatNo == "" {
		return nil, NewValidationError("flat_no", "不能为空")
	}

	var resident models.Resident
	if err := s.DB.First(&resident, input.ResidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("居民不存在: %w", ErrRecordNotFound)
		}
		return nil, err
	}

	// 只能预约到自己的房号
	if resident.FlatNo != input.FlatNo {
		return nil, NewValidationError("flat_no", "与居民登记房号不一致")
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
		Status:        models.VisitorStatusApproved,
		PreRegistered: true,
	}

	if err := createWithFreshCode(s.DB, s.Codes, visitor); err != nil {
		return nil, err
	}

	s.Notifier.NotifyVisitorPhone(visitor.Phone,
		"访客通行码",
		fmt.Sprintf("您到访 %s 的通行码为 %s，入口出示即可进入", visitor.FlatNo, *visitor.Code))

	return visitor, nil
}

// 2 GetVisitorByID 根据ID获取访客记录
func (s *VisitorService) GetVisitorByID(id uint) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := s.DB.Preload("Resident").First(&visitor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &visitor, nil
}

// 3 SearchVisitorsByName 按姓名模糊搜索访客，最新创建的优先
func (s *VisitorService) SearchVisitorsByName(name string, page, pageSize int) ([]models.Visitor, int64, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, 0, NewValidationError("name", "至少需要2个字符")
	}

	var visitors []models.Visitor
	var total int64

	query := s.DB.Model(&models.Visitor{}).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize
	if err := query.Preload("Resident").
		Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&visitors).Error; err != nil {
		return nil, 0, err
	}

	return visitors, total, nil
}

// 4 ResendNotification 重发访客通知：预约访客重发通行码，
// 未预约访客向其负责居民重发审批提醒
func (s *VisitorService) ResendNotification(visitorID uint, residentID uint) error {
	var visitor models.Visitor
	if err := s.DB.First(&visitor, visitorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}

	if residentID != 0 && visitor.ResidentID != residentID {
		return ErrRecordNotFound
	}

	if visitor.PreRegistered && visitor.Code != nil {
		s.Notifier.NotifyVisitorPhone(visitor.Phone,
			"访客通行码",
			fmt.Sprintf("您到访 %s 的通行码为 %s，入口出示即可进入", visitor.FlatNo, *visitor.Code))
		return nil
	}

	s.Notifier.NotifyResident(visitor.ResidentID,
		"访客进入申请",
		fmt.Sprintf("访客 %s（%s）申请进入 %s，请及时处理", visitor.Name, visitor.Phone, visitor.FlatNo))
	return nil
}
