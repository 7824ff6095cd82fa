package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// ErrPendingDeliveryExists 每位居民同一时间只允许一个待处理的快递请求
var ErrPendingDeliveryExists = fmt.Errorf("已存在待处理的快递请求: %w", ErrConflict)

var phoneDigits = regexp.MustCompile(`^[0-9]{10}$`)

// CreateDeliveryInput 居民登记快递的输入
type CreateDeliveryInput struct {
	ResidentID   uint
	CourierName  string
	Phone        string
	Apartment    string
	Company      string
	ExpectedTime *time.Time
}

// EditDeliveryInput 修改待处理快递的输入，nil字段表示不修改
type EditDeliveryInput struct {
	CourierName  *string
	Phone        *string
	Company      *string
	ExpectedTime *time.Time
}

// TimelineEvent 快递生命周期中的一个事件
type TimelineEvent struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// InterfaceDeliveryService defines the delivery registration interface
type InterfaceDeliveryService interface {
	CreateDeliveryRequest(input CreateDeliveryInput) (*models.DeliveryRequest, error)
	EditDelivery(id uint, residentID uint, input EditDeliveryInput) (*models.DeliveryRequest, error)
	CancelDelivery(id uint, residentID uint) (*models.DeliveryRequest, error)
	GetDeliveryByID(id uint, residentID uint) (*models.DeliveryRequest, error)
	GetAllDeliveries(status string, residentID uint, page, pageSize int) ([]models.DeliveryRequest, int64, error)
	DeliveryTimeline(id uint, residentID uint) ([]TimelineEvent, error)
}

// DeliveryService 处理快递请求的登记、修改与查询。
// 快递记录不进通行码缓存，查验总是走数据库，状态变更无需缓存失效
type DeliveryService struct {
	DB       *gorm.DB
	Config   *config.Config
	Codes    InterfaceCodeService
	Notifier InterfaceNotificationService
}

// NewDeliveryService 创建一个新的快递服务
func NewDeliveryService(db *gorm.DB, cfg *config.Config, codes InterfaceCodeService, notifier InterfaceNotificationService) InterfaceDeliveryService {
	return &DeliveryService{
		DB:       db,
		Config:   cfg,
		Codes:    codes,
		Notifier: notifier,
	}
}

// normalizePhone 归一化手机号，10位数字补全国家码
func normalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone, nil
	}
	if !phoneDigits.MatchString(phone) {
		return "", NewValidationError("phone", "必须是10位数字")
	}
	return "+91" + phone, nil
}

// 1 CreateDeliveryRequest 居民登记快递，签发通行码交给快递员
func (s *DeliveryService) CreateDeliveryRequest(input CreateDeliveryInput) (*models.DeliveryRequest, error) {
	if input.CourierName == "" {
		return nil, NewValidationError("courier_name", "不能为空")
	}
	if input.Phone == "" {
		return nil, NewValidationError("phone", "不能为空")
	}
	if input.Apartment == "" {
		return nil, NewValidationError("apartment", "不能为空")
	}
	if input.Company == "" {
		return nil, NewValidationError("company", "不能为空")
	}

	phone, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	var resident models.Resident
	if err := s.DB.First(&resident, input.ResidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("居民不存在: %w", ErrRecordNotFound)
		}
		return nil, err
	}

	// 同一居民不允许并存多个待处理请求
	var pendingCount int64
	if err := s.DB.Model(&models.DeliveryRequest{}).
		Where("resident_id = ? AND status = ?", resident.ID, models.DeliveryStatusPending).
		Count(&pendingCount).Error; err != nil {
		return nil, err
	}
	if pendingCount > 0 {
		return nil, ErrPendingDeliveryExists
	}

	delivery := &models.DeliveryRequest{
		ResidentID:   resident.ID,
		CourierName:  input.CourierName,
		Phone:        phone,
		Apartment:    input.Apartment,
		Company:      input.Company,
		ExpectedTime: input.ExpectedTime,
		Status:       models.DeliveryStatusPending,
	}

	if err := createDeliveryWithFreshCode(s.DB, s.Codes, delivery); err != nil {
		return nil, err
	}

	s.Notifier.NotifyVisitorPhone(delivery.Phone,
		"快递通行码",
		fmt.Sprintf("配送至 %s 的通行码为 %s，入口出示即可进入", delivery.Apartment, *delivery.Code))

	return delivery, nil
}

// 2 EditDelivery 修改待处理的快递请求，已放行的不允许再修改
func (s *DeliveryService) EditDelivery(id uint, residentID uint, input EditDeliveryInput) (*models.DeliveryRequest, error) {
	var delivery models.DeliveryRequest
	if err := s.DB.First(&delivery, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if residentID != 0 && delivery.ResidentID != residentID {
		return nil, ErrRecordNotFound
	}
	if delivery.Status != models.DeliveryStatusPending {
		return nil, fmt.Errorf("只有待处理的快递可以修改: %w", ErrInvalidState)
	}

	updates := map[string]interface{}{}
	if input.CourierName != nil {
		if *input.CourierName == "" {
			return nil, NewValidationError("courier_name", "不能为空")
		}
		updates["courier_name"] = *input.CourierName
	}
	if input.Phone != nil {
		phone, err := normalizePhone(*input.Phone)
		if err != nil {
			return nil, err
		}
		updates["phone"] = phone
	}
	if input.Company != nil {
		updates["company"] = *input.Company
	}
	if input.ExpectedTime != nil {
		updates["expected_time"] = *input.ExpectedTime
	}
	if len(updates) == 0 {
		return &delivery, nil
	}

	// 限定在 pending 状态上更新，避免覆盖并发的放行操作
	result := s.DB.Model(&models.DeliveryRequest{}).
		Where("id = ? AND status = ?", delivery.ID, models.DeliveryStatusPending).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("快递状态已变更: %w", ErrInvalidState)
	}

	if err := s.DB.First(&delivery, delivery.ID).Error; err != nil {
		return nil, err
	}
	return &delivery, nil
}

// 3 CancelDelivery 取消待处理的快递请求，记录保留可追溯
func (s *DeliveryService) CancelDelivery(id uint, residentID uint) (*models.DeliveryRequest, error) {
	var delivery models.DeliveryRequest
	if err := s.DB.First(&delivery, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if residentID != 0 && delivery.ResidentID != residentID {
		return nil, ErrRecordNotFound
	}

	result := s.DB.Model(&models.DeliveryRequest{}).
		Where("id = ? AND status = ?", delivery.ID, models.DeliveryStatusPending).
		Update("status", models.DeliveryStatusCancelled)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("只有待处理的快递可以取消: %w", ErrInvalidState)
	}

	if err := s.DB.First(&delivery, delivery.ID).Error; err != nil {
		return nil, err
	}

	s.Notifier.NotifyVisitorPhone(delivery.Phone,
		"快递已取消",
		fmt.Sprintf("配送至 %s 的通行码已失效", delivery.Apartment))

	return &delivery, nil
}

// 4 GetDeliveryByID 获取单条快递记录，residentID非0时校验归属
func (s *DeliveryService) GetDeliveryByID(id uint, residentID uint) (*models.DeliveryRequest, error) {
	var delivery models.DeliveryRequest
	if err := s.DB.Preload("Resident").First(&delivery, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if residentID != 0 && delivery.ResidentID != residentID {
		return nil, ErrRecordNotFound
	}
	return &delivery, nil
}

// 5 GetAllDeliveries 按状态和居民过滤的快递列表
func (s *DeliveryService) GetAllDeliveries(status string, residentID uint, page, pageSize int) ([]models.DeliveryRequest, int64, error) {
	query := s.DB.Model(&models.DeliveryRequest{})
	if status != "" {
		if !models.IsDeliveryStatus(status) {
			return nil, 0, NewValidationError("status", "未知的快递状态")
		}
		query = query.Where("status = ?", status)
	}
	if residentID != 0 {
		query = query.Where("resident_id = ?", residentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deliveries []models.DeliveryRequest
	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize
	if err := query.Preload("Resident").
		Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&deliveries).Error; err != nil {
		return nil, 0, err
	}

	return deliveries, total, nil
}

// 6 DeliveryTimeline 快递的生命周期事件列表
func (s *DeliveryService) DeliveryTimeline(id uint, residentID uint) ([]TimelineEvent, error) {
	delivery, err := s.GetDeliveryByID(id, residentID)
	if err != nil {
		return nil, err
	}

	events := []TimelineEvent{
		{Action: "created", Timestamp: delivery.CreatedAt},
	}
	if delivery.EntryTime != nil {
		events = append(events, TimelineEvent{Action: "entered", Timestamp: *delivery.EntryTime})
	}
	if delivery.ExitTime != nil {
		events = append(events, TimelineEvent{Action: "completed", Timestamp: *delivery.ExitTime})
	}
	if delivery.Status == models.DeliveryStatusCancelled {
		events = append(events, TimelineEvent{Action: "cancelled", Timestamp: delivery.UpdatedAt})
	}
	return events, nil
}
