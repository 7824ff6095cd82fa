package services

import (
	"errors"
	"fmt"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// LogFilter 进出台账的查询条件
type LogFilter struct {
	Status     string
	ResidentID *uint
	StartTime  *time.Time
	EndTime    *time.Time
	Page       int
	PageSize   int
}

// InterfaceLedgerService defines the entry/exit ledger interface.
// 台账是进出事件的唯一事实来源：进入时间只写一次，
// 离开必须发生在进入之后，重复进入作为现场异常单独上报。
type InterfaceLedgerService interface {
	RecordVisitorEntry(visitorID uint, guardID *uint) (*models.Visitor, error)
	RecordVisitorExit(visitorID uint) (*models.Visitor, error)
	RecordDeliveryEntry(deliveryID uint) (*models.DeliveryRequest, error)
	RecordDeliveryExit(deliveryID uint) (*models.DeliveryRequest, error)
	ListVisitorLogs(filter LogFilter) ([]models.Visitor, int64, error)
	ListDeliveryLogs(filter LogFilter) ([]models.DeliveryRequest, int64, error)
}

// LedgerService 记录访客与快递的进出时间线
type LedgerService struct {
	DB       *gorm.DB
	Config   *config.Config
	Notifier InterfaceNotificationService
	Cache    InterfaceRedisService
}

// NewLedgerService 创建一个新的台账服务
func NewLedgerService(db *gorm.DB, cfg *config.Config, notifier InterfaceNotificationService, cache InterfaceRedisService) InterfaceLedgerService {
	return &LedgerService{
		DB:       db,
		Config:   cfg,
		Notifier: notifier,
		Cache:    cache,
	}
}

// 1 RecordVisitorEntry 登记访客进入。只有 approved 状态允许进入，
// 条件更新保证进入时间只写一次；重复登记返回 ErrAlreadyEntered，
// 因为第二次物理进入是需要上报的现场事件，不能静默忽略
func (s *LedgerService) RecordVisitorEntry(visitorID uint, guardID *uint) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := s.DB.First(&visitor, visitorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	switch visitor.Status {
	case models.VisitorStatusCheckedIn, models.VisitorStatusExited:
		return nil, ErrAlreadyEntered
	case models.VisitorStatusPending, models.VisitorStatusDenied:
		return nil, fmt.Errorf("访客状态为 %s，不允许进入: %w", visitor.Status, ErrInvalidState)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     models.VisitorStatusCheckedIn,
		"entry_time": now,
	}
	if guardID != nil {
		updates["guard_id"] = *guardID
	}
	result := s.DB.Model(&models.Visitor{}).
		Where("id = ? AND status = ?", visitorID, models.VisitorStatusApproved).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// 条件更新落空：并发请求抢先完成了转换
		if err := s.DB.First(&visitor, visitorID).Error; err != nil {
			return nil, err
		}
		if visitor.Status == models.VisitorStatusCheckedIn || visitor.Status == models.VisitorStatusExited {
			return nil, ErrAlreadyEntered
		}
		return nil, ErrConflict
	}

	if visitor.Code != nil && s.Cache != nil {
		_ = s.Cache.InvalidateVisitorCode(*visitor.Code)
	}

	if err := s.DB.First(&visitor, visitorID).Error; err != nil {
		return nil, err
	}

	s.Notifier.NotifyResident(visitor.ResidentID,
		"访客已进入",
		fmt.Sprintf("访客 %s 已于 %s 进入小区", visitor.Name, now.Format("15:04")))

	return &visitor, nil
}

// 2 RecordVisitorExit 登记访客离开，只有 checked_in 状态允许
func (s *LedgerService) RecordVisitorExit(visitorID uint) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := s.DB.First(&visitor, visitorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if visitor.Status != models.VisitorStatusCheckedIn {
		return nil, fmt.Errorf("访客状态为 %s，尚未进入或已离开: %w", visitor.Status, ErrInvalidState)
	}

	result := s.DB.Model(&models.Visitor{}).
		Where("id = ? AND status = ?", visitorID, models.VisitorStatusCheckedIn).
		Updates(map[string]interface{}{
			"status":    models.VisitorStatusExited,
			"exit_time": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrConflict
	}

	if visitor.Code != nil && s.Cache != nil {
		_ = s.Cache.InvalidateVisitorCode(*visitor.Code)
	}

	if err := s.DB.First(&visitor, visitorID).Error; err != nil {
		return nil, err
	}
	return &visitor, nil
}

// 3 RecordDeliveryEntry 登记快递员进入：pending -> approved 并写入进入时间
func (s *LedgerService) RecordDeliveryEntry(deliveryID uint) (*models.DeliveryRequest, error) {
	var delivery models.DeliveryRequest
	if err := s.DB.First(&delivery, deliveryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	switch delivery.Status {
	case models.DeliveryStatusApproved, models.DeliveryStatusCompleted:
		return nil, ErrAlreadyEntered
	case models.DeliveryStatusCancelled:
		return nil, fmt.Errorf("快递申请已取消: %w", ErrInvalidState)
	}

	now := time.Now()
	result := s.DB.Model(&models.DeliveryRequest{}).
		Where("id = ? AND status = ?", deliveryID, models.DeliveryStatusPending).
		Updates(map[string]interface{}{
			"status":     models.DeliveryStatusApproved,
			"entry_time": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if err := s.DB.First(&delivery, deliveryID).Error; err != nil {
			return nil, err
		}
		if delivery.Status == models.DeliveryStatusApproved || delivery.Status == models.DeliveryStatusCompleted {
			return nil, ErrAlreadyEntered
		}
		return nil, ErrConflict
	}

	if err := s.DB.First(&delivery, deliveryID).Error; err != nil {
		return nil, err
	}

	s.Notifier.NotifyResident(delivery.ResidentID,
		"快递员已进入",
		fmt.Sprintf("%s 的快递员 %s 已于 %s 进入小区", delivery.Company, delivery.CourierName, now.Format("15:04")))

	return &delivery, nil
}

// 4 RecordDeliveryExit 登记快递完成并离开：approved -> completed
func (s *LedgerService) RecordDeliveryExit(deliveryID uint) (*models.DeliveryRequest, error) {
	var delivery models.DeliveryRequest
	if err := s.DB.First(&delivery, deliveryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if delivery.Status != models.DeliveryStatusApproved {
		return nil, fmt.Errorf("快递状态为 %s，尚未进入: %w", delivery.Status, ErrInvalidState)
	}

	now := time.Now()
	result := s.DB.Model(&models.DeliveryRequest{}).
		Where("id = ? AND status = ?", deliveryID, models.DeliveryStatusApproved).
		Updates(map[string]interface{}{
			"status":    models.DeliveryStatusCompleted,
			"exit_time": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrConflict
	}

	if err := s.DB.First(&delivery, deliveryID).Error; err != nil {
		return nil, err
	}

	s.Notifier.NotifyResident(delivery.ResidentID,
		"快递已完成",
		fmt.Sprintf("%s 的快递已于 %s 完成", delivery.Company, now.Format("15:04")))

	return &delivery, nil
}

// 5 ListVisitorLogs 查询访客台账，默认按最近活动排序
func (s *LedgerService) ListVisitorLogs(filter LogFilter) ([]models.Visitor, int64, error) {
	var visitors []models.Visitor
	var total int64

	query := s.DB.Model(&models.Visitor{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ResidentID != nil {
		query = query.Where("resident_id = ?", *filter.ResidentID)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	offset := (page - 1) * pageSize
	if err := query.Preload("Resident").
		Order("updated_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&visitors).Error; err != nil {
		return nil, 0, err
	}

	return visitors, total, nil
}

// 6 ListDeliveryLogs 查询快递台账
func (s *LedgerService) ListDeliveryLogs(filter LogFilter) ([]models.DeliveryRequest, int64, error) {
	var deliveries []models.DeliveryRequest
	var total int64

	query := s.DB.Model(&models.DeliveryRequest{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ResidentID != nil {
		query = query.Where("resident_id = ?", *filter.ResidentID)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	offset := (page - 1) * pageSize
	if err := query.Preload("Resident").
		Order("updated_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&deliveries).Error; err != nil {
		return nil, 0, err
	}

	return deliveries, total, nil
}

// normalizePage 规范分页参数
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
