package services

import (
	"errors"
	"strings"
	"time"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// Outcome 表示一次闸口查验的结果。"未命中"是未登记访客的正常分支，
// 不作为错误抛出，调用方据此进入人工审批流程。
type Outcome struct {
	Found    bool                    `json:"found"`
	Visitor  *models.Visitor         `json:"visitor,omitempty"`
	Delivery *models.DeliveryRequest `json:"delivery,omitempty"`
}

// InterfaceValidationService defines the gate validation interface.
// 查验是只读操作，可安全重试；登记进入由台账服务单独完成。
type InterfaceValidationService interface {
	ValidateCode(code string) (*Outcome, error)
	SearchByName(fragment string) (*Outcome, error)
}

// ValidationService 负责闸口的通行码与姓名查验
type ValidationService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceRedisService
}

// NewValidationService 创建一个新的查验服务
func NewValidationService(db *gorm.DB, cfg *config.Config, cache InterfaceRedisService) InterfaceValidationService {
	return &ValidationService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
	}
}

// 1 ValidateCode 按通行码精确查找非终态记录，先访客后快递
func (s *ValidationService) ValidateCode(code string) (*Outcome, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, NewValidationError("code", "不能为空")
	}

	// 缓存命中且仍为非终态时直接返回
	if s.Cache != nil {
		if cached, err := s.Cache.GetVisitorByCode(code); err == nil && !cached.Status.IsTerminal() {
			return &Outcome{Found: true, Visitor: cached}, nil
		}
	}

	var visitor models.Visitor
	err := s.DB.Preload("Resident").
		Where("code = ? AND status IN ?", code, models.VisitorActiveStatuses()).
		First(&visitor).Error
	if err == nil {
		if s.Cache != nil {
			_ = s.Cache.CacheVisitorByCode(&visitor, 30*time.Second)
		}
		return &Outcome{Found: true, Visitor: &visitor}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var delivery models.DeliveryRequest
	err = s.DB.Preload("Resident").
		Where("code = ? AND status IN ?", code, models.DeliveryActiveStatuses()).
		First(&delivery).Error
	if err == nil {
		return &Outcome{Found: true, Delivery: &delivery}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 未命中是正常分支，调用方进入人工审批流程
	return &Outcome{Found: false}, nil
}

// 2 SearchByName 按姓名片段不区分大小写模糊匹配非终态访客，
// 最新创建的优先，返回第一个命中
func (s *ValidationService) SearchByName(fragment string) (*Outcome, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, NewValidationError("name", "不能为空")
	}

	var visitor models.Visitor
	err := s.DB.Preload("Resident").
		Where("LOWER(name) LIKE ? AND status IN ?",
			"%"+strings.ToLower(fragment)+"%", models.VisitorActiveStatuses()).
		Order("created_at DESC").
		First(&visitor).Error
	if err == nil {
		return &Outcome{Found: true, Visitor: &visitor}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &Outcome{Found: false}, nil
}
