package services

import (
	"errors"
	"fmt"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceResidentService defines the resident service interface
type InterfaceResidentService interface {
	GetAllResidents(page int, pageSize int) ([]models.Resident, int64, error)
	GetResidentByID(id uint) (*models.Resident, error)
	GetResidentByFlat(flatNo string) (*models.Resident, error)
	CreateResident(resident *models.Resident) error
	UpdateResident(id uint, updates map[string]interface{}) (*models.Resident, error)
	DeleteResident(id uint) error
}

// ResidentService 提供居民相关的服务
type ResidentService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewResidentService 创建一个新的居民服务
func NewResidentService(db *gorm.DB, cfg *config.Config) InterfaceResidentService {
	return &ResidentService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllResidents 获取所有居民
func (s *ResidentService) GetAllResidents(page int, pageSize int) ([]models.Resident, int64, error) {
	var residents []models.Resident
	var total int64
	if err := s.DB.Model(&models.Resident{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	page, pageSize = normalizePage(page, pageSize)
	if err := s.DB.Offset((page - 1) * pageSize).Limit(pageSize).Find(&residents).Error; err != nil {
		return nil, 0, err
	}
	return residents, total, nil
}

// 2 GetResidentByID 根据ID获取居民
func (s *ResidentService) GetResidentByID(id uint) (*models.Resident, error) {
	var resident models.Resident
	if err := s.DB.First(&resident, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("居民不存在: %w", ErrRecordNotFound)
		}
		return nil, err
	}
	return &resident, nil
}

// 3 GetResidentByFlat 根据房号获取居民，审批流程用它定位负责居民
func (s *ResidentService) GetResidentByFlat(flatNo string) (*models.Resident, error) {
	if flatNo == "" {
		return nil, NewValidationError("flat_no", "不能为空")
	}
	var resident models.Resident
	if err := s.DB.Where("flat_no = ?", flatNo).First(&resident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("房号 %s 没有对应居民: %w", flatNo, ErrRecordNotFound)
		}
		return nil, err
	}
	return &resident, nil
}

// 4 CreateResident 创建新居民
func (s *ResidentService) CreateResident(resident *models.Resident) error {
	if resident.Name == "" {
		return NewValidationError("name", "不能为空")
	}
	if resident.Phone == "" {
		return NewValidationError("phone", "不能为空")
	}
	if resident.FlatNo == "" {
		return NewValidationError("flat_no", "不能为空")
	}

	// 验证手机号唯一性
	var count int64
	if err := s.DB.Model(&models.Resident{}).Where("phone = ?", resident.Phone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("手机号已被使用: %w", ErrConflict)
	}

	// 验证房号唯一性
	if err := s.DB.Model(&models.Resident{}).Where("flat_no = ?", resident.FlatNo).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("房号 %s 已有登记居民: %w", resident.FlatNo, ErrConflict)
	}

	if err := s.DB.Create(resident).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("手机号或房号已被使用: %w", ErrConflict)
		}
		return err
	}
	return nil
}

// 5 UpdateResident 更新居民信息
func (s *ResidentService) UpdateResident(id uint, updates map[string]interface{}) (*models.Resident, error) {
	resident, err := s.GetResidentByID(id)
	if err != nil {
		return nil, err
	}

	// 如果更新手机号，需要检查唯一性
	if phone, ok := updates["phone"].(string); ok && phone != resident.Phone {
		var count int64
		if err := s.DB.Model(&models.Resident{}).Where("phone = ? AND id != ?", phone, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("手机号已被其他居民使用: %w", ErrConflict)
		}
	}

	// 如果更新房号，同样检查唯一性
	if flatNo, ok := updates["flat_no"].(string); ok && flatNo != resident.FlatNo {
		var count int64
		if err := s.DB.Model(&models.Resident{}).Where("flat_no = ? AND id != ?", flatNo, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("房号已被其他居民使用: %w", ErrConflict)
		}
	}

	if err := s.DB.Model(resident).Updates(updates).Error; err != nil {
		return nil, err
	}

	// 重新获取更新后的居民信息
	return s.GetResidentByID(id)
}

// 6 DeleteResident 删除居民
func (s *ResidentService) DeleteResident(id uint) error {
	resident, err := s.GetResidentByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(resident).Error
}
