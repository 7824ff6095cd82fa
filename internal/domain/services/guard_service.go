package services

import (
	"errors"
	"fmt"

	"guardiannet-http-service/internal/domain/models"
	"guardiannet-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceGuardService defines the security guard service interface
type InterfaceGuardService interface {
	GetAllGuards(page, pageSize int, search string) ([]models.SecurityGuard, int64, error)
	GetGuardByID(id uint) (*models.SecurityGuard, error)
	CreateGuard(guard *models.SecurityGuard) error
	UpdateGuard(id uint, updates map[string]interface{}) (*models.SecurityGuard, error)
	DeleteGuard(id uint) error
}

// GuardService 提供保安相关的服务
type GuardService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewGuardService 创建一个新的保安服务
func NewGuardService(db *gorm.DB, cfg *config.Config) InterfaceGuardService {
	return &GuardService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllGuards 获取所有保安，支持分页和搜索
func (s *GuardService) GetAllGuards(page, pageSize int, search string) ([]models.SecurityGuard, int64, error) {
	var guards []models.SecurityGuard
	var total int64

	query := s.DB.Model(&models.SecurityGuard{})

	// 如果有搜索关键词，添加搜索条件
	if search != "" {
		query = query.Where("name LIKE ? OR username LIKE ? OR phone LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize
	if err := query.Limit(pageSize).Offset(offset).Find(&guards).Error; err != nil {
		return nil, 0, err
	}

	return guards, total, nil
}

// 2 GetGuardByID 根据ID获取保安
func (s *GuardService) GetGuardByID(id uint) (*models.SecurityGuard, error) {
	var guard models.SecurityGuard
	if err := s.DB.First(&guard, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("保安不存在: %w", ErrRecordNotFound)
		}
		return nil, err
	}
	return &guard, nil
}

// 3 CreateGuard 创建新保安
func (s *GuardService) CreateGuard(guard *models.SecurityGuard) error {
	if guard.Name == "" {
		return NewValidationError("name", "不能为空")
	}
	if guard.Username == "" {
		return NewValidationError("username", "不能为空")
	}
	if guard.Password == "" {
		return NewValidationError("password", "不能为空")
	}

	// 验证用户名唯一性
	var count int64
	if err := s.DB.Model(&models.SecurityGuard{}).Where("username = ?", guard.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("用户名已存在: %w", ErrConflict)
	}

	// 验证手机号唯一性
	if err := s.DB.Model(&models.SecurityGuard{}).Where("phone = ?", guard.Phone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("手机号已被使用: %w", ErrConflict)
	}

	if guard.Status == "" {
		guard.Status = "active"
	}

	// 密码由模型钩子哈希
	if err := s.DB.Create(guard).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("用户名或手机号已被使用: %w", ErrConflict)
		}
		return err
	}
	return nil
}

// 4 UpdateGuard 更新保安信息
func (s *GuardService) UpdateGuard(id uint, updates map[string]interface{}) (*models.SecurityGuard, error) {
	guard, err := s.GetGuardByID(id)
	if err != nil {
		return nil, err
	}

	// 如果更新用户名，需要检查唯一性
	if username, ok := updates["username"].(string); ok && username != guard.Username {
		var count int64
		if err := s.DB.Model(&models.SecurityGuard{}).Where("username = ? AND id != ?", username, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("用户名已被其他保安使用: %w", ErrConflict)
		}
	}

	// 如果更新手机号，需要检查唯一性
	if phone, ok := updates["phone"].(string); ok && phone != guard.Phone {
		var count int64
		if err := s.DB.Model(&models.SecurityGuard{}).Where("phone = ? AND id != ?", phone, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("手机号已被其他保安使用: %w", ErrConflict)
		}
	}

	// 如果更新密码，需要进行哈希处理
	if password, ok := updates["password"].(string); ok {
		hashedPassword, err := models.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("密码加密失败: %w", err)
		}
		updates["password"] = hashedPassword
	}

	if err := s.DB.Model(guard).Updates(updates).Error; err != nil {
		return nil, err
	}

	// 重新获取更新后的保安信息
	return s.GetGuardByID(id)
}

// 5 DeleteGuard 删除保安
func (s *GuardService) DeleteGuard(id uint) error {
	guard, err := s.GetGuardByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(guard).Error
}
