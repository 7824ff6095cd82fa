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

// 印度机动车牌照格式，如 MH12AB1234
var plateNoPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{1,2}[A-Z]{1,2}[0-9]{4}$`)

var vehicleTypes = map[string]bool{
	"car":     true,
	"bike":    true,
	"scooter": true,
	"truck":   true,
	"van":     true,
}

// RegisterVehicleInput 登记车辆的输入
type RegisterVehicleInput struct {
	ResidentID  uint
	PlateNo     string
	VehicleType string
	IsGuest     bool
}

// InterfaceVehicleService defines the vehicle registration and gate interface
type InterfaceVehicleService interface {
	RegisterVehicle(input RegisterVehicleInput) (*models.Vehicle, error)
	RemoveVehicle(id uint, residentID uint) error
	RecordVehicleEntry(plateNo string, guardID *uint, notes string) (*models.Vehicle, error)
	RecordVehicleExit(plateNo string, guardID *uint, notes string) (*models.Vehicle, error)
	GetVehiclesByResident(residentID uint) ([]models.Vehicle, error)
	ListMovements(vehicleID uint, page, pageSize int) ([]models.VehicleMovement, int64, error)
}

// VehicleService 处理车辆登记与进出记录
type VehicleService struct {
	DB       *gorm.DB
	Config   *config.Config
	Notifier InterfaceNotificationService
}

// NewVehicleService 创建一个新的车辆服务
func NewVehicleService(db *gorm.DB, cfg *config.Config, notifier InterfaceNotificationService) InterfaceVehicleService {
	return &VehicleService{
		DB:       db,
		Config:   cfg,
		Notifier: notifier,
	}
}

// 1 RegisterVehicle 居民登记车辆，车牌全小区唯一
func (s *VehicleService) RegisterVehicle(input RegisterVehicleInput) (*models.Vehicle, error) {
	plateNo := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(input.PlateNo), " ", ""))
	if !plateNoPattern.MatchString(plateNo) {
		return nil, NewValidationError("plate_no", "车牌格式不正确")
	}
	vehicleType := strings.ToLower(strings.TrimSpace(input.VehicleType))
	if !vehicleTypes[vehicleType] {
		return nil, NewValidationError("vehicle_type", "未知的车辆类型")
	}

	var resident models.Resident
	if err := s.DB.First(&resident, input.ResidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("居民不存在: %w", ErrRecordNotFound)
		}
		return nil, err
	}

	vehicle := &models.Vehicle{
		ResidentID:  resident.ID,
		PlateNo:     plateNo,
		VehicleType: vehicleType,
		IsGuest:     input.IsGuest,
	}
	if err := s.DB.Create(vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("车牌 %s 已被登记: %w", plateNo, ErrConflict)
		}
		return nil, err
	}
	return vehicle, nil
}

// 2 RemoveVehicle 删除车辆登记记录，residentID非0时校验归属
func (s *VehicleService) RemoveVehicle(id uint, residentID uint) error {
	var vehicle models.Vehicle
	if err := s.DB.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	if residentID != 0 && vehicle.ResidentID != residentID {
		return ErrRecordNotFound
	}
	if vehicle.Inside {
		return fmt.Errorf("车辆仍在小区内，不能删除: %w", ErrInvalidState)
	}
	return s.DB.Delete(&vehicle).Error
}

// 3 RecordVehicleEntry 闸口登记车辆进入，重复进入返回已入场错误
func (s *VehicleService) RecordVehicleEntry(plateNo string, guardID *uint, notes string) (*models.Vehicle, error) {
	plateNo = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plateNo), " ", ""))

	var vehicle models.Vehicle
	if err := s.DB.Where("plate_no = ?", plateNo).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	// CAS：仅当车辆当前在小区外时置为在场
	result := s.DB.Model(&models.Vehicle{}).
		Where("id = ? AND inside = ?", vehicle.ID, false).
		Update("inside", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyEntered
	}

	movement := models.VehicleMovement{
		VehicleID: vehicle.ID,
		Action:    models.VehicleActionEntered,
		GuardID:   guardID,
		Timestamp: time.Now(),
		Notes:     notes,
	}
	if err := s.DB.Create(&movement).Error; err != nil {
		return nil, err
	}

	if err := s.DB.First(&vehicle, vehicle.ID).Error; err != nil {
		return nil, err
	}
	s.Notifier.NotifyResident(vehicle.ResidentID,
		"车辆进入",
		fmt.Sprintf("车辆 %s 已进入小区", vehicle.PlateNo))
	return &vehicle, nil
}

// 4 RecordVehicleExit 闸口登记车辆离开，未入场的车辆不能离开
func (s *VehicleService) RecordVehicleExit(plateNo string, guardID *uint, notes string) (*models.Vehicle, error) {
	plateNo = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(plateNo), " ", ""))

	var vehicle models.Vehicle
	if err := s.DB.Where("plate_no = ?", plateNo).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	result := s.DB.Model(&models.Vehicle{}).
		Where("id = ? AND inside = ?", vehicle.ID, true).
		Update("inside", false)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("车辆未在小区内: %w", ErrInvalidState)
	}

	movement := models.VehicleMovement{
		VehicleID: vehicle.ID,
		Action:    models.VehicleActionExited,
		GuardID:   guardID,
		Timestamp: time.Now(),
		Notes:     notes,
	}
	if err := s.DB.Create(&movement).Error; err != nil {
		return nil, err
	}

	if err := s.DB.First(&vehicle, vehicle.ID).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// 5 GetVehiclesByResident 某居民名下的所有车辆
func (s *VehicleService) GetVehiclesByResident(residentID uint) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := s.DB.Where("resident_id = ?", residentID).
		Order("created_at DESC").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// 6 ListMovements 某车辆的进出记录，最新的优先
func (s *VehicleService) ListMovements(vehicleID uint, page, pageSize int) ([]models.VehicleMovement, int64, error) {
	query := s.DB.Model(&models.VehicleMovement{}).Where("vehicle_id = ?", vehicleID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []models.VehicleMovement
	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize
	if err := query.Order("timestamp DESC").
		Limit(pageSize).Offset(offset).
		Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}
