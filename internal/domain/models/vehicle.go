package models

import (
	"time"
)

// VehicleAction represents one movement event of a registered vehicle
type VehicleAction string

const (
	VehicleActionEntered VehicleAction = "entered"
	VehicleActionExited  VehicleAction = "exited"
)

// Vehicle represents a registered vehicle belonging to a resident
type Vehicle struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ResidentID  uint      `gorm:"not null;index" json:"resident_id"`
	PlateNo     string    `gorm:"type:varchar(20);unique;not null" json:"plate_no"`
	VehicleType string    `gorm:"type:varchar(20);not null" json:"vehicle_type"` // car, bike, scooter, truck, van
	IsGuest     bool      `gorm:"default:false" json:"is_guest"`
	Inside      bool      `gorm:"default:false" json:"inside"` // 当前是否在小区内
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Resident     *Resident          `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	MovementLogs []VehicleMovement  `gorm:"foreignKey:VehicleID" json:"movement_logs,omitempty"`
}

// VehicleMovement 表示车辆的一次进出记录
type VehicleMovement struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	VehicleID uint          `gorm:"not null;index" json:"vehicle_id"`
	Action    VehicleAction `gorm:"type:varchar(20);not null" json:"action"`
	GuardID   *uint         `json:"guard_id,omitempty"` // 登记该记录的保安
	Timestamp time.Time     `json:"timestamp"`
	Notes     string        `gorm:"type:varchar(255)" json:"notes"`
}
