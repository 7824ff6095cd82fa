package models

import (
	"time"
)

// DeliveryRequest represents one delivery's admission record
type DeliveryRequest struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ResidentID   uint           `gorm:"not null;index" json:"resident_id"` // 发起申请的居民
	CourierName  string         `gorm:"type:varchar(50);not null" json:"courier_name"`
	Phone        string         `gorm:"type:varchar(20);not null" json:"phone"`
	Apartment    string         `gorm:"type:varchar(20);not null" json:"apartment"` // 目的地房号
	Company      string         `gorm:"type:varchar(50);not null" json:"company"`   // 快递公司
	ExpectedTime *time.Time     `json:"expected_time"`
	Code         *string        `gorm:"type:varchar(64);uniqueIndex" json:"code"` // 通行码，签发后不可变更
	Status       DeliveryStatus `gorm:"type:varchar(20);index:idx_deliveries_status_created,priority:1;default:'pending'" json:"status"`
	EntryTime    *time.Time     `json:"entry_time"`
	ExitTime     *time.Time     `json:"exit_time"`
	CreatedAt    time.Time      `gorm:"index:idx_deliveries_status_created,priority:2" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Relations
	Resident *Resident `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
}
