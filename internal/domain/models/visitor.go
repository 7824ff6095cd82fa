package models

import (
	"time"
)

// Visitor represents one visitor's admission record from registration through exit
type Visitor struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"type:varchar(50);not null;index" json:"name"`
	Phone         string        `gorm:"type:varchar(20);not null" json:"phone"`
	FlatNo        string        `gorm:"type:varchar(20);not null" json:"flat_no"` // 目的地房号
	Purpose       string        `gorm:"type:varchar(100)" json:"purpose"`
	ResidentID    uint          `gorm:"not null;index" json:"resident_id"`        // 负责审批的居民
	GuardID       *uint         `json:"guard_id,omitempty"`                       // 现场登记该访客的保安
	Code          *string       `gorm:"type:varchar(64);uniqueIndex" json:"code"` // 通行码，签发后不可变更
	ImageRef      string        `gorm:"type:varchar(255)" json:"image_ref"`       // 证据照片引用，仅人工审批路径需要
	Status        VisitorStatus `gorm:"type:varchar(20);index:idx_visitors_status_created,priority:1;default:'pending'" json:"status"`
	PreRegistered bool          `gorm:"default:false" json:"pre_registered"`
	EntryTime     *time.Time    `json:"entry_time"`
	ExitTime      *time.Time    `json:"exit_time"`
	CreatedAt     time.Time     `gorm:"index:idx_visitors_status_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relations
	Resident *Resident `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
}
