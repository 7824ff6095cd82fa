package models

import (
	"time"

	"gorm.io/gorm"
)

// SecurityGuard 表示小区保安
type SecurityGuard struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Username  string    `gorm:"type:varchar(50);unique;not null" json:"username"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	Phone     string    `gorm:"type:varchar(20);unique;not null" json:"phone"`
	Shift     string    `gorm:"type:varchar(20)" json:"shift"` // day, night
	Status    string    `gorm:"type:varchar(20);default:'active'" json:"status"`
	Remark    string    `gorm:"type:text" json:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (g *SecurityGuard) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了密码，对其进行哈希处理
	if g.Password != "" {
		hashedPassword, err := HashPassword(g.Password)
		if err != nil {
			return err
		}
		g.Password = hashedPassword
	}
	return nil
}

// BeforeSave 是一个GORM钩子，在保存记录前运行
func (g *SecurityGuard) BeforeSave(tx *gorm.DB) error {
	// 如果提供了密码且不是已哈希的，对其进行哈希处理
	if g.Password != "" && len(g.Password) < 60 {
		hashedPassword, err := HashPassword(g.Password)
		if err != nil {
			return err
		}
		g.Password = hashedPassword
	}
	return nil
}
