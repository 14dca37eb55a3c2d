package model

import "time"

// 1店舗につきオーナー（売り手）は1人
type Shop struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerUserID int64     `gorm:"not null;index" json:"owner_user_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	IsOpen      bool      `gorm:"not null;default:true" json:"is_open"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
