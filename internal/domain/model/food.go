package model

import (
	"time"

	"gorm.io/gorm"
)

// 店舗の商品（フードコートの一品）。Stockは同時注文で取り合う唯一の共有カウンタ
type Food struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ShopID    int64          `gorm:"not null;index" json:"shop_id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Price     int64          `gorm:"not null" json:"price"`
	Stock     int64          `gorm:"not null" json:"stock"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
