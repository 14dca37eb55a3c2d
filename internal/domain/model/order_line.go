package model

import "time"

// 注文明細。作成後は不変（キャンセル時の在庫戻しは読むだけ）
type OrderLine struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64     `gorm:"not null;index" json:"order_id"`
	FoodID            int64     `gorm:"not null;index" json:"food_id"`
	FoodNameSnapshot  string    `gorm:"type:varchar(255);not null" json:"food_name_snapshot"`
	UnitPriceSnapshot int64     `gorm:"not null" json:"unit_price_snapshot"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	Subtotal          int64     `gorm:"not null" json:"subtotal"`
	Note              string    `gorm:"type:varchar(255)" json:"note"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
