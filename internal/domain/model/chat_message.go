package model

import "time"

// 買い手と店舗のチャットメッセージ。
// 注文作成通知はこのテーブルにbest-effortで書き込む
type ChatMessage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomKey   string    `gorm:"type:varchar(64);not null;index" json:"room_key"`
	BuyerID   int64     `gorm:"not null;index" json:"buyer_id"`
	ShopID    int64     `gorm:"not null;index" json:"shop_id"`
	Sender    string    `gorm:"type:varchar(16);not null" json:"sender"`
	Body      string    `gorm:"type:varchar(512);not null" json:"body"`
	OrderID   *int64    `gorm:"index" json:"order_id,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
