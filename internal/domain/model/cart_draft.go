package model

import "time"

// セッションカートの永続ミラー。買い手×店舗につき1ドラフト。
// 更新は差分パッチではなく全削除→全再挿入
type CartDraft struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID   int64     `gorm:"not null;index" json:"buyer_id"`
	ShopID    int64     `gorm:"not null;index" json:"shop_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

type CartDraftLine struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DraftID           int64     `gorm:"not null;index" json:"draft_id"`
	FoodID            int64     `gorm:"not null;index" json:"food_id"`
	Quantity          int64     `gorm:"not null" json:"quantity"`
	UnitPriceSnapshot int64     `gorm:"not null" json:"unit_price_snapshot"`
	Note              string    `gorm:"type:varchar(255)" json:"note"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
