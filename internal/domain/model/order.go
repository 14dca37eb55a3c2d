package model

import "time"

type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
	OrderStatusPaymentRecorded OrderStatus = "PAYMENT_RECORDED"
	OrderStatusAccepted        OrderStatus = "ACCEPTED"
	OrderStatusOutForDelivery  OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusCompleted       OrderStatus = "COMPLETED"
	OrderStatusCancelled       OrderStatus = "CANCELLED_BY_BUYER"
	OrderStatusRejected        OrderStatus = "REJECTED_BY_SELLER"
)

// 前進遷移グラフ。終端からの遷移は定義しない
var forwardNext = map[OrderStatus]OrderStatus{
	OrderStatusAwaitingPayment: OrderStatusPaymentRecorded,
	OrderStatusPaymentRecorded: OrderStatusAccepted,
	OrderStatusAccepted:        OrderStatusOutForDelivery,
	OrderStatusOutForDelivery:  OrderStatusCompleted,
}

// NextStatus は現在ステータスの次の前進先を返す
func NextStatus(s OrderStatus) (OrderStatus, bool) {
	next, ok := forwardNext[s]
	return next, ok
}

// IsTerminal は終端ステータスかどうか
func IsTerminal(s OrderStatus) bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

// IsCancellable は買い手がまだキャンセルできるステータスかどうか
func IsCancellable(s OrderStatus) bool {
	return s == OrderStatusAwaitingPayment || s == OrderStatusPaymentRecorded
}

// IsPaidOrLater は支払い記録済み以降の前進ステータスかどうか
func IsPaidOrLater(s OrderStatus) bool {
	switch s {
	case OrderStatusPaymentRecorded, OrderStatusAccepted, OrderStatusOutForDelivery, OrderStatusCompleted:
		return true
	}
	return false
}

type Order struct {
	ID            int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID       int64       `gorm:"not null;index" json:"buyer_id"`
	ShopID        int64       `gorm:"not null;index" json:"shop_id"`
	Status        OrderStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	TotalPrice    int64       `gorm:"not null" json:"total_price"`
	Note          string      `gorm:"type:varchar(255)" json:"note"`
	PaymentMethod string      `gorm:"type:varchar(32)" json:"payment_method,omitempty"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
	CreatedAt     time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
