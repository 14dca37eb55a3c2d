package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodQRIS         PaymentMethod = "QRIS"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodEWallet      PaymentMethod = "E_WALLET"
)

// IsAllowedPaymentMethod は許可リストに含まれる決済手段かどうか
func IsAllowedPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case PaymentMethodCash, PaymentMethodQRIS, PaymentMethodBankTransfer, PaymentMethodEWallet:
		return true
	}
	return false
}

// 決済試行。1注文に複数行あり得るが、SUCCEEDEDに達するのは高々1行
type Payment struct {
	ID        int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64         `gorm:"not null;index" json:"order_id"`
	Reference string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"`
	Method    string        `gorm:"type:varchar(32);not null" json:"method"`
	Amount    int64         `gorm:"not null" json:"amount"`
	Status    PaymentStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Detail    string        `gorm:"type:varchar(255)" json:"detail,omitempty"`
	CreatedAt time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
