package repository

import (
	"context"
	"time"

	"foodcourt/internal/domain/model"
)

type SellerOrderListFilter struct {
	ShopID int64
	Status string // 空なら全ステータス
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	// 行ロック付き取得。ステータス遷移は必ずこちらを使う
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	// ステータスと注記（キャンセル・拒否理由）を同時に更新
	UpdateStatusAndNote(ctx context.Context, orderID int64, status model.OrderStatus, note string) error

	// 支払い記録（ステータス＋決済手段＋時刻）
	MarkPaid(ctx context.Context, orderID int64, method string, paidAt time.Time) error

	ListByBuyerID(ctx context.Context, buyerID int64, page int, limit int) ([]model.Order, int64, error)
	ListForSeller(ctx context.Context, f SellerOrderListFilter) ([]model.Order, error)

	// チェックアウト前清掃用：買い手の未決済注文を洗い出す
	ListAwaitingPaymentByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
	DeleteByIDs(ctx context.Context, orderIDs []int64) error
}
