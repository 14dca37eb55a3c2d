package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

// 在庫操作。検証と減算は同じ行ロックの中で行う前提なので、
// LockByIDsはトランザクション内でのみ呼ぶ
type StockRepository interface {
	// 指定フード行をFOR UPDATEでロックして返す
	LockByIDs(ctx context.Context, foodIDs []int64) ([]model.Food, error)

	// 在庫減算（0未満にはしない）
	Decrease(ctx context.Context, foodID int64, qty int64) error

	// 在庫戻し（キャンセル・拒否）
	Increase(ctx context.Context, foodID int64, qty int64) error

	// 増減履歴作成
	CreateAdjustment(ctx context.Context, adj model.StockAdjustment) error
}
