package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

// セッションカートのミラー。正本と乖離しないよう、更新は常に
// (買い手, 店舗)単位の全削除→全再挿入で行う
type CartMirrorRepository interface {
	Replace(ctx context.Context, buyerID int64, shopID int64, lines []model.CartLine) error
	DeleteAllForBuyer(ctx context.Context, buyerID int64) error
}
