package repository

import (
	"context"
	"errors"

	"foodcourt/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カタログ参照。コミット済みの状態を返す読み取り専用の境界
type FoodRepository interface {
	FindByID(ctx context.Context, foodID int64) (model.Food, error)
	ListByShopID(ctx context.Context, shopID int64) ([]model.Food, error)
}
