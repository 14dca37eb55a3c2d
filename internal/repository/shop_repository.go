package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

type ShopRepository interface {
	FindByID(ctx context.Context, shopID int64) (model.Shop, error)
	FindByOwnerUserID(ctx context.Context, ownerUserID int64) (model.Shop, error)
}
