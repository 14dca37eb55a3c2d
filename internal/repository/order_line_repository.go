package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

type OrderLineRepository interface {
	CreateBulk(ctx context.Context, orderID int64, lines []model.OrderLine) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	DeleteByOrderIDs(ctx context.Context, orderIDs []int64) error
}
