package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (int64, error)

	// 行ロック付き取得。settleの二重適用防止に使う
	FindByIDForUpdate(ctx context.Context, paymentID int64) (model.Payment, error)

	UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus, detail string) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.Payment, error)
}
