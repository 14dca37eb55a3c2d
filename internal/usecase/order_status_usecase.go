package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"
)

// OrderStatusUsecase は注文のステータス遷移を司る。
// すべての遷移は注文行をロックした1トランザクションの中で行うので、
// cancelとadvanceの競合はロック取得順で決まり、負けた側はno-opになる
type OrderStatusUsecase struct {
	tx repo.TransactionManager
}

func NewOrderStatusUsecase(tx repo.TransactionManager) *OrderStatusUsecase {
	return &OrderStatusUsecase{tx: tx}
}

// MarkPaid は支払い手段の選択を記録して AWAITING_PAYMENT -> PAYMENT_RECORDED に進める。
// すでに記録済み以降なら前回の成功を返すだけ（冪等）
func (u *OrderStatusUsecase) MarkPaid(ctx context.Context, buyerID int64, orderID int64, method string) (OrderOutput, error) {
	if buyerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, newValidationError("invalid id")
	}
	if !model.IsAllowedPaymentMethod(method) {
		return OrderOutput{}, newValidationError("invalid payment method")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return newNotFoundError("not found")
		}
		if err != nil {
			return newPersistenceError()
		}
		//他人の注文は「存在しない扱い」にする
		if o.BuyerID != buyerID {
			return newNotFoundError("not found")
		}

		//冪等：すでに支払い記録済み以降ならそのまま返す
		if model.IsPaidOrLater(o.Status) {
			lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
			if err != nil {
				return newPersistenceError()
			}
			out = toOrderOutput(o, lines)
			return nil
		}

		if o.Status != model.OrderStatusAwaitingPayment {
			return newConflictError("order not payable")
		}

		now := time.Now()
		if err := r.Orders().MarkPaid(ctx, orderID, method, now); err != nil {
			return newPersistenceError()
		}

		o.Status = model.OrderStatusPaymentRecorded
		o.PaymentMethod = method
		o.PaidAt = &now

		lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
		if err != nil {
			return newPersistenceError()
		}
		out = toOrderOutput(o, lines)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// Cancel は買い手による取り消し。AWAITING_PAYMENT / PAYMENT_RECORDED のときだけ成立し、
// 明細の数量を在庫に全部戻す。すでに窓を過ぎていたらfalse（エラーではない）
func (u *OrderStatusUsecase) Cancel(ctx context.Context, buyerID int64, orderID int64, reason string) (bool, error) {
	if buyerID <= 0 {
		return false, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return false, newValidationError("invalid id")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return false, newValidationError("reason required")
	}

	cancelled := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return newNotFoundError("not found")
		}
		if err != nil {
			return newPersistenceError()
		}
		if o.BuyerID != buyerID {
			return newNotFoundError("not found")
		}

		//キャンセル可能な窓を過ぎていたらno-op
		if !model.IsCancellable(o.Status) {
			return nil
		}

		if err := u.restock(ctx, r, orderID, adjustReasonOrderCancelled); err != nil {
			return err
		}

		if err := r.Orders().UpdateStatusAndNote(ctx, orderID, model.OrderStatusCancelled, reason); err != nil {
			return newPersistenceError()
		}

		cancelled = true
		return nil
	})

	if err != nil {
		return false, err
	}
	return cancelled, nil
}

// Reject は売り手による拒否。PAYMENT_RECORDED のときだけ成立して在庫を戻す。
// 終端や調理開始後はfalse
func (u *OrderStatusUsecase) Reject(ctx context.Context, sellerUserID int64, orderID int64, reason string) (bool, error) {
	if sellerUserID <= 0 {
		return false, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return false, newValidationError("invalid id")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return false, newValidationError("reason required")
	}

	rejected := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return newNotFoundError("not found")
		}
		if err != nil {
			return newPersistenceError()
		}

		if err := u.requireShopOwner(ctx, r, o.ShopID, sellerUserID); err != nil {
			return err
		}

		if o.Status != model.OrderStatusPaymentRecorded {
			return nil
		}

		if err := u.restock(ctx, r, orderID, adjustReasonOrderRejected); err != nil {
			return err
		}

		if err := r.Orders().UpdateStatusAndNote(ctx, orderID, model.OrderStatusRejected, reason); err != nil {
			return newPersistenceError()
		}

		rejected = true
		return nil
	})

	if err != nil {
		return false, err
	}
	return rejected, nil
}

// Advance は ACCEPTED -> OUT_FOR_DELIVERY -> COMPLETED を1段ずつ進める。
// 隣接しないtargetや後退はValidation、終端からの遷移はConflict。前進では在庫は動かない
func (u *OrderStatusUsecase) Advance(ctx context.Context, sellerUserID int64, orderID int64, target model.OrderStatus) (OrderOutput, error) {
	if sellerUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, newValidationError("invalid id")
	}

	switch target {
	case model.OrderStatusAccepted, model.OrderStatusOutForDelivery, model.OrderStatusCompleted:
		// OK
	default:
		return OrderOutput{}, newValidationError("invalid status target")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err == repo.ErrNotFound {
			return newNotFoundError("not found")
		}
		if err != nil {
			return newPersistenceError()
		}

		if err := u.requireShopOwner(ctx, r, o.ShopID, sellerUserID); err != nil {
			return err
		}

		if model.IsTerminal(o.Status) {
			return newConflictError("order already closed")
		}

		next, ok := model.NextStatus(o.Status)
		if !ok || next != target {
			return newValidationError("status target not adjacent")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, target); err != nil {
			return newPersistenceError()
		}

		o.Status = target
		lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
		if err != nil {
			return newPersistenceError()
		}
		out = toOrderOutput(o, lines)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 明細は不変のまま読み、数量をフードID単位で合算して在庫に戻す
func (u *OrderStatusUsecase) restock(ctx context.Context, r repo.TxRepos, orderID int64, reason string) error {
	lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
	if err != nil {
		return newPersistenceError()
	}

	now := time.Now()
	for foodID, qty := range aggregateQuantities(lines) {
		if err := r.Stock().Increase(ctx, foodID, qty); err != nil {
			return newPersistenceError()
		}
		if err := r.Stock().CreateAdjustment(ctx, model.StockAdjustment{
			FoodID:    foodID,
			OrderID:   orderID,
			Delta:     qty,
			Reason:    reason,
			CreatedAt: now,
		}); err != nil {
			return newPersistenceError()
		}
	}
	return nil
}

// 注文の店舗オーナーでなければ403
func (u *OrderStatusUsecase) requireShopOwner(ctx context.Context, r repo.TxRepos, shopID int64, sellerUserID int64) error {
	shop, err := r.Shops().FindByID(ctx, shopID)
	if err == repo.ErrNotFound {
		return newNotFoundError("shop not found")
	}
	if err != nil {
		return newPersistenceError()
	}
	if shop.OwnerUserID != sellerUserID {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return nil
}
