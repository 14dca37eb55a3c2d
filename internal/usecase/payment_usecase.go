package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"github.com/google/uuid"
)

// PaymentUsecase は決済試行の記録と清算。
// 注文の支払いフラグを立てるのはsettleの中で高々1回
type PaymentUsecase struct {
	tx repo.TransactionManager
}

func NewPaymentUsecase(tx repo.TransactionManager) *PaymentUsecase {
	return &PaymentUsecase{tx: tx}
}

type PaymentOutput struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Reference string    `json:"reference"`
	Method    string    `json:"method"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePaymentInput struct {
	OrderID int64
	Method  string
	Amount  int64
	Detail  string
}

// CreatePayment はPendingの決済行を作る。注文ステータスには触らない
func (u *PaymentUsecase) CreatePayment(ctx context.Context, buyerID int64, in CreatePaymentInput) (PaymentOutput, error) {
	if buyerID <= 0 {
		return PaymentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.OrderID <= 0 {
		return PaymentOutput{}, newValidationError("invalid order_id")
	}
	if !model.IsAllowedPaymentMethod(in.Method) {
		return PaymentOutput{}, newValidationError("invalid payment method")
	}
	if in.Amount <= 0 {
		return PaymentOutput{}, newValidationError("invalid amount")
	}

	var out PaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, in.OrderID)
		if err == repo.ErrNotFound {
			return newNotFoundError("not found")
		}
		if err != nil {
			return newPersistenceError()
		}
		if o.BuyerID != buyerID {
			return newNotFoundError("not found")
		}

		now := time.Now()
		p := model.Payment{
			OrderID:   in.OrderID,
			Reference: uuid.NewString(),
			Method:    in.Method,
			Amount:    in.Amount,
			Status:    model.PaymentStatusPending,
			Detail:    strings.TrimSpace(in.Detail),
			CreatedAt: now,
			UpdatedAt: now,
		}

		id, err := r.Payments().Create(ctx, p)
		if err != nil {
			return newPersistenceError()
		}

		p.ID = id
		out = toPaymentOutput(p)
		return nil
	})

	if err != nil {
		return PaymentOutput{}, err
	}
	return out, nil
}

// Settle は決済を清算する。決済行と注文行の両方をロックした上で、
//   - 他人の決済は「存在しない扱い」（冪等応答より所有チェックが先）
//   - すでにSUCCEEDEDなら何もせず成功を返す（冪等）
//   - expectedAmountが渡されて記録額と違えばConflict
//   - 記録額が注文合計に満たなければConflict
//   - 成立時、注文がまだ未払いなら支払い記録ステータスへ1回だけ進める
func (u *PaymentUsecase) Settle(ctx context.Context, buyerID int64, paymentID int64, expectedAmount *int64) (PaymentOutput, error) {
	if buyerID <= 0 {
		return PaymentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if paymentID <= 0 {
		return PaymentOutput{}, newValidationError("invalid id")
	}

	var out PaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().FindByIDForUpdate(ctx, paymentID)
		if err == repo.ErrNotFound {
			return newNotFoundError("not found")
		}
		if err != nil {
			return newPersistenceError()
		}

		o, err := r.Orders().FindByIDForUpdate(ctx, p.OrderID)
		if err == repo.ErrNotFound {
			return newNotFoundError("order not found")
		}
		if err != nil {
			return newPersistenceError()
		}
		if o.BuyerID != buyerID {
			return newNotFoundError("not found")
		}

		//冪等：確定済みはそのまま成功
		if p.Status == model.PaymentStatusSucceeded {
			out = toPaymentOutput(p)
			return nil
		}
		if p.Status == model.PaymentStatusFailed {
			return newConflictError("payment already failed")
		}

		if expectedAmount != nil && *expectedAmount != p.Amount {
			return newConflictError("amount mismatch")
		}

		if p.Amount < o.TotalPrice {
			return newConflictError("underpayment")
		}

		if err := r.Payments().UpdateStatus(ctx, paymentID, model.PaymentStatusSucceeded, ""); err != nil {
			return newPersistenceError()
		}

		//注文がまだ未払いのときだけ支払い記録へ進める
		if o.Status == model.OrderStatusAwaitingPayment {
			if err := r.Orders().MarkPaid(ctx, o.ID, p.Method, time.Now()); err != nil {
				return newPersistenceError()
			}
		}

		p.Status = model.PaymentStatusSucceeded
		out = toPaymentOutput(p)
		return nil
	})

	if err != nil {
		return PaymentOutput{}, err
	}
	return out, nil
}

// Fail は決済をFAILEDにして理由を残す。注文ステータスは動かさない
func (u *PaymentUsecase) Fail(ctx context.Context, buyerID int64, paymentID int64, reason string) (PaymentOutput, error) {
	if buyerID <= 0 {
		return PaymentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if paymentID <= 0 {
		return PaymentOutput{}, newValidationError("invalid id")
	}
	reason = strings.TrimSpace(reason)

	var out PaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().FindByIDForUpdate(ctx, paymentID)
		if err == repo.ErrNotFound {
			return newNotFoundError("not found")
		}
		if err != nil {
			return newPersistenceError()
		}

		o, err := r.Orders().FindByID(ctx, p.OrderID)
		if err != nil {
			return newPersistenceError()
		}
		if o.BuyerID != buyerID {
			return newNotFoundError("not found")
		}

		if p.Status == model.PaymentStatusSucceeded {
			return newConflictError("payment already succeeded")
		}
		if p.Status == model.PaymentStatusFailed {
			out = toPaymentOutput(p)
			return nil
		}

		if err := r.Payments().UpdateStatus(ctx, paymentID, model.PaymentStatusFailed, reason); err != nil {
			return newPersistenceError()
		}

		p.Status = model.PaymentStatusFailed
		p.Detail = reason
		out = toPaymentOutput(p)
		return nil
	})

	if err != nil {
		return PaymentOutput{}, err
	}
	return out, nil
}

// ListPaymentsForOrder は注文に対する決済試行の履歴（新しい順）
func (u *PaymentUsecase) ListPaymentsForOrder(ctx context.Context, buyerID int64, orderID int64) ([]PaymentOutput, error) {
	if buyerID <= 0 {
		return []PaymentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return []PaymentOutput{}, newValidationError("invalid id")
	}

	var outs []PaymentOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return newNotFoundError("not found")
		}
		if err != nil {
			return newPersistenceError()
		}
		if o.BuyerID != buyerID {
			return newNotFoundError("not found")
		}

		payments, err := r.Payments().ListByOrderID(ctx, orderID)
		if err != nil {
			return newPersistenceError()
		}

		outs = make([]PaymentOutput, 0, len(payments))
		for _, p := range payments {
			outs = append(outs, toPaymentOutput(p))
		}
		return nil
	})

	if err != nil {
		return []PaymentOutput{}, err
	}
	return outs, nil
}

func toPaymentOutput(p model.Payment) PaymentOutput {
	return PaymentOutput{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Reference: p.Reference,
		Method:    p.Method,
		Amount:    p.Amount,
		Status:    string(p.Status),
		Detail:    p.Detail,
		CreatedAt: p.CreatedAt,
	}
}
