package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"go.uber.org/zap"
)

const (
	adjustReasonOrderCreated   = "ORDER_CREATED"
	adjustReasonOrderCancelled = "ORDER_CANCELLED"
	adjustReasonOrderRejected  = "ORDER_REJECTED"
	adjustReasonDraftPurged    = "DRAFT_PURGED"
)

// 注文作成後のbest-effort通知。失敗してもチェックアウトは成功のまま
type Notifier interface {
	OrderCreated(ctx context.Context, order model.Order)
}

type OrderUsecase struct {
	tx       repo.TransactionManager
	cart     repo.CartStore
	mirror   repo.CartMirrorRepository
	notifier Notifier
	maxLines int
	logger   *zap.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	cart repo.CartStore,
	mirror repo.CartMirrorRepository,
	notifier Notifier,
	maxLines int,
	logger *zap.Logger,
) *OrderUsecase {
	if maxLines <= 0 {
		maxLines = 200
	}
	return &OrderUsecase{
		tx:       tx,
		cart:     cart,
		mirror:   mirror,
		notifier: notifier,
		maxLines: maxLines,
		logger:   logger,
	}
}

type OrderLineInput struct {
	FoodID   int64
	Quantity int64
	Note     string
}

type OrderLineOutput struct {
	FoodID    int64  `json:"food_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
	Note      string `json:"note,omitempty"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	BuyerID       int64             `json:"buyer_id"`
	ShopID        int64             `json:"shop_id"`
	Status        string            `json:"status"`
	TotalPrice    int64             `json:"total_price"`
	Note          string            `json:"note,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	PaidAt        *time.Time        `json:"paid_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	Lines         []OrderLineOutput `json:"lines"`
}

type CheckoutInput struct {
	ShopID int64
	Note   string
}

// Checkout はセッションカートを注文に変換する。
// 成功したらその店舗のカートとミラーをクリアし、店舗へ通知を送る
func (u *OrderUsecase) Checkout(ctx context.Context, buyerID int64, in CheckoutInput) (OrderOutput, error) {
	if buyerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ShopID <= 0 {
		return OrderOutput{}, newValidationError("invalid shop_id")
	}

	cartLines := u.cart.Lines(buyerID, in.ShopID)
	if len(cartLines) == 0 {
		return OrderOutput{}, newValidationError("cart empty")
	}

	lines := make([]OrderLineInput, 0, len(cartLines))
	for _, l := range cartLines {
		lines = append(lines, OrderLineInput{
			FoodID:   l.FoodID,
			Quantity: l.Quantity,
			Note:     l.Note,
		})
	}

	out, err := u.CreateFromLines(ctx, buyerID, in.ShopID, in.Note, lines)
	if err != nil {
		return OrderOutput{}, err
	}

	//コミット後にだけカートを消す
	u.cart.Remove(buyerID, in.ShopID)
	if err := u.mirror.DeleteAllForBuyer(ctx, buyerID); err != nil {
		u.logger.Warn("cart mirror cleanup after checkout failed",
			zap.Int64("buyer_id", buyerID),
			zap.Error(err),
		)
	}

	return out, nil
}

// CreateFromLines は行リストから注文を作る。検証・合計計算・明細挿入・在庫減算を
// 1トランザクション＋同一行ロックの中で行う。どこかで失敗したら全ロールバック
func (u *OrderUsecase) CreateFromLines(ctx context.Context, buyerID int64, shopID int64, note string, lines []OrderLineInput) (OrderOutput, error) {
	if buyerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if shopID <= 0 {
		return OrderOutput{}, newValidationError("invalid shop_id")
	}
	if len(lines) == 0 {
		return OrderOutput{}, newValidationError("no lines to order")
	}
	if len(lines) > u.maxLines {
		return OrderOutput{}, newValidationError("too many lines")
	}
	for _, l := range lines {
		if l.FoodID <= 0 {
			return OrderOutput{}, newValidationError("invalid food_id")
		}
		if l.Quantity <= 0 {
			return OrderOutput{}, newValidationError("invalid quantity")
		}
	}

	note = strings.TrimSpace(note)

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//放置された未決済注文を先に片付ける（在庫を戻してから消す）
		if err := u.purgeAbandoned(ctx, r, buyerID); err != nil {
			return err
		}

		//参照フードの行をまとめてロック
		distinct := distinctFoodIDs(lines)
		locked, err := r.Stock().LockByIDs(ctx, distinct)
		if err != nil {
			return newPersistenceError()
		}
		foods := make(map[int64]model.Food, len(locked))
		for _, f := range locked {
			foods[f.ID] = f
		}

		//フードID単位の合計要求量（note違いの重複行は合算して在庫判定）
		requested := make(map[int64]int64, len(distinct))
		for _, l := range lines {
			requested[l.FoodID] += l.Quantity
		}

		//ロック済みスナップショットに対して検証
		for _, id := range distinct {
			f, ok := foods[id]
			if !ok || !f.IsActive {
				return newNotFoundError("food not found")
			}
			if f.ShopID != shopID {
				return newConflictError("food does not belong to shop")
			}
			if f.Stock < requested[id] {
				return newConflictError("insufficient stock")
			}
		}

		//合計はロック済み価格スナップショットから計算
		var total int64
		orderLines := make([]model.OrderLine, 0, len(lines))
		now := time.Now()
		for _, l := range lines {
			f := foods[l.FoodID]
			subtotal := f.Price * l.Quantity
			total += subtotal

			orderLines = append(orderLines, model.OrderLine{
				FoodID:            l.FoodID,
				FoodNameSnapshot:  f.Name,
				UnitPriceSnapshot: f.Price,
				Quantity:          l.Quantity,
				Subtotal:          subtotal,
				Note:              strings.TrimSpace(l.Note),
				CreatedAt:         now,
			})
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			BuyerID:    buyerID,
			ShopID:     shopID,
			Status:     model.OrderStatusAwaitingPayment,
			TotalPrice: total,
			Note:       note,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return newPersistenceError()
		}

		if err := r.OrderLines().CreateBulk(ctx, orderID, orderLines); err != nil {
			return newPersistenceError()
		}

		//在庫減算はフードID単位の合計量で1回ずつ
		for _, id := range distinct {
			if err := r.Stock().Decrease(ctx, id, requested[id]); err != nil {
				return newPersistenceError()
			}
			if err := r.Stock().CreateAdjustment(ctx, model.StockAdjustment{
				FoodID:    id,
				OrderID:   orderID,
				Delta:     -requested[id],
				Reason:    adjustReasonOrderCreated,
				CreatedAt: now,
			}); err != nil {
				return newPersistenceError()
			}
		}

		out = OrderOutput{
			ID:         orderID,
			BuyerID:    buyerID,
			ShopID:     shopID,
			Status:     string(model.OrderStatusAwaitingPayment),
			TotalPrice: total,
			Note:       note,
			CreatedAt:  now,
			Lines:      toLineOutputs(orderLines),
		}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//通知はコミット後・best-effort。失敗はNotifier側でログされるだけ
	u.notifier.OrderCreated(ctx, model.Order{
		ID:      out.ID,
		BuyerID: out.BuyerID,
		ShopID:  out.ShopID,
	})

	return out, nil
}

// 同じ買い手の支払い前注文を丸ごと破棄する。
// 作成時に減らした在庫は戻してから消す（在庫会計を壊さないため）
func (u *OrderUsecase) purgeAbandoned(ctx context.Context, r repo.TxRepos, buyerID int64) error {
	stale, err := r.Orders().ListAwaitingPaymentByBuyer(ctx, buyerID)
	if err != nil {
		return newPersistenceError()
	}
	if len(stale) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(stale))
	now := time.Now()
	for _, o := range stale {
		ids = append(ids, o.ID)

		lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
		if err != nil {
			return newPersistenceError()
		}
		for foodID, qty := range aggregateQuantities(lines) {
			if err := r.Stock().Increase(ctx, foodID, qty); err != nil {
				return newPersistenceError()
			}
			if err := r.Stock().CreateAdjustment(ctx, model.StockAdjustment{
				FoodID:    foodID,
				OrderID:   o.ID,
				Delta:     qty,
				Reason:    adjustReasonDraftPurged,
				CreatedAt: now,
			}); err != nil {
				return newPersistenceError()
			}
		}
	}

	if err := r.OrderLines().DeleteByOrderIDs(ctx, ids); err != nil {
		return newPersistenceError()
	}
	if err := r.Orders().DeleteByIDs(ctx, ids); err != nil {
		return newPersistenceError()
	}
	return nil
}

// GetOrderDetail は注文詳細の読み取り専用ビュー。
// 買い手本人か、その注文の店舗オーナーだけが見られる（他人には存在しない扱い）
func (u *OrderUsecase) GetOrderDetail(ctx context.Context, callerID int64, orderID int64) (OrderOutput, error) {
	if callerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, newValidationError("invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return newNotFoundError("not found")
		}
		if err != nil {
			return newPersistenceError()
		}

		if o.BuyerID != callerID {
			shop, err := r.Shops().FindByID(ctx, o.ShopID)
			if err != nil || shop.OwnerUserID != callerID {
				return newNotFoundError("not found")
			}
		}

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

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *OrderUsecase) ListOrdersForBuyer(ctx context.Context, buyerID int64, page int, limit int) (OrderListOutput, error) {
	if buyerID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return OrderListOutput{}, newValidationError("invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, newValidationError("invalid limit")
	}

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByBuyerID(ctx, buyerID, page, limit)
		if err != nil {
			return newPersistenceError()
		}

		items := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
			if err != nil {
				return newPersistenceError()
			}
			items = append(items, toOrderOutput(o, lines))
		}

		out = OrderListOutput{
			Items: items,
			Total: total,
			Page:  page,
			Limit: limit,
		}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// ListOrdersForSeller は売り手の店舗に入った注文一覧（ステータス絞り込み可）
func (u *OrderUsecase) ListOrdersForSeller(ctx context.Context, sellerUserID int64, statusFilter string) ([]OrderOutput, error) {
	if sellerUserID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	statusFilter = strings.TrimSpace(statusFilter)
	if statusFilter != "" && !isKnownStatus(statusFilter) {
		return []OrderOutput{}, newValidationError("invalid status")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		shop, err := r.Shops().FindByOwnerUserID(ctx, sellerUserID)
		if err == repo.ErrNotFound {
			return newNotFoundError("shop not found")
		}
		if err != nil {
			return newPersistenceError()
		}

		orders, err := r.Orders().ListForSeller(ctx, repo.SellerOrderListFilter{
			ShopID: shop.ID,
			Status: statusFilter,
		})
		if err != nil {
			return newPersistenceError()
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
			if err != nil {
				return newPersistenceError()
			}
			outs = append(outs, toOrderOutput(o, lines))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func distinctFoodIDs(lines []OrderLineInput) []int64 {
	seen := make(map[int64]bool, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if !seen[l.FoodID] {
			seen[l.FoodID] = true
			ids = append(ids, l.FoodID)
		}
	}
	return ids
}

// フードID単位で数量を合算（在庫戻し用）
func aggregateQuantities(lines []model.OrderLine) map[int64]int64 {
	agg := make(map[int64]int64, len(lines))
	for _, l := range lines {
		agg[l.FoodID] += l.Quantity
	}
	return agg
}

func isKnownStatus(s string) bool {
	switch model.OrderStatus(s) {
	case model.OrderStatusAwaitingPayment,
		model.OrderStatusPaymentRecorded,
		model.OrderStatusAccepted,
		model.OrderStatusOutForDelivery,
		model.OrderStatusCompleted,
		model.OrderStatusCancelled,
		model.OrderStatusRejected:
		return true
	}
	return false
}

func toLineOutputs(lines []model.OrderLine) []OrderLineOutput {
	outs := make([]OrderLineOutput, 0, len(lines))
	for _, l := range lines {
		outs = append(outs, OrderLineOutput{
			FoodID:    l.FoodID,
			Name:      l.FoodNameSnapshot,
			UnitPrice: l.UnitPriceSnapshot,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
			Note:      l.Note,
		})
	}
	return outs
}

func toOrderOutput(o model.Order, lines []model.OrderLine) OrderOutput {
	return OrderOutput{
		ID:            o.ID,
		BuyerID:       o.BuyerID,
		ShopID:        o.ShopID,
		Status:        string(o.Status),
		TotalPrice:    o.TotalPrice,
		Note:          o.Note,
		PaymentMethod: o.PaymentMethod,
		PaidAt:        o.PaidAt,
		CreatedAt:     o.CreatedAt,
		Lines:         toLineOutputs(lines),
	}
}
