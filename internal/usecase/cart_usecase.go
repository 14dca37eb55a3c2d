package usecase

import (
	"context"
	"net/http"
	"strings"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"go.uber.org/zap"
)

// CartUsecase は /cart の業務ロジックです。
// 正本はin-memoryのCartStore、DBミラーは派生データとして全置換で追随させます。
type CartUsecase struct {
	store   repo.CartStore
	mirror  repo.CartMirrorRepository
	catalog repo.FoodRepository
	logger  *zap.Logger
}

func NewCartUsecase(
	store repo.CartStore,
	mirror repo.CartMirrorRepository,
	catalog repo.FoodRepository,
	logger *zap.Logger,
) *CartUsecase {
	return &CartUsecase{
		store:   store,
		mirror:  mirror,
		catalog: catalog,
		logger:  logger,
	}
}

type CartLineResponse struct {
	FoodID    int64  `json:"food_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Note      string `json:"note"`
	Subtotal  int64  `json:"subtotal"`
}

type CartResponse struct {
	ShopID     int64              `json:"shop_id"`
	Lines      []CartLineResponse `json:"lines"`
	Subtotal   int64              `json:"subtotal"`
	CountItems int64              `json:"count_items"`
}

type AddCartItemInput struct {
	FoodID   int64
	Quantity int64
	Note     string
}

// AddCartItemResult のSwitchedFromShopIDは、別店舗のカートを破棄して
// 切り替えたときだけ非0（「cart switched」シグナル）
type AddCartItemResult struct {
	Cart               CartResponse `json:"cart"`
	SwitchedFromShopID int64        `json:"switched_from_shop_id,omitempty"`
}

// AddItem はカートに追加（同一フード＋同一noteは数量加算）。
// 別店舗の行が残っていたら、先にその店舗のカートを丸ごと破棄する
func (u *CartUsecase) AddItem(ctx context.Context, buyerID int64, in AddCartItemInput) (AddCartItemResult, error) {
	if buyerID <= 0 {
		return AddCartItemResult{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.FoodID <= 0 {
		return AddCartItemResult{}, newValidationError("invalid food_id")
	}

	//数量は1以上に正規化、noteはtrim
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	note := strings.TrimSpace(in.Note)

	//カタログ解決（店舗ID・名前・価格・在庫）
	food, err := u.catalog.FindByID(ctx, in.FoodID)
	if err == repo.ErrNotFound {
		return AddCartItemResult{}, newNotFoundError("food not found")
	}
	if err != nil {
		return AddCartItemResult{}, newPersistenceError()
	}
	if !food.IsActive {
		return AddCartItemResult{}, newNotFoundError("food not found")
	}

	shopID := food.ShopID

	//1カート1店舗ルール：別店舗の行はここで全部消す
	var switchedFrom int64
	for _, existing := range u.store.ShopIDs(buyerID) {
		if existing == shopID {
			continue
		}
		if switchedFrom == 0 {
			switchedFrom = existing
		}
		u.store.Remove(buyerID, existing)
	}
	if switchedFrom != 0 {
		if err := u.mirror.DeleteAllForBuyer(ctx, buyerID); err != nil {
			u.logger.Warn("cart mirror cleanup failed", zap.Int64("buyer_id", buyerID), zap.Error(err))
		}
	}

	lines := u.store.Lines(buyerID, shopID)

	//同一フードの累計要求量（note違いも合算）を実在庫と突き合わせる
	var currentUsage int64
	for _, l := range lines {
		if l.FoodID == in.FoodID {
			currentUsage += l.Quantity
		}
	}
	if currentUsage+qty > food.Stock {
		//カートは変更しない
		return AddCartItemResult{}, newConflictError("insufficient stock")
	}

	//同一フード＋同一noteはマージ、なければ末尾に追加
	idx := findLine(lines, in.FoodID, note)
	if idx >= 0 {
		lines[idx].Quantity += qty
	} else {
		lines = append(lines, model.CartLine{
			FoodID:    in.FoodID,
			ShopID:    shopID,
			Name:      food.Name,
			UnitPrice: food.Price,
			Quantity:  qty,
			Note:      note,
		})
	}

	u.store.Replace(buyerID, shopID, lines)
	u.mirrorReplace(ctx, buyerID, shopID, lines)

	return AddCartItemResult{
		Cart:               buildCartResponse(shopID, lines),
		SwitchedFromShopID: switchedFrom,
	}, nil
}

type UpdateCartItemInput struct {
	ShopID   int64
	FoodID   int64
	Note     string
	Quantity int64
}

// UpdateQuantity は数量変更。0以下は削除に委譲する
func (u *CartUsecase) UpdateQuantity(ctx context.Context, buyerID int64, in UpdateCartItemInput) (CartResponse, error) {
	if buyerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ShopID <= 0 || in.FoodID <= 0 {
		return CartResponse{}, newValidationError("invalid id")
	}

	if in.Quantity <= 0 {
		return u.RemoveItem(ctx, buyerID, in.ShopID, in.FoodID, in.Note)
	}

	note := strings.TrimSpace(in.Note)
	lines := u.store.Lines(buyerID, in.ShopID)

	idx := findLine(lines, in.FoodID, note)
	if idx < 0 {
		return CartResponse{}, newNotFoundError("item not in cart")
	}

	//対象行を除いた同一フードの使用量＋新数量で在庫を再検証
	var otherUsage int64
	for i, l := range lines {
		if i != idx && l.FoodID == in.FoodID {
			otherUsage += l.Quantity
		}
	}

	food, err := u.catalog.FindByID(ctx, in.FoodID)
	if err == repo.ErrNotFound {
		return CartResponse{}, newNotFoundError("food not found")
	}
	if err != nil {
		return CartResponse{}, newPersistenceError()
	}
	if otherUsage+in.Quantity > food.Stock {
		return CartResponse{}, newConflictError("insufficient stock")
	}

	lines[idx].Quantity = in.Quantity
	u.store.Replace(buyerID, in.ShopID, lines)
	u.mirrorReplace(ctx, buyerID, in.ShopID, lines)

	return buildCartResponse(in.ShopID, lines), nil
}

// RemoveItem は行削除。カートが空になったら店舗エントリごと落とす
func (u *CartUsecase) RemoveItem(ctx context.Context, buyerID int64, shopID int64, foodID int64, note string) (CartResponse, error) {
	if buyerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if shopID <= 0 || foodID <= 0 {
		return CartResponse{}, newValidationError("invalid id")
	}

	trimmed := strings.TrimSpace(note)
	lines := u.store.Lines(buyerID, shopID)

	idx := findLine(lines, foodID, trimmed)
	if idx < 0 {
		return CartResponse{}, newNotFoundError("item not in cart")
	}

	lines = append(lines[:idx], lines[idx+1:]...)

	if len(lines) == 0 {
		u.store.Remove(buyerID, shopID)
	} else {
		u.store.Replace(buyerID, shopID, lines)
	}
	u.mirrorReplace(ctx, buyerID, shopID, lines)

	return buildCartResponse(shopID, lines), nil
}

// Total は小計と個数を返す。純粋な読み取りで副作用なし
func (u *CartUsecase) Total(buyerID int64, shopID int64) (CartResponse, error) {
	if buyerID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if shopID <= 0 {
		return CartResponse{}, newValidationError("invalid shop_id")
	}

	return buildCartResponse(shopID, u.store.Lines(buyerID, shopID)), nil
}

// ミラーはbest-effort。失敗はログに残すだけで正本の更新は巻き戻さない
func (u *CartUsecase) mirrorReplace(ctx context.Context, buyerID int64, shopID int64, lines []model.CartLine) {
	if err := u.mirror.Replace(ctx, buyerID, shopID, lines); err != nil {
		u.logger.Warn("cart mirror replace failed",
			zap.Int64("buyer_id", buyerID),
			zap.Int64("shop_id", shopID),
			zap.Error(err),
		)
	}
}

// 同一フード＋同一note（trim済み）の行indexを返す。無ければ-1
func findLine(lines []model.CartLine, foodID int64, note string) int {
	for i, l := range lines {
		if l.FoodID == foodID && strings.TrimSpace(l.Note) == note {
			return i
		}
	}
	return -1
}

func buildCartResponse(shopID int64, lines []model.CartLine) CartResponse {
	respLines := make([]CartLineResponse, 0, len(lines))
	var subtotal int64
	var count int64

	for _, l := range lines {
		respLines = append(respLines, CartLineResponse{
			FoodID:    l.FoodID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Note:      l.Note,
			Subtotal:  l.Subtotal(),
		})
		subtotal += l.Subtotal()
		count += l.Quantity
	}

	return CartResponse{
		ShopID:     shopID,
		Lines:      respLines,
		Subtotal:   subtotal,
		CountItems: count,
	}
}
