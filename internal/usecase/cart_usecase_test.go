package usecase_test

import (
	"context"
	"testing"

	"foodcourt/internal/domain/model"
	"foodcourt/internal/infra/cartmirror"
	"foodcourt/internal/infra/cartstore"
	"foodcourt/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newCartUsecase(catalog *FoodRepoMock) (*usecase.CartUsecase, *cartstore.MemoryCartStore) {
	store := cartstore.NewMemoryCartStore()
	mirror := cartmirror.NewMemoryCartMirror()
	uc := usecase.NewCartUsecase(store, mirror, catalog, zap.NewNop())
	return uc, store
}

func TestCartUsecase_AddItem_InvalidFoodID(t *testing.T) {
	uc, _ := newCartUsecase(new(FoodRepoMock))

	_, err := uc.AddItem(context.Background(), 1, usecase.AddCartItemInput{FoodID: 0, Quantity: 1})
	assertErrContains(t, err, "invalid food_id")
}

func TestCartUsecase_AddItem_QuantityClampedToOne(t *testing.T) {
	catalog := new(FoodRepoMock)
	catalog.On("FindByID", mock.Anything, int64(10)).Return(model.Food{
		ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 20, IsActive: true,
	}, nil)

	uc, _ := newCartUsecase(catalog)

	res, err := uc.AddItem(context.Background(), 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 0})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), res.Cart.Lines[0].Quantity)
}

func TestCartUsecase_AddItem_MergesSameFoodAndNote(t *testing.T) {
	catalog := new(FoodRepoMock)
	catalog.On("FindByID", mock.Anything, int64(10)).Return(model.Food{
		ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 20, IsActive: true,
	}, nil)

	uc, _ := newCartUsecase(catalog)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 2, Note: "pedas"})
	assert.NoError(t, err)

	//noteはtrimしてから比較される
	res, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 3, Note: "  pedas  "})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(res.Cart.Lines))
	assert.Equal(t, int64(5), res.Cart.Lines[0].Quantity)
	assert.Equal(t, int64(75000), res.Cart.Subtotal)
}

func TestCartUsecase_AddItem_DifferentNoteKeepsSeparateLines(t *testing.T) {
	catalog := new(FoodRepoMock)
	catalog.On("FindByID", mock.Anything, int64(10)).Return(model.Food{
		ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 20, IsActive: true,
	}, nil)

	uc, _ := newCartUsecase(catalog)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 2, Note: "pedas"})
	assert.NoError(t, err)

	res, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 1, Note: ""})
	assert.NoError(t, err)
	assert.Equal(t, 2, len(res.Cart.Lines))
	assert.Equal(t, int64(3), res.Cart.CountItems)
}

func TestCartUsecase_AddItem_InsufficientStock_CumulativeAcrossNotes(t *testing.T) {
	catalog := new(FoodRepoMock)
	catalog.On("FindByID", mock.Anything, int64(10)).Return(model.Food{
		ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 5, IsActive: true,
	}, nil)

	uc, store := newCartUsecase(catalog)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 3, Note: "pedas"})
	assert.NoError(t, err)

	//カート内3 + 追加3 > 在庫5 → Conflict。カートは変更されない
	_, err = uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 3, Note: ""})
	assertErrContains(t, err, "insufficient stock")

	lines := store.Lines(1, 5)
	assert.Equal(t, 1, len(lines))
	assert.Equal(t, int64(3), lines[0].Quantity)
}

func TestCartUsecase_AddItem_SwitchesShopAndClearsOldCart(t *testing.T) {
	catalog := new(FoodRepoMock)
	catalog.On("FindByID", mock.Anything, int64(10)).Return(model.Food{
		ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 20, IsActive: true,
	}, nil)
	catalog.On("FindByID", mock.Anything, int64(20)).Return(model.Food{
		ID: 20, ShopID: 7, Name: "Es Teh", Price: 5000, Stock: 50, IsActive: true,
	}, nil)

	uc, store := newCartUsecase(catalog)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 2})
	assert.NoError(t, err)

	res, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 20, Quantity: 1})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), res.SwitchedFromShopID)
	assert.Equal(t, int64(7), res.Cart.ShopID)

	//旧店舗のカートは丸ごと消えている
	assert.Equal(t, 0, len(store.Lines(1, 5)))
	assert.Equal(t, []int64{7}, store.ShopIDs(1))
}

func TestCartUsecase_AddItem_SameShop_NoSwitchSignal(t *testing.T) {
	catalog := new(FoodRepoMock)
	catalog.On("FindByID", mock.Anything, int64(10)).Return(model.Food{
		ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 20, IsActive: true,
	}, nil)
	catalog.On("FindByID", mock.Anything, int64(11)).Return(model.Food{
		ID: 11, ShopID: 5, Name: "Ayam Bakar", Price: 20000, Stock: 10, IsActive: true,
	}, nil)

	uc, _ := newCartUsecase(catalog)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 1})
	assert.NoError(t, err)

	res, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 11, Quantity: 1})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), res.SwitchedFromShopID)
	assert.Equal(t, 2, len(res.Cart.Lines))
}

func TestCartUsecase_AddItem_InactiveFood_NotFound(t *testing.T) {
	catalog := new(FoodRepoMock)
	catalog.On("FindByID", mock.Anything, int64(10)).Return(model.Food{
		ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 20, IsActive: false,
	}, nil)

	uc, _ := newCartUsecase(catalog)

	_, err := uc.AddItem(context.Background(), 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 1})
	assertErrContains(t, err, "food not found")
}

func TestCartUsecase_UpdateQuantity_ZeroDelegatesToRemove(t *testing.T) {
	catalog := new(FoodRepoMock)
	catalog.On("FindByID", mock.Anything, int64(10)).Return(model.Food{
		ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 20, IsActive: true,
	}, nil)

	uc, store := newCartUsecase(catalog)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 2})
	assert.NoError(t, err)

	res, err := uc.UpdateQuantity(ctx, 1, usecase.UpdateCartItemInput{ShopID: 5, FoodID: 10, Quantity: 0})
	assert.NoError(t, err)
	assert.Equal(t, 0, len(res.Lines))

	//空になったら店舗エントリごと消える
	assert.Equal(t, 0, len(store.ShopIDs(1)))
}

func TestCartUsecase_UpdateQuantity_RevalidatesStock(t *testing.T) {
	catalog := new(FoodRepoMock)
	catalog.On("FindByID", mock.Anything, int64(10)).Return(model.Food{
		ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 5, IsActive: true,
	}, nil)

	uc, _ := newCartUsecase(catalog)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 2, Note: "pedas"})
	assert.NoError(t, err)
	_, err = uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 2, Note: ""})
	assert.NoError(t, err)

	//他の行の使用量2 + 新数量4 > 在庫5
	_, err = uc.UpdateQuantity(ctx, 1, usecase.UpdateCartItemInput{ShopID: 5, FoodID: 10, Note: "pedas", Quantity: 4})
	assertErrContains(t, err, "insufficient stock")

	//他の行2 + 新数量3 = 在庫ちょうどはOK
	res, err := uc.UpdateQuantity(ctx, 1, usecase.UpdateCartItemInput{ShopID: 5, FoodID: 10, Note: "pedas", Quantity: 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), res.CountItems)
}

func TestCartUsecase_UpdateQuantity_MissingLine_NotFound(t *testing.T) {
	uc, _ := newCartUsecase(new(FoodRepoMock))

	_, err := uc.UpdateQuantity(context.Background(), 1, usecase.UpdateCartItemInput{ShopID: 5, FoodID: 10, Quantity: 2})
	assertErrContains(t, err, "item not in cart")
}

func TestCartUsecase_RemoveItem_MissingLine_NotFound(t *testing.T) {
	uc, _ := newCartUsecase(new(FoodRepoMock))

	_, err := uc.RemoveItem(context.Background(), 1, 5, 10, "")
	assertErrContains(t, err, "item not in cart")
}

func TestCartUsecase_Total_SumOfSubtotals(t *testing.T) {
	catalog := new(FoodRepoMock)
	catalog.On("FindByID", mock.Anything, int64(10)).Return(model.Food{
		ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 20, IsActive: true,
	}, nil)
	catalog.On("FindByID", mock.Anything, int64(11)).Return(model.Food{
		ID: 11, ShopID: 5, Name: "Es Teh", Price: 5000, Stock: 50, IsActive: true,
	}, nil)

	uc, _ := newCartUsecase(catalog)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 10, Quantity: 1})
	assert.NoError(t, err)
	_, err = uc.AddItem(ctx, 1, usecase.AddCartItemInput{FoodID: 11, Quantity: 2})
	assert.NoError(t, err)

	res, err := uc.Total(1, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(25000), res.Subtotal)
	assert.Equal(t, int64(3), res.CountItems)

	//Totalは読み取り専用
	res2, err := uc.Total(1, 5)
	assert.NoError(t, err)
	assert.Equal(t, res.Subtotal, res2.Subtotal)
}
