package usecase_test

import (
	"context"
	"testing"

	"foodcourt/internal/domain/model"
	"foodcourt/internal/infra/cartmirror"
	"foodcourt/internal/infra/cartstore"
	repo "foodcourt/internal/repository"
	"foodcourt/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type orderFixture struct {
	tx         *TxManagerMock
	orders     *OrderRepoMock
	orderLines *OrderLineRepoMock
	stock      *StockRepoMock
	shops      *ShopRepoMock
	notifier   *NotifierMock
	store      *cartstore.MemoryCartStore
	uc         *usecase.OrderUsecase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		tx:         new(TxManagerMock),
		orders:     new(OrderRepoMock),
		orderLines: new(OrderLineRepoMock),
		stock:      new(StockRepoMock),
		shops:      new(ShopRepoMock),
		notifier:   new(NotifierMock),
		store:      cartstore.NewMemoryCartStore(),
	}
	f.tx.Repos = &TxReposMock{
		orders:     f.orders,
		orderLines: f.orderLines,
		stock:      f.stock,
		shops:      f.shops,
	}
	f.uc = usecase.NewOrderUsecase(f.tx, f.store, cartmirror.NewMemoryCartMirror(), f.notifier, 200, zap.NewNop())
	return f
}

func TestOrderUsecase_Checkout_EmptyCart(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.Checkout(context.Background(), 1, usecase.CheckoutInput{ShopID: 5})
	assertErrContains(t, err, "cart empty")
}

func TestOrderUsecase_Checkout_Success_TotalAndStock(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.store.Replace(1, 5, []model.CartLine{
		{FoodID: 10, ShopID: 5, Name: "Nasi Goreng", UnitPrice: 15000, Quantity: 1},
		{FoodID: 11, ShopID: 5, Name: "Es Teh", UnitPrice: 5000, Quantity: 2},
	})

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("ListAwaitingPaymentByBuyer", mock.Anything, int64(1)).Return([]model.Order{}, nil)
	f.stock.On("LockByIDs", mock.Anything, []int64{10, 11}).Return([]model.Food{
		{ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 3, IsActive: true},
		{ID: 11, ShopID: 5, Name: "Es Teh", Price: 5000, Stock: 10, IsActive: true},
	}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(100), nil)
	f.orderLines.On("CreateBulk", mock.Anything, int64(100), mock.Anything).Return(nil)
	f.stock.On("Decrease", mock.Anything, int64(10), int64(1)).Return(nil)
	f.stock.On("Decrease", mock.Anything, int64(11), int64(2)).Return(nil)
	f.stock.On("CreateAdjustment", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("OrderCreated", mock.Anything, mock.Anything).Return()

	out, err := f.uc.Checkout(ctx, 1, usecase.CheckoutInput{ShopID: 5})
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, string(model.OrderStatusAwaitingPayment), out.Status)

	//合計はロック済み価格スナップショットから：15000*1 + 5000*2
	assert.Equal(t, int64(25000), out.TotalPrice)
	assert.Equal(t, 2, len(out.Lines))

	//成功したらカートは消えている
	assert.Equal(t, 0, len(f.store.Lines(1, 5)))

	f.stock.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestOrderUsecase_CreateFromLines_AggregatesQuantityAcrossNotes(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("ListAwaitingPaymentByBuyer", mock.Anything, int64(1)).Return([]model.Order{}, nil)
	f.stock.On("LockByIDs", mock.Anything, []int64{10}).Return([]model.Food{
		{ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 5, IsActive: true},
	}, nil)

	//note違いの2行（3+3=6）は在庫5に対して合算で判定される
	_, err := f.uc.CreateFromLines(ctx, 1, 5, "", []usecase.OrderLineInput{
		{FoodID: 10, Quantity: 3, Note: "pedas"},
		{FoodID: 10, Quantity: 3, Note: ""},
	})
	assertErrContains(t, err, "insufficient stock")
}

func TestOrderUsecase_CreateFromLines_AggregatedDecrementOncePerFood(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("ListAwaitingPaymentByBuyer", mock.Anything, int64(1)).Return([]model.Order{}, nil)
	f.stock.On("LockByIDs", mock.Anything, []int64{10}).Return([]model.Food{
		{ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 10, IsActive: true},
	}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(101), nil)
	f.orderLines.On("CreateBulk", mock.Anything, int64(101), mock.Anything).Return(nil)

	//減算はフードID単位で1回、合算量で呼ばれる
	f.stock.On("Decrease", mock.Anything, int64(10), int64(5)).Return(nil).Once()
	f.stock.On("CreateAdjustment", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("OrderCreated", mock.Anything, mock.Anything).Return()

	out, err := f.uc.CreateFromLines(ctx, 1, 5, "", []usecase.OrderLineInput{
		{FoodID: 10, Quantity: 2, Note: "pedas"},
		{FoodID: 10, Quantity: 3, Note: ""},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(75000), out.TotalPrice)
	assert.Equal(t, 2, len(out.Lines))

	f.stock.AssertExpectations(t)
}

func TestOrderUsecase_CreateFromLines_FoodFromAnotherShop_Conflict(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("ListAwaitingPaymentByBuyer", mock.Anything, int64(1)).Return([]model.Order{}, nil)
	f.stock.On("LockByIDs", mock.Anything, []int64{10}).Return([]model.Food{
		{ID: 10, ShopID: 9, Name: "Nasi Goreng", Price: 15000, Stock: 10, IsActive: true},
	}, nil)

	_, err := f.uc.CreateFromLines(ctx, 1, 5, "", []usecase.OrderLineInput{
		{FoodID: 10, Quantity: 1},
	})
	assertErrContains(t, err, "food does not belong to shop")
}

func TestOrderUsecase_CreateFromLines_InactiveFood_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("ListAwaitingPaymentByBuyer", mock.Anything, int64(1)).Return([]model.Order{}, nil)
	f.stock.On("LockByIDs", mock.Anything, []int64{10}).Return([]model.Food{
		{ID: 10, ShopID: 5, Name: "Nasi Goreng", Price: 15000, Stock: 10, IsActive: false},
	}, nil)

	_, err := f.uc.CreateFromLines(ctx, 1, 5, "", []usecase.OrderLineInput{
		{FoodID: 10, Quantity: 1},
	})
	assertErrContains(t, err, "food not found")
}

func TestOrderUsecase_CreateFromLines_PurgesAbandonedAndRestocks(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)

	//買い手には放置された未決済注文が1件ある
	f.orders.On("ListAwaitingPaymentByBuyer", mock.Anything, int64(1)).Return([]model.Order{
		{ID: 90, BuyerID: 1, ShopID: 5, Status: model.OrderStatusAwaitingPayment},
	}, nil)
	f.orderLines.On("ListByOrderID", mock.Anything, int64(90)).Return([]model.OrderLine{
		{FoodID: 10, Quantity: 2},
	}, nil)
	f.stock.On("Increase", mock.Anything, int64(10), int64(2)).Return(nil).Once()
	f.orderLines.On("DeleteByOrderIDs", mock.Anything, []int64{90}).Return(nil)
	f.orders.On("DeleteByIDs", mock.Anything, []int64{90}).Return(nil)

	f.stock.On("LockByIDs", mock.Anything, []int64{11}).Return([]model.Food{
		{ID: 11, ShopID: 5, Name: "Es Teh", Price: 5000, Stock: 10, IsActive: true},
	}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(102), nil)
	f.orderLines.On("CreateBulk", mock.Anything, int64(102), mock.Anything).Return(nil)
	f.stock.On("Decrease", mock.Anything, int64(11), int64(1)).Return(nil)
	f.stock.On("CreateAdjustment", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("OrderCreated", mock.Anything, mock.Anything).Return()

	out, err := f.uc.CreateFromLines(ctx, 1, 5, "", []usecase.OrderLineInput{
		{FoodID: 11, Quantity: 1},
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(102), out.ID)

	f.orders.AssertExpectations(t)
	f.stock.AssertExpectations(t)
}

func TestOrderUsecase_CreateFromLines_TooManyLines(t *testing.T) {
	f := newOrderFixture()

	lines := make([]usecase.OrderLineInput, 201)
	for i := range lines {
		lines[i] = usecase.OrderLineInput{FoodID: int64(i + 1), Quantity: 1}
	}

	_, err := f.uc.CreateFromLines(context.Background(), 1, 5, "", lines)
	assertErrContains(t, err, "too many lines")
}

func TestOrderUsecase_GetOrderDetail_BuyerCanSee(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(model.Order{
		ID: 100, BuyerID: 1, ShopID: 5, Status: model.OrderStatusAwaitingPayment, TotalPrice: 25000,
	}, nil)
	f.orderLines.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderLine{}, nil)

	out, err := f.uc.GetOrderDetail(ctx, 1, 100)
	assert.NoError(t, err)
	assert.Equal(t, int64(25000), out.TotalPrice)
}

func TestOrderUsecase_GetOrderDetail_StrangerGetsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(model.Order{
		ID: 100, BuyerID: 1, ShopID: 5, Status: model.OrderStatusAwaitingPayment,
	}, nil)

	//店舗オーナーでもない第三者
	f.shops.On("FindByID", mock.Anything, int64(5)).Return(model.Shop{
		ID: 5, OwnerUserID: 2,
	}, nil)

	_, err := f.uc.GetOrderDetail(ctx, 3, 100)
	assertErrContains(t, err, "not found")
}

func TestOrderUsecase_GetOrderDetail_ShopOwnerCanSee(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("FindByID", mock.Anything, int64(100)).Return(model.Order{
		ID: 100, BuyerID: 1, ShopID: 5, Status: model.OrderStatusPaymentRecorded,
	}, nil)
	f.shops.On("FindByID", mock.Anything, int64(5)).Return(model.Shop{
		ID: 5, OwnerUserID: 2,
	}, nil)
	f.orderLines.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderLine{}, nil)

	out, err := f.uc.GetOrderDetail(ctx, 2, 100)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
}

func TestOrderUsecase_ListOrdersForBuyer_PagingPassedThrough(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.orders.On("ListByBuyerID", mock.Anything, int64(1), 2, 10).Return([]model.Order{
		{ID: 100, BuyerID: 1, ShopID: 5, Status: model.OrderStatusAwaitingPayment, TotalPrice: 25000},
	}, int64(31), nil)
	f.orderLines.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderLine{}, nil)

	out, err := f.uc.ListOrdersForBuyer(ctx, 1, 2, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(31), out.Total)
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 10, out.Limit)

	f.orders.AssertExpectations(t)
}

func TestOrderUsecase_ListOrdersForBuyer_InvalidPaging(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	_, err := f.uc.ListOrdersForBuyer(ctx, 1, 0, 20)
	assertErrContains(t, err, "invalid page")

	_, err = f.uc.ListOrdersForBuyer(ctx, 1, 1, 0)
	assertErrContains(t, err, "invalid limit")

	_, err = f.uc.ListOrdersForBuyer(ctx, 1, 1, 101)
	assertErrContains(t, err, "invalid limit")
}

func TestOrderUsecase_ListOrdersForSeller_InvalidStatusFilter(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.ListOrdersForSeller(context.Background(), 2, "XXX")
	assertErrContains(t, err, "invalid status")
}

func TestOrderUsecase_ListOrdersForSeller_FilterPassedThrough(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.shops.On("FindByOwnerUserID", mock.Anything, int64(2)).Return(model.Shop{
		ID: 5, OwnerUserID: 2,
	}, nil)
	f.orders.On("ListForSeller", mock.Anything, repo.SellerOrderListFilter{
		ShopID: 5,
		Status: "PAYMENT_RECORDED",
	}).Return([]model.Order{
		{ID: 100, BuyerID: 1, ShopID: 5, Status: model.OrderStatusPaymentRecorded},
	}, nil)
	f.orderLines.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderLine{}, nil)

	outs, err := f.uc.ListOrdersForSeller(ctx, 2, "PAYMENT_RECORDED")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(outs))

	f.orders.AssertExpectations(t)
}

func TestOrderUsecase_ListOrdersForSeller_NoShop(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.shops.On("FindByOwnerUserID", mock.Anything, int64(2)).Return(model.Shop{}, repo.ErrNotFound)

	_, err := f.uc.ListOrdersForSeller(ctx, 2, "")
	assertErrContains(t, err, "shop not found")
}
