package repository

import (
	"context"

	repo "foodcourt/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders     repo.OrderRepository
	orderLines repo.OrderLineRepository
	payments   repo.PaymentRepository
	stock      repo.StockRepository
	foods      repo.FoodRepository
	shops      repo.ShopRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderLines() repo.OrderLineRepository { return r.orderLines }
func (r *txReposGorm) Payments() repo.PaymentRepository     { return r.payments }
func (r *txReposGorm) Stock() repo.StockRepository          { return r.stock }
func (r *txReposGorm) Foods() repo.FoodRepository           { return r.foods }
func (r *txReposGorm) Shops() repo.ShopRepository           { return r.shops }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:     NewOrderGormRepository(tx),
			orderLines: NewOrderLineGormRepository(tx),
			payments:   NewPaymentGormRepository(tx),
			stock:      NewStockGormRepository(tx),
			foods:      NewFoodGormRepository(tx),
			shops:      NewShopGormRepository(tx),
		}
		return fn(r)
	})
}
