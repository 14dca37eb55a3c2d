package repository

import (
	"context"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockGormRepository struct {
	db *gorm.DB
}

func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

// 指定フード行をFOR UPDATEでロックして返す。
// 存在しないIDは結果に含まれないだけで、ここではエラーにしない
func (r *StockGormRepository) LockByIDs(ctx context.Context, foodIDs []int64) ([]model.Food, error) {
	if len(foodIDs) == 0 {
		return []model.Food{}, nil
	}

	var items []model.Food
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", foodIDs).
		Find(&items).Error
	if err != nil {
		return []model.Food{}, err
	}
	return items, nil
}

// 在庫減算。0未満には落とさない
func (r *StockGormRepository) Decrease(ctx context.Context, foodID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Food{}).
		Where("id = ?", foodID).
		Update("stock", gorm.Expr("GREATEST(stock - ?, 0)", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫戻し（キャンセル・拒否）
func (r *StockGormRepository) Increase(ctx context.Context, foodID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Food{}).
		Where("id = ?", foodID).
		Update("stock", gorm.Expr("stock + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 増減履歴作成
func (r *StockGormRepository) CreateAdjustment(ctx context.Context, adj model.StockAdjustment) error {
	if err := r.db.WithContext(ctx).Create(&adj).Error; err != nil {
		return err
	}
	return nil
}
