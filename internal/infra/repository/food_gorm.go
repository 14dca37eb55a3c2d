package repository

import (
	"context"
	"errors"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"gorm.io/gorm"
)

type FoodGormRepository struct {
	db *gorm.DB
}

func NewFoodGormRepository(db *gorm.DB) *FoodGormRepository {
	return &FoodGormRepository{db: db}
}

func (r *FoodGormRepository) FindByID(ctx context.Context, foodID int64) (model.Food, error) {
	var f model.Food
	err := r.db.WithContext(ctx).Where("id = ?", foodID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Food{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Food{}, err
	}
	return f, nil
}

func (r *FoodGormRepository) ListByShopID(ctx context.Context, shopID int64) ([]model.Food, error) {
	var items []model.Food
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Food{}, err
	}
	return items, nil
}
