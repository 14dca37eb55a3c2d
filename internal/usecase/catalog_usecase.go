package usecase

import (
	"context"

	repo "foodcourt/internal/repository"
)

// CatalogUsecase は店舗メニューの読み取り専用ビュー
type CatalogUsecase struct {
	foods repo.FoodRepository
	shops repo.ShopRepository
}

func NewCatalogUsecase(foods repo.FoodRepository, shops repo.ShopRepository) *CatalogUsecase {
	return &CatalogUsecase{foods: foods, shops: shops}
}

type MenuItemOutput struct {
	FoodID int64  `json:"food_id"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Stock  int64  `json:"stock"`
}

type MenuOutput struct {
	ShopID   int64            `json:"shop_id"`
	ShopName string           `json:"shop_name"`
	IsOpen   bool             `json:"is_open"`
	Items    []MenuItemOutput `json:"items"`
}

// ListMenu は店舗の販売中メニュー。非公開（is_active=false）の品は出さない
func (u *CatalogUsecase) ListMenu(ctx context.Context, shopID int64) (MenuOutput, error) {
	if shopID <= 0 {
		return MenuOutput{}, newValidationError("invalid shop_id")
	}

	shop, err := u.shops.FindByID(ctx, shopID)
	if err == repo.ErrNotFound {
		return MenuOutput{}, newNotFoundError("shop not found")
	}
	if err != nil {
		return MenuOutput{}, newPersistenceError()
	}

	foods, err := u.foods.ListByShopID(ctx, shopID)
	if err != nil {
		return MenuOutput{}, newPersistenceError()
	}

	items := make([]MenuItemOutput, 0, len(foods))
	for _, f := range foods {
		if !f.IsActive {
			continue
		}
		items = append(items, MenuItemOutput{
			FoodID: f.ID,
			Name:   f.Name,
			Price:  f.Price,
			Stock:  f.Stock,
		})
	}

	return MenuOutput{
		ShopID:   shop.ID,
		ShopName: shop.Name,
		IsOpen:   shop.IsOpen,
		Items:    items,
	}, nil
}
