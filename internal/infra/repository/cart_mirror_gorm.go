package repository

import (
	"context"
	"time"

	"foodcourt/internal/domain/model"

	"gorm.io/gorm"
)

// セッションカートの永続ミラー（DBバックエンド）。
// 差分更新はせず、(買い手, 店舗)のドラフトを丸ごと作り直す
type CartMirrorGormRepository struct {
	db *gorm.DB
}

func NewCartMirrorGormRepository(db *gorm.DB) *CartMirrorGormRepository {
	return &CartMirrorGormRepository{db: db}
}

func (r *CartMirrorGormRepository) Replace(ctx context.Context, buyerID int64, shopID int64, lines []model.CartLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var drafts []model.CartDraft
		if err := tx.Where("buyer_id = ? AND shop_id = ?", buyerID, shopID).Find(&drafts).Error; err != nil {
			return err
		}

		if len(drafts) > 0 {
			ids := make([]int64, 0, len(drafts))
			for _, d := range drafts {
				ids = append(ids, d.ID)
			}
			if err := tx.Where("draft_id IN ?", ids).Delete(&model.CartDraftLine{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ids).Delete(&model.CartDraft{}).Error; err != nil {
				return err
			}
		}

		if len(lines) == 0 {
			return nil
		}

		now := time.Now()
		draft := model.CartDraft{
			BuyerID:   buyerID,
			ShopID:    shopID,
			CreatedAt: now,
		}
		if err := tx.Create(&draft).Error; err != nil {
			return err
		}

		rows := make([]model.CartDraftLine, 0, len(lines))
		for _, l := range lines {
			rows = append(rows, model.CartDraftLine{
				DraftID:           draft.ID,
				FoodID:            l.FoodID,
				Quantity:          l.Quantity,
				UnitPriceSnapshot: l.UnitPrice,
				Note:              l.Note,
				CreatedAt:         now,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (r *CartMirrorGormRepository) DeleteAllForBuyer(ctx context.Context, buyerID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var drafts []model.CartDraft
		if err := tx.Where("buyer_id = ?", buyerID).Find(&drafts).Error; err != nil {
			return err
		}
		if len(drafts) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(drafts))
		for _, d := range drafts {
			ids = append(ids, d.ID)
		}
		if err := tx.Where("draft_id IN ?", ids).Delete(&model.CartDraftLine{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.CartDraft{}).Error
	})
}
