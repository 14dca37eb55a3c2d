package repository

import "foodcourt/internal/domain/model"

// セッションカートの正本。呼び出し元（買い手）単位のサーバーサイド状態で、
// プロセス再起動をまたぐ保証はしない（ミラーが別にある）
type CartStore interface {
	// 買い手×店舗のカート行（コピー）を返す
	Lines(buyerID int64, shopID int64) []model.CartLine

	// 買い手がカートを持っている店舗ID一覧
	ShopIDs(buyerID int64) []int64

	// 買い手×店舗のカートを丸ごと置き換える。空なら店舗エントリ自体を消す
	Replace(buyerID int64, shopID int64, lines []model.CartLine)

	// 店舗エントリを削除
	Remove(buyerID int64, shopID int64)
}
