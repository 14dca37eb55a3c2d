package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderLines() OrderLineRepository
	Payments() PaymentRepository
	Stock() StockRepository
	Foods() FoodRepository
	Shops() ShopRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したら全ロールバックし、部分的な在庫減算やステータス更新は残さない
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
