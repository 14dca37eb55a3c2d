package model

// カートの1行。セッション側が正本で、DBミラーは派生データ。
// 同一フード＋同一noteで1行にマージする
type CartLine struct {
	FoodID    int64  `json:"food_id"`
	ShopID    int64  `json:"shop_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	Note      string `json:"note"`
}

// Subtotal は行小計
func (l CartLine) Subtotal() int64 {
	return l.UnitPrice * l.Quantity
}
