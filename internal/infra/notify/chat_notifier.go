package notify

import (
	"context"
	"fmt"
	"time"

	"foodcourt/internal/domain/model"
	repo "foodcourt/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 注文作成をチャットメッセージとして店舗に知らせる。
// best-effort: 失敗してもチェックアウトは巻き戻さない
type ChatNotifier struct {
	chats  repo.ChatMessageRepository
	logger *zap.Logger
}

func NewChatNotifier(chats repo.ChatMessageRepository, logger *zap.Logger) *ChatNotifier {
	return &ChatNotifier{chats: chats, logger: logger}
}

func (n *ChatNotifier) OrderCreated(ctx context.Context, order model.Order) {
	orderID := order.ID
	msg := model.ChatMessage{
		RoomKey:   roomKey(order.BuyerID, order.ShopID),
		BuyerID:   order.BuyerID,
		ShopID:    order.ShopID,
		Sender:    "buyer",
		Body:      fmt.Sprintf("新しい注文を作成しました（注文 #%d）", orderID),
		OrderID:   &orderID,
		CreatedAt: time.Now(),
	}

	if err := n.chats.Create(ctx, msg); err != nil {
		n.logger.Warn("order created notification failed",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
	}
}

// 買い手×店舗のチャットルームキー。uuid名前空間で衝突しない固定キーを導出する
func roomKey(buyerID int64, shopID int64) string {
	name := fmt.Sprintf("room:%d:%d", buyerID, shopID)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
