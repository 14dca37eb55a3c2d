package repository

import (
	"context"

	"foodcourt/internal/domain/model"
)

// チャット会話のAPIはスコープ外なので、通知の書き込み口だけを持つ
type ChatMessageRepository interface {
	Create(ctx context.Context, m model.ChatMessage) error
}
