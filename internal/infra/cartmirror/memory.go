package cartmirror

import (
	"context"
	"sync"

	"foodcourt/internal/domain/model"
)

// 非永続のミラーフォールバック。CART_MIRROR=memoryのときだけ使う。
// プロセス再起動や複数インスタンスをまたぐ保証はない
type MemoryCartMirror struct {
	mu     sync.Mutex
	drafts map[int64]map[int64][]model.CartLine // buyerID -> shopID -> lines
}

func NewMemoryCartMirror() *MemoryCartMirror {
	return &MemoryCartMirror{
		drafts: make(map[int64]map[int64][]model.CartLine),
	}
}

func (m *MemoryCartMirror) Replace(_ context.Context, buyerID int64, shopID int64, lines []model.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(lines) == 0 {
		if shops, ok := m.drafts[buyerID]; ok {
			delete(shops, shopID)
			if len(shops) == 0 {
				delete(m.drafts, buyerID)
			}
		}
		return nil
	}

	if m.drafts[buyerID] == nil {
		m.drafts[buyerID] = make(map[int64][]model.CartLine)
	}
	stored := make([]model.CartLine, len(lines))
	copy(stored, lines)
	m.drafts[buyerID][shopID] = stored
	return nil
}

func (m *MemoryCartMirror) DeleteAllForBuyer(_ context.Context, buyerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, buyerID)
	return nil
}
