package cartstore

import (
	"sort"
	"sync"

	"foodcourt/internal/domain/model"
)

// プロセス内のセッションカート正本。買い手ごとのサーバーサイド状態で、
// 複数インスタンス間では共有されない。再起動耐性はミラー側の責務
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[int64]map[int64][]model.CartLine // buyerID -> shopID -> lines
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		carts: make(map[int64]map[int64][]model.CartLine),
	}
}

func (s *MemoryCartStore) Lines(buyerID int64, shopID int64) []model.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.carts[buyerID][shopID]
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out
}

func (s *MemoryCartStore) ShopIDs(buyerID int64) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.carts[buyerID]))
	for shopID := range s.carts[buyerID] {
		ids = append(ids, shopID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *MemoryCartStore) Replace(buyerID int64, shopID int64, lines []model.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(lines) == 0 {
		s.removeLocked(buyerID, shopID)
		return
	}

	if s.carts[buyerID] == nil {
		s.carts[buyerID] = make(map[int64][]model.CartLine)
	}
	stored := make([]model.CartLine, len(lines))
	copy(stored, lines)
	s.carts[buyerID][shopID] = stored
}

func (s *MemoryCartStore) Remove(buyerID int64, shopID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(buyerID, shopID)
}

func (s *MemoryCartStore) removeLocked(buyerID int64, shopID int64) {
	if shops, ok := s.carts[buyerID]; ok {
		delete(shops, shopID)
		if len(shops) == 0 {
			delete(s.carts, buyerID)
		}
	}
}
