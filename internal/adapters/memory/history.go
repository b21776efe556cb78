package memory

import (
	"context"
	"slices"
	"sync"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// HistoryStore keeps the deletion ledger in memory for the life of the process
type HistoryStore struct {
	mu      sync.Mutex
	records []domain.DeletionRecord
	nextID  int64
}

// NewHistoryStore creates an empty ledger
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{nextID: 1}
}

var _ ports.HistoryStore = (*HistoryStore)(nil)

func (h *HistoryStore) Push(ctx context.Context, rec domain.DeletionRecord) (domain.DeletionRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.DeletionRecord{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	rec.ID = h.nextID
	h.nextID++
	h.records = append(h.records, rec)
	return rec, nil
}

func (h *HistoryStore) Pop(ctx context.Context) (*domain.DeletionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.records) == 0 {
		return nil, nil
	}
	rec := h.records[len(h.records)-1]
	h.records = h.records[:len(h.records)-1]
	return &rec, nil
}

func (h *HistoryStore) Len(ctx context.Context) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records), nil
}

func (h *HistoryStore) List(ctx context.Context) ([]domain.DeletionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := slices.Clone(h.records)
	slices.Reverse(out)
	return out, nil
}

func (h *HistoryStore) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	return nil
}
