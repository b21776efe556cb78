package ports

import (
	"context"

	"lightdeck/internal/domain"
)

// HistoryStore is the LIFO ledger of material deletion batches.
type HistoryStore interface {
	// Push appends a record and returns it with its ID assigned
	Push(ctx context.Context, rec domain.DeletionRecord) (domain.DeletionRecord, error)

	// Pop removes and returns the newest record; nil when the ledger is empty
	Pop(ctx context.Context) (*domain.DeletionRecord, error)

	Len(ctx context.Context) (int, error)

	// List returns records newest first
	List(ctx context.Context) ([]domain.DeletionRecord, error)

	Clear(ctx context.Context) error
}
