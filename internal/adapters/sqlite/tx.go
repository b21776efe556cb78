package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lightdeck/internal/domain"
)

// ledgerTx wraps a transaction for ledger writes
type ledgerTx struct {
	tx       *sql.Tx
	stageKey string
}

func (s *Store) beginTx(ctx context.Context) (*ledgerTx, error) {
	if s.db == nil {
		return nil, fmt.Errorf("history store is not open")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &ledgerTx{tx: tx, stageKey: s.stageKey}, nil
}

func (t *ledgerTx) commit() error {
	return t.tx.Commit()
}

func (t *ledgerTx) rollback() {
	_ = t.tx.Rollback()
}

func (t *ledgerTx) insertDeletion(ctx context.Context, at time.Time) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO deletions (stage_key, created_at) VALUES (?, ?)`,
		t.stageKey, at.UnixNano())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *ledgerTx) insertMaterial(ctx context.Context, deletionID int64, pos int, m domain.MaterialInfo) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO deleted_materials (deletion_id, position, path, name, type_tag, ancestral)
		VALUES (?, ?, ?, ?, ?, ?)
	`, deletionID, pos, m.Path, m.Name, string(m.Type), boolToInt(m.IsAncestral))
	return err
}

func (t *ledgerTx) deleteDeletion(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM deleted_materials WHERE deletion_id = ?`, id); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(ctx, `DELETE FROM deletions WHERE id = ?`, id)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
