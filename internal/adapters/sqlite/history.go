package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

var _ ports.HistoryStore = (*Store)(nil)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Push appends a deletion batch to the stage's ledger
func (s *Store) Push(ctx context.Context, rec domain.DeletionRecord) (domain.DeletionRecord, error) {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return rec, err
	}
	defer tx.rollback()

	id, err := tx.insertDeletion(ctx, rec.Timestamp)
	if err != nil {
		return rec, fmt.Errorf("failed to insert deletion: %w", err)
	}
	for i, m := range rec.Snapshots {
		if err := tx.insertMaterial(ctx, id, i, m); err != nil {
			return rec, fmt.Errorf("failed to insert %s: %w", m.Path, err)
		}
	}
	if err := tx.commit(); err != nil {
		return rec, fmt.Errorf("failed to commit: %w", err)
	}

	rec.ID = id
	return rec, nil
}

// Pop removes and returns the newest batch, or nil when the ledger is empty
func (s *Store) Pop(ctx context.Context) (*domain.DeletionRecord, error) {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.rollback()

	var id, createdAt int64
	err = tx.tx.QueryRowContext(ctx, `
		SELECT id, created_at FROM deletions
		WHERE stage_key = ? ORDER BY id DESC LIMIT 1
	`, s.stageKey).Scan(&id, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	rec, err := loadRecord(ctx, tx.tx, id, createdAt)
	if err != nil {
		return nil, err
	}
	if err := tx.deleteDeletion(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to remove deletion %d: %w", id, err)
	}
	if err := tx.commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return &rec, nil
}

// Len returns the number of batches on the stage's ledger
func (s *Store) Len(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("history store is not open")
	}
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deletions WHERE stage_key = ?`, s.stageKey).Scan(&n)
	return n, err
}

// List returns the ledger newest first
func (s *Store) List(ctx context.Context) ([]domain.DeletionRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("history store is not open")
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at FROM deletions
		WHERE stage_key = ? ORDER BY id DESC
	`, s.stageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}

	type header struct{ id, createdAt int64 }
	var headers []header
	for rows.Next() {
		var h header
		if err := rows.Scan(&h.id, &h.createdAt); err != nil {
			rows.Close()
			return nil, err
		}
		headers = append(headers, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]domain.DeletionRecord, 0, len(headers))
	for _, h := range headers {
		rec, err := loadRecord(ctx, s.db, h.id, h.createdAt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Clear drops every batch recorded for the stage
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.rollback()

	_, err = tx.tx.ExecContext(ctx, `
		DELETE FROM deleted_materials WHERE deletion_id IN
			(SELECT id FROM deletions WHERE stage_key = ?)
	`, s.stageKey)
	if err != nil {
		return fmt.Errorf("failed to clear materials: %w", err)
	}
	if _, err := tx.tx.ExecContext(ctx, `DELETE FROM deletions WHERE stage_key = ?`, s.stageKey); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}
	return tx.commit()
}

func loadRecord(ctx context.Context, q queryer, id, createdAt int64) (domain.DeletionRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT path, name, type_tag, ancestral FROM deleted_materials
		WHERE deletion_id = ? ORDER BY position
	`, id)
	if err != nil {
		return domain.DeletionRecord{}, fmt.Errorf("failed to load deletion %d: %w", id, err)
	}
	defer rows.Close()

	var materials []domain.MaterialInfo
	for rows.Next() {
		var path, name, typeTag string
		var ancestral int
		if err := rows.Scan(&path, &name, &typeTag, &ancestral); err != nil {
			return domain.DeletionRecord{}, err
		}
		m := domain.NewMaterialInfo(path, domain.TypeTag(typeTag), ancestral != 0)
		m.Name = name
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return domain.DeletionRecord{}, err
	}

	rec := domain.NewDeletionRecord(materials, time.Unix(0, createdAt))
	rec.ID = id
	return rec, nil
}
