package sqlite

import (
	"context"
	"fmt"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

var _ ports.DefaultsStore = (*Store)(nil)

// SaveDefaults replaces the recorded light defaults of the stage
func (s *Store) SaveDefaults(ctx context.Context, defaults map[string]domain.LightDefaults) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.rollback()

	if _, err := tx.tx.ExecContext(ctx, `DELETE FROM light_defaults WHERE stage_key = ?`, s.stageKey); err != nil {
		return fmt.Errorf("failed to clear defaults: %w", err)
	}

	stmt, err := tx.tx.PrepareContext(ctx, `
		INSERT INTO light_defaults
			(stage_key, path, intensity, color_temperature, color_r, color_g, color_b, exposure, specular)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for path, d := range defaults {
		_, err := stmt.ExecContext(ctx, s.stageKey, path,
			d.Intensity, d.ColorTemperature, d.Color[0], d.Color[1], d.Color[2], d.Exposure, d.Specular)
		if err != nil {
			return fmt.Errorf("failed to save defaults for %s: %w", path, err)
		}
	}
	return tx.commit()
}

// LoadDefaults returns the recorded light defaults of the stage
func (s *Store) LoadDefaults(ctx context.Context) (map[string]domain.LightDefaults, error) {
	if s.db == nil {
		return nil, fmt.Errorf("history store is not open")
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, intensity, color_temperature, color_r, color_g, color_b, exposure, specular
		FROM light_defaults WHERE stage_key = ?
	`, s.stageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	defer rows.Close()

	defaults := make(map[string]domain.LightDefaults)
	for rows.Next() {
		var path string
		var d domain.LightDefaults
		if err := rows.Scan(&path, &d.Intensity, &d.ColorTemperature,
			&d.Color[0], &d.Color[1], &d.Color[2], &d.Exposure, &d.Specular); err != nil {
			return nil, err
		}
		defaults[path] = d
	}
	return defaults, rows.Err()
}
