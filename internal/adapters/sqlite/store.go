package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Store persists the deletion ledger and recorded light defaults of one
// stage file in SQLite
type Store struct {
	db        *sql.DB
	stagePath string
	stageKey  string
	dbPath    string
}

// NewStore creates an unopened store
func NewStore() *Store {
	return &Store{}
}

// Open opens the per-stage database under the XDG data directory
func (s *Store) Open(stagePath string) error {
	stagePath, err := expandHome(stagePath)
	if err != nil {
		return err
	}
	if abs, err := filepath.Abs(stagePath); err == nil {
		stagePath = abs
	}
	return s.OpenAt(databasePath(stagePath), stagePath)
}

// OpenAt opens the database at dbPath, scoping records to stagePath
func (s *Store) OpenAt(dbPath, stagePath string) error {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return err
	}

	s.stagePath = stagePath
	s.stageKey = hashStagePath(stagePath)
	s.dbPath = dbPath

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS deletions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stage_key TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS deleted_materials (
			deletion_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			path TEXT NOT NULL,
			name TEXT NOT NULL,
			type_tag TEXT NOT NULL,
			ancestral INTEGER NOT NULL,
			PRIMARY KEY (deletion_id, position)
		);
		CREATE TABLE IF NOT EXISTS light_defaults (
			stage_key TEXT NOT NULL,
			path TEXT NOT NULL,
			intensity REAL NOT NULL,
			color_temperature REAL NOT NULL,
			color_r REAL NOT NULL,
			color_g REAL NOT NULL,
			color_b REAL NOT NULL,
			exposure REAL NOT NULL,
			specular REAL NOT NULL,
			PRIMARY KEY (stage_key, path)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_deletions_stage ON deletions(stage_key, id);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// databasePath returns the per-stage database path
func databasePath(stagePath string) string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "lightdeck", hashStagePath(stagePath)+".db")
}

// hashStagePath returns a short hash of the stage path
func hashStagePath(stagePath string) string {
	h := sha256.Sum256([]byte(stagePath))
	return hex.EncodeToString(h[:8])
}
