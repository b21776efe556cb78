// Package ledger picks the store behind the deletion history and the
// recorded light defaults.
package ledger

import (
	"io"

	"lightdeck/internal/adapters/memory"
	"lightdeck/internal/adapters/sqlite"
	"lightdeck/internal/config"
	"lightdeck/internal/ports"
)

// Ledger persists deletion batches and recorded light defaults
type Ledger interface {
	ports.HistoryStore
	ports.DefaultsStore
	io.Closer
	// Location describes where records are kept
	Location() string
}

// Open returns the ledger for a history setting: config.MemoryHistory keeps
// everything in memory, an empty setting uses the per-stage database under
// the XDG data directory, anything else is a database file path.
func Open(setting, stagePath string) (Ledger, error) {
	if setting == config.MemoryHistory {
		return &memoryLedger{
			HistoryStore:  memory.NewHistoryStore(),
			DefaultsStore: memory.NewDefaultsStore(),
		}, nil
	}

	store := sqlite.NewStore()
	var err error
	if setting == "" {
		err = store.Open(stagePath)
	} else {
		err = store.OpenAt(setting, stagePath)
	}
	if err != nil {
		return nil, err
	}
	return &sqliteLedger{Store: store}, nil
}

type memoryLedger struct {
	*memory.HistoryStore
	*memory.DefaultsStore
}

func (*memoryLedger) Close() error     { return nil }
func (*memoryLedger) Location() string { return config.MemoryHistory }

type sqliteLedger struct {
	*sqlite.Store
}

func (l *sqliteLedger) Location() string { return l.Path() }
