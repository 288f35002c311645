package backend

import (
	"context"

	"moneyrec/internal/ledger"
	"moneyrec/internal/services"
)

// Store is the full persistence surface a backend provides. Every
// backend seeds its defaults before first use.
type Store interface {
	ledger.Store
	EnsureDefaults(ctx context.Context) error
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result bundles a ready-to-use store with its optional change
// publisher and cleanup.
type Result struct {
	Store     Store
	Publisher services.ChangePublisher
	Cleanup   CleanupFunc
}

// Type selects the ledger backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
