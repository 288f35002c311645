// Package export defines the ports for mirroring the ledger to an
// external spreadsheet. The mirror is append-only and best-effort: the
// ledger in SQLite stays the source of truth.
package export

import (
	"context"

	"moneyrec/internal/core"
)

type (
	// TransactionMirror receives transaction rows.
	TransactionMirror interface {
		AppendTransaction(ctx context.Context, t core.Transaction) error
	}

	// TransferMirror receives transfer rows.
	TransferMirror interface {
		AppendTransfer(ctx context.Context, tr core.Transfer) error
	}

	// Tombstoner records deletions. Append-only mirrors write a
	// tombstone row instead of removing data.
	Tombstoner interface {
		MarkDeleted(ctx context.Context, entity string, id int64) error
	}

	// LedgerMirror is the full export surface the worker drives.
	LedgerMirror interface {
		TransactionMirror
		TransferMirror
		Tombstoner
	}
)
