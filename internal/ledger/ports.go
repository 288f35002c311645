// Package ledger defines the persistence ports the core computations
// depend on. Implementations live in storage (SQLite) and memory.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"moneyrec/internal/core"
)

// ErrNotFound is returned by single-row lookups when no row matches.
// Callers on read paths generally degrade on it instead of failing;
// genuine storage faults are returned as-is.
var ErrNotFound = errors.New("not found")

type (
	AccountStore interface {
		Accounts(ctx context.Context) ([]core.Account, error)
		Account(ctx context.Context, id int64) (*core.Account, error)
		DefaultAccount(ctx context.Context) (*core.Account, error)
		// SaveAccount inserts when ID is zero and assigns the new ID,
		// updates otherwise.
		SaveAccount(ctx context.Context, a *core.Account) error
		DeleteAccount(ctx context.Context, id int64) error
		AccountHasTransactions(ctx context.Context, accountID int64) (bool, error)
		AccountHasTransfers(ctx context.Context, accountID int64) (bool, error)
	}

	CategoryStore interface {
		Categories(ctx context.Context) ([]core.Category, error)
		Category(ctx context.Context, id int64) (*core.Category, error)
		CategoriesByType(ctx context.Context, t core.CategoryType) ([]core.Category, error)
		SaveCategory(ctx context.Context, c *core.Category) error
		DeleteCategory(ctx context.Context, id int64) error
		CategoryHasTransactions(ctx context.Context, categoryID int64) (bool, error)
		// ReassignCategory moves every transaction from one category to
		// another and reports how many rows moved.
		ReassignCategory(ctx context.Context, fromID, toID int64) (int, error)
	}

	TransactionStore interface {
		Transactions(ctx context.Context) ([]core.Transaction, error)
		Transaction(ctx context.Context, id int64) (*core.Transaction, error)
		TransactionsByDateRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error)
		TransactionsByAccount(ctx context.Context, accountID int64) ([]core.Transaction, error)
		SaveTransaction(ctx context.Context, t *core.Transaction) error
		DeleteTransaction(ctx context.Context, id int64) error
		// ReassignAccount moves every transaction from one account to
		// another, used when an account is deleted.
		ReassignAccount(ctx context.Context, fromID, toID int64) (int, error)
	}

	TransferStore interface {
		Transfers(ctx context.Context) ([]core.Transfer, error)
		TransfersByDateRange(ctx context.Context, start, end time.Time) ([]core.Transfer, error)
		Transfer(ctx context.Context, id int64) (*core.Transfer, error)
		TransfersBySource(ctx context.Context, accountID int64) ([]core.Transfer, error)
		TransfersByDestination(ctx context.Context, accountID int64) ([]core.Transfer, error)
		TransfersByAccount(ctx context.Context, accountID int64) ([]core.Transfer, error)
		SaveTransfer(ctx context.Context, t *core.Transfer) error
		DeleteTransfer(ctx context.Context, id int64) error
	}

	BudgetStore interface {
		Budgets(ctx context.Context) ([]core.Budget, error)
		SaveBudget(ctx context.Context, b *core.Budget) error
		DeleteBudget(ctx context.Context, id int64) error
		UpdateBudgetAmount(ctx context.Context, id int64, amount decimal.Decimal) error
	}

	// Store is the full persistence surface the services are built on.
	Store interface {
		AccountStore
		CategoryStore
		TransactionStore
		TransferStore
		BudgetStore
	}
)
