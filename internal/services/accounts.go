package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger"
	applog "moneyrec/internal/log"
)

// AccountService owns account writes and the default-account rules:
// exactly one account is default at all times, and the default account
// cannot be deleted.
type AccountService struct {
	store     ledger.Store
	publisher ChangePublisher
}

func NewAccountService(store ledger.Store, publisher ChangePublisher) *AccountService {
	return &AccountService{store: store, publisher: publisher}
}

func (s *AccountService) Accounts(ctx context.Context) ([]core.Account, error) {
	return s.store.Accounts(ctx)
}

func (s *AccountService) Account(ctx context.Context, id int64) (*core.Account, error) {
	return s.store.Account(ctx, id)
}

// Save validates and persists an account. Marking an account default
// demotes the previous default so the single-default invariant holds.
func (s *AccountService) Save(ctx context.Context, a *core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.IconCode == "" {
		a.IconCode = core.DefaultAccountIcon
	}

	if a.IsDefault {
		current, err := s.store.DefaultAccount(ctx)
		if err != nil && !errors.Is(err, ledger.ErrNotFound) {
			return fmt.Errorf("load default account: %w", err)
		}
		if current != nil && current.ID != a.ID {
			current.IsDefault = false
			if err := s.store.SaveAccount(ctx, current); err != nil {
				return fmt.Errorf("demote default account: %w", err)
			}
		}
	}

	op := applog.OpUpdate
	if a.ID == 0 {
		op = applog.OpCreate
	}
	if err := s.store.SaveAccount(ctx, a); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	s.publish(ctx, op, a.ID)
	return nil
}

// Delete removes an account. The default account is protected; any
// transactions on a deleted account are reassigned to the default so
// totals are preserved. Transfers referencing the account keep their
// rows and degrade to "Unknown" labels on display.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	account, err := s.store.Account(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load account: %w", err)
	}
	if account.IsDefault {
		return core.ErrDefaultAccount
	}

	hasTransactions, err := s.store.AccountHasTransactions(ctx, id)
	if err != nil {
		return fmt.Errorf("check account transactions: %w", err)
	}
	if hasTransactions {
		def, err := s.store.DefaultAccount(ctx)
		if err != nil {
			return fmt.Errorf("load default account: %w", err)
		}
		moved, err := s.store.ReassignAccount(ctx, id, def.ID)
		if err != nil {
			return fmt.Errorf("reassign transactions: %w", err)
		}
		slog.InfoContext(ctx, "Reassigned transactions to default account",
			"from", id, "to", def.ID, "moved", moved)
	}

	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	s.publish(ctx, applog.OpDelete, id)
	return nil
}

func (s *AccountService) publish(ctx context.Context, op string, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, "account", op, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish account change",
			applog.NewFields().WithEntity("account", id).WithOperation(op).WithError(err).ToSlice()...)
	}
}
