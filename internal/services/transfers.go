package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger"
	applog "moneyrec/internal/log"
)

// TransferService owns transfer writes: both accounts must exist and
// differ, and the source account must cover the amount unless it allows
// a negative balance.
type TransferService struct {
	store     ledger.Store
	balances  *BalanceService
	publisher ChangePublisher
}

func NewTransferService(store ledger.Store, publisher ChangePublisher) *TransferService {
	return &TransferService{
		store:     store,
		balances:  NewBalanceService(store),
		publisher: publisher,
	}
}

func (s *TransferService) Transfers(ctx context.Context) ([]core.Transfer, error) {
	return s.store.Transfers(ctx)
}

func (s *TransferService) Transfer(ctx context.Context, id int64) (*core.Transfer, error) {
	return s.store.Transfer(ctx, id)
}

// Save validates and persists a transfer. When editing, the previous
// version's outgoing amount is added back to the source balance before
// the sufficiency check, so resaving an unchanged transfer never fails.
func (s *TransferService) Save(ctx context.Context, tr *core.Transfer) error {
	if err := tr.Validate(); err != nil {
		return err
	}
	if tr.Description == "" {
		tr.Description = "Transfer"
	}

	source, err := s.store.Account(ctx, tr.SourceAccountID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return core.ErrMissingAccount
		}
		return fmt.Errorf("load source account: %w", err)
	}
	if _, err := s.store.Account(ctx, tr.DestinationAccountID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return core.ErrMissingAccount
		}
		return fmt.Errorf("load destination account: %w", err)
	}

	if !source.AllowNegative {
		available, err := s.balances.AccountBalance(ctx, tr.SourceAccountID)
		if err != nil {
			return err
		}
		if tr.ID != 0 {
			previous, err := s.store.Transfer(ctx, tr.ID)
			if err != nil && !errors.Is(err, ledger.ErrNotFound) {
				return fmt.Errorf("load previous transfer: %w", err)
			}
			if previous != nil && previous.SourceAccountID == tr.SourceAccountID {
				available = available.Add(previous.Amount.Abs())
			}
		}
		if available.LessThan(tr.Amount) {
			return core.ErrInsufficientFund
		}
	}

	op := applog.OpUpdate
	if tr.ID == 0 {
		op = applog.OpCreate
	}
	if err := s.store.SaveTransfer(ctx, tr); err != nil {
		return fmt.Errorf("save transfer: %w", err)
	}

	s.publish(ctx, op, tr.ID)
	return nil
}

func (s *TransferService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransfer(ctx, id); err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	s.publish(ctx, applog.OpDelete, id)
	return nil
}

func (s *TransferService) publish(ctx context.Context, op string, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, "transfer", op, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transfer change",
			applog.NewFields().WithEntity("transfer", id).WithOperation(op).WithError(err).ToSlice()...)
	}
}
