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

// TransactionService owns income and expense writes. Amounts are stored
// non-negative; display polarity comes from the type.
type TransactionService struct {
	store     ledger.Store
	enricher  *Enricher
	publisher ChangePublisher
}

func NewTransactionService(store ledger.Store, publisher ChangePublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		enricher:  NewEnricher(store),
		publisher: publisher,
	}
}

// Transactions returns all transactions with display fields attached.
func (s *TransactionService) Transactions(ctx context.Context) ([]core.Transaction, error) {
	transactions, err := s.store.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return s.enricher.EnrichTransactions(ctx, transactions)
}

// ByDateRange returns the enriched transactions in [start, end].
func (s *TransactionService) ByDateRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	transactions, err := s.store.TransactionsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return s.enricher.EnrichTransactions(ctx, transactions)
}

// Save validates and persists a transaction. A zero account id falls
// back to the default account so every stored row has an owner.
func (s *TransactionService) Save(ctx context.Context, t *core.Transaction) error {
	t.Amount = t.Amount.Abs()
	if err := t.Validate(); err != nil {
		return err
	}
	if _, err := s.store.Category(ctx, t.CategoryID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return core.ErrMissingCategory
		}
		return fmt.Errorf("check category: %w", err)
	}

	if t.AccountID == nil {
		def, err := s.store.DefaultAccount(ctx)
		if err != nil && !errors.Is(err, ledger.ErrNotFound) {
			return fmt.Errorf("load default account: %w", err)
		}
		if def != nil {
			t.AccountID = &def.ID
		}
	}

	op := applog.OpUpdate
	if t.ID == 0 {
		op = applog.OpCreate
	}
	if err := s.store.SaveTransaction(ctx, t); err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, op, t.ID)
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, applog.OpDelete, id)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, op string, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, "transaction", op, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction change",
			applog.NewFields().WithEntity("transaction", id).WithOperation(op).WithError(err).ToSlice()...)
	}
}
