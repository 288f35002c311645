package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger"
)

// Enricher attaches denormalized display fields to raw ledger rows. It
// loads the category and account tables once per call and joins in
// memory, so enrichment cost stays flat as the transaction list grows.
type Enricher struct {
	store ledger.Store
}

func NewEnricher(store ledger.Store) *Enricher {
	return &Enricher{store: store}
}

type lookups struct {
	categories map[int64]core.Category
	accounts   map[int64]core.Account
}

func (e *Enricher) load(ctx context.Context) (*lookups, error) {
	var (
		categories []core.Category
		accounts   []core.Account
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = e.store.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = e.store.Accounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load lookup tables: %w", err)
	}

	l := &lookups{
		categories: make(map[int64]core.Category, len(categories)),
		accounts:   make(map[int64]core.Account, len(accounts)),
	}
	for _, c := range categories {
		l.categories[c.ID] = c
	}
	for _, a := range accounts {
		l.accounts[a.ID] = a
	}
	return l, nil
}

// EnrichTransactions fills category and account display fields on every
// transaction. An unknown category degrades to a placeholder; a nil or
// dangling account id is shown as the cash account.
func (e *Enricher) EnrichTransactions(ctx context.Context, transactions []core.Transaction) ([]core.Transaction, error) {
	l, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]core.Transaction, len(transactions))
	for i, t := range transactions {
		if c, ok := l.categories[t.CategoryID]; ok {
			t.CategoryName = c.Name
			t.CategoryIconCode = c.IconCode
		} else {
			t.CategoryName = "Unknown"
			t.CategoryIconCode = core.DefaultCategoryIcon
		}

		if a, ok := lookupAccount(l.accounts, t.AccountID); ok {
			t.AccountName = a.Name
			t.AccountIconCode = a.IconCode
		} else {
			t.AccountName = "Cash"
			t.AccountIconCode = core.CashAccountIcon
		}

		out[i] = t
	}
	return out, nil
}

func lookupAccount(accounts map[int64]core.Account, id *int64) (core.Account, bool) {
	if id == nil {
		return core.Account{}, false
	}
	a, ok := accounts[*id]
	return a, ok
}

// EnrichTransfers resolves source and destination account names. A
// deleted account behind a stale transfer shows as "Unknown".
func (e *Enricher) EnrichTransfers(ctx context.Context, transfers []core.Transfer) ([]core.Transfer, error) {
	l, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]core.Transfer, len(transfers))
	for i, tr := range transfers {
		tr.SourceAccountName = accountName(l.accounts, tr.SourceAccountID)
		tr.DestinationAccountName = accountName(l.accounts, tr.DestinationAccountID)
		out[i] = tr
	}
	return out, nil
}

func accountName(accounts map[int64]core.Account, id int64) string {
	if a, ok := accounts[id]; ok {
		return a.Name
	}
	return "Unknown"
}
