// Package memory provides an in-memory ledger.Store used by tests and
// the memory backend. All methods copy on the way in and out so callers
// can mutate returned values freely.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger"
)

type Store struct {
	mu sync.Mutex

	accounts     map[int64]core.Account
	categories   map[int64]core.Category
	transactions map[int64]core.Transaction
	transfers    map[int64]core.Transfer
	budgets      map[int64]core.Budget

	nextID int64
	seeded bool
}

func New() *Store {
	return &Store{
		accounts:     make(map[int64]core.Account),
		categories:   make(map[int64]core.Category),
		transactions: make(map[int64]core.Transaction),
		transfers:    make(map[int64]core.Transfer),
		budgets:      make(map[int64]core.Budget),
	}
}

var _ ledger.Store = (*Store)(nil)

// EnsureDefaults seeds the default category set and the default Cash
// account. It is idempotent and safe to call from concurrent starters.
func (s *Store) EnsureDefaults(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seeded {
		return nil
	}
	s.seeded = true

	if len(s.categories) == 0 {
		for _, c := range core.DefaultCategories() {
			c.ID = s.allocID()
			s.categories[c.ID] = c
		}
	}
	if len(s.accounts) == 0 {
		cash := core.DefaultCashAccount(time.Now())
		cash.ID = s.allocID()
		s.accounts[cash.ID] = cash
	}
	return nil
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// Accounts

func (s *Store) Accounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Account(_ context.Context, id int64) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &a, nil
}

func (s *Store) DefaultAccount(_ context.Context) (*core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.IsDefault {
			a := a
			return &a, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (s *Store) SaveAccount(_ context.Context, a *core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.allocID()
	}
	s.accounts[a.ID] = *a
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	return nil
}

func (s *Store) AccountHasTransactions(_ context.Context, accountID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.AccountID != nil && *t.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) AccountHasTransfers(_ context.Context, accountID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transfers {
		if t.SourceAccountID == accountID || t.DestinationAccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

// Categories

func (s *Store) Categories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Category(_ context.Context, id int64) (*core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &c, nil
}

func (s *Store) CategoriesByType(_ context.Context, t core.CategoryType) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Category
	for _, c := range s.categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveCategory(_ context.Context, c *core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.allocID()
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.categories, id)
	return nil
}

func (s *Store) CategoryHasTransactions(_ context.Context, categoryID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ReassignCategory(_ context.Context, fromID, toID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	moved := 0
	for id, t := range s.transactions {
		if t.CategoryID == fromID {
			t.CategoryID = toID
			s.transactions[id] = t
			moved++
		}
	}
	return moved, nil
}

// Transactions

func (s *Store) Transactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactionsLocked(func(core.Transaction) bool { return true }), nil
}

func (s *Store) Transaction(_ context.Context, id int64) (*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &t, nil
}

func (s *Store) TransactionsByDateRange(_ context.Context, start, end time.Time) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactionsLocked(func(t core.Transaction) bool {
		return !t.Date.Before(start) && !t.Date.After(end)
	}), nil
}

func (s *Store) TransactionsByAccount(_ context.Context, accountID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactionsLocked(func(t core.Transaction) bool {
		return t.AccountID != nil && *t.AccountID == accountID
	}), nil
}

func (s *Store) transactionsLocked(keep func(core.Transaction) bool) []core.Transaction {
	var out []core.Transaction
	for _, t := range s.transactions {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) SaveTransaction(_ context.Context, t *core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.allocID()
	}
	stored := *t
	// Display fields are never persisted.
	stored.CategoryName, stored.CategoryIconCode = "", ""
	stored.AccountName, stored.AccountIconCode = "", ""
	stored.TransferID, stored.IsOutgoing, stored.Counterpart = nil, false, ""
	s.transactions[t.ID] = stored
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transactions, id)
	return nil
}

func (s *Store) ReassignAccount(_ context.Context, fromID, toID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	moved := 0
	for id, t := range s.transactions {
		if t.AccountID != nil && *t.AccountID == fromID {
			to := toID
			t.AccountID = &to
			s.transactions[id] = t
			moved++
		}
	}
	return moved, nil
}

// Transfers

func (s *Store) Transfers(_ context.Context) ([]core.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfersLocked(func(core.Transfer) bool { return true }), nil
}

func (s *Store) TransfersByDateRange(_ context.Context, start, end time.Time) ([]core.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfersLocked(func(t core.Transfer) bool {
		return !t.Date.Before(start) && !t.Date.After(end)
	}), nil
}

func (s *Store) Transfer(_ context.Context, id int64) (*core.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transfers[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &t, nil
}

func (s *Store) TransfersBySource(_ context.Context, accountID int64) ([]core.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfersLocked(func(t core.Transfer) bool { return t.SourceAccountID == accountID }), nil
}

func (s *Store) TransfersByDestination(_ context.Context, accountID int64) ([]core.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfersLocked(func(t core.Transfer) bool { return t.DestinationAccountID == accountID }), nil
}

func (s *Store) TransfersByAccount(_ context.Context, accountID int64) ([]core.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfersLocked(func(t core.Transfer) bool {
		return t.SourceAccountID == accountID || t.DestinationAccountID == accountID
	}), nil
}

func (s *Store) transfersLocked(keep func(core.Transfer) bool) []core.Transfer {
	var out []core.Transfer
	for _, t := range s.transfers {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) SaveTransfer(_ context.Context, t *core.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.allocID()
	}
	stored := *t
	stored.SourceAccountName, stored.DestinationAccountName = "", ""
	s.transfers[t.ID] = stored
	return nil
}

func (s *Store) DeleteTransfer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transfers, id)
	return nil
}

// Budgets

func (s *Store) Budgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveBudget(_ context.Context, b *core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.allocID()
	}
	s.budgets[b.ID] = *b
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.budgets, id)
	return nil
}

func (s *Store) UpdateBudgetAmount(_ context.Context, id int64, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return ledger.ErrNotFound
	}
	b.LimitAmount = amount
	s.budgets[id] = b
	return nil
}
