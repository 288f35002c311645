package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger"
)

// BalanceService computes account and aggregate balances from the
// ledger. All sums use the absolute value of stored amounts so a legacy
// negative-amount row cannot flip a balance.
type BalanceService struct {
	store ledger.Store
}

func NewBalanceService(store ledger.Store) *BalanceService {
	return &BalanceService{store: store}
}

// AccountBalance returns initial balance plus incomes minus expenses,
// minus outgoing transfers plus incoming transfers. An unknown account
// id yields zero, not an error.
func (s *BalanceService) AccountBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	account, err := s.store.Account(ctx, accountID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("load account: %w", err)
	}

	var (
		transactions []core.Transaction
		outgoing     []core.Transfer
		incoming     []core.Transfer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.store.TransactionsByAccount(gctx, accountID)
		return err
	})
	g.Go(func() error {
		var err error
		outgoing, err = s.store.TransfersBySource(gctx, accountID)
		return err
	})
	g.Go(func() error {
		var err error
		incoming, err = s.store.TransfersByDestination(gctx, accountID)
		return err
	})
	if err := g.Wait(); err != nil {
		return decimal.Zero, fmt.Errorf("load account activity: %w", err)
	}

	balance := account.InitialBalance
	for _, t := range transactions {
		switch t.Type {
		case core.TypeIncome:
			balance = balance.Add(t.Amount.Abs())
		case core.TypeExpense:
			balance = balance.Sub(t.Amount.Abs())
		}
	}
	for _, tr := range outgoing {
		balance = balance.Sub(tr.Amount.Abs())
	}
	for _, tr := range incoming {
		balance = balance.Add(tr.Amount.Abs())
	}

	return balance, nil
}

// TotalBalance sums initial balances and all income minus expense rows.
// Transfers move money between accounts already counted here, so they
// are excluded; including them would double-count.
func (s *BalanceService) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	var (
		accounts     []core.Account
		transactions []core.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.store.Accounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.store.Transactions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return decimal.Zero, fmt.Errorf("load ledger: %w", err)
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.InitialBalance)
	}
	for _, t := range transactions {
		switch t.Type {
		case core.TypeIncome:
			total = total.Add(t.Amount.Abs())
		case core.TypeExpense:
			total = total.Sub(t.Amount.Abs())
		}
	}

	return total, nil
}

// TotalIncomes sums absolute income amounts dated within [start, end].
func (s *BalanceService) TotalIncomes(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	return s.sumByType(ctx, core.TypeIncome, start, end)
}

// TotalExpenses sums absolute expense amounts dated within [start, end].
func (s *BalanceService) TotalExpenses(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	return s.sumByType(ctx, core.TypeExpense, start, end)
}

func (s *BalanceService) sumByType(ctx context.Context, typ core.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	transactions, err := s.store.TransactionsByDateRange(ctx, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load transactions: %w", err)
	}

	sum := decimal.Zero
	for _, t := range transactions {
		if t.Type == typ {
			sum = sum.Add(t.Amount.Abs())
		}
	}
	return sum, nil
}

// Balance returns incomes minus expenses over the window, or over all
// time when start and end are both zero.
func (s *BalanceService) Balance(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var (
		transactions []core.Transaction
		err          error
	)
	if start.IsZero() && end.IsZero() {
		transactions, err = s.store.Transactions(ctx)
	} else {
		transactions, err = s.store.TransactionsByDateRange(ctx, start, end)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("load transactions: %w", err)
	}

	sum := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case core.TypeIncome:
			sum = sum.Add(t.Amount.Abs())
		case core.TypeExpense:
			sum = sum.Sub(t.Amount.Abs())
		}
	}
	return sum, nil
}

// AllAccountBalances returns one row per account with its current
// balance and the date of its most recent activity. The account's
// creation date is the floor, so a never-used account still reports a
// date.
func (s *BalanceService) AllAccountBalances(ctx context.Context) ([]core.AccountBalance, error) {
	var (
		accounts     []core.Account
		transactions []core.Transaction
		transfers    []core.Transfer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.store.Accounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.store.Transactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		transfers, err = s.store.Transfers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	out := make([]core.AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		balance := a.InitialBalance
		lastActivity := a.CreatedAt

		for _, t := range transactions {
			if t.AccountID == nil || *t.AccountID != a.ID {
				continue
			}
			switch t.Type {
			case core.TypeIncome:
				balance = balance.Add(t.Amount.Abs())
			case core.TypeExpense:
				balance = balance.Sub(t.Amount.Abs())
			}
			if t.Date.After(lastActivity) {
				lastActivity = t.Date
			}
		}
		for _, tr := range transfers {
			switch {
			case tr.SourceAccountID == a.ID:
				balance = balance.Sub(tr.Amount.Abs())
			case tr.DestinationAccountID == a.ID:
				balance = balance.Add(tr.Amount.Abs())
			default:
				continue
			}
			if tr.Date.After(lastActivity) {
				lastActivity = tr.Date
			}
		}

		out = append(out, core.AccountBalance{
			AccountID:      a.ID,
			AccountName:    a.Name,
			CurrentBalance: balance,
			LastActivity:   lastActivity,
		})
	}

	return out, nil
}
