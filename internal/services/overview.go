package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger"
)

// SortOrder controls the date ordering of the combined list.
type SortOrder string

const (
	SortDateDesc SortOrder = "date_desc"
	SortDateAsc  SortOrder = "date_asc"
)

// Overview is one reload of the main screen: the combined enriched
// transaction list for a window, its groups, and the window's totals.
type Overview struct {
	Transactions []core.Transaction
	Groups       []core.TransactionGroup

	TotalBalance  decimal.Decimal
	TotalIncomes  decimal.Decimal
	TotalExpenses decimal.Decimal
}

// OverviewService runs the full read pipeline: fetch, enrich,
// materialize transfers, merge, sort, group.
type OverviewService struct {
	store    ledger.Store
	balances *BalanceService
	enricher *Enricher
}

func NewOverviewService(store ledger.Store) *OverviewService {
	return &OverviewService{
		store:    store,
		balances: NewBalanceService(store),
		enricher: NewEnricher(store),
	}
}

// Load builds the overview for a reporting window. Transactions and
// transfers are fetched concurrently; a benign race with a concurrent
// write is acceptable and simply shows up on the next reload.
func (s *OverviewService) Load(ctx context.Context, period core.PeriodType, customStart, customEnd time.Time, mode core.GroupingMode, order SortOrder) (*Overview, error) {
	start, end := core.DateRange(period, customStart, customEnd)

	var (
		transactions []core.Transaction
		transfers    []core.Transfer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.store.TransactionsByDateRange(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		transfers, err = s.store.TransfersByDateRange(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load window: %w", err)
	}

	transactions, err := s.enricher.EnrichTransactions(ctx, transactions)
	if err != nil {
		return nil, err
	}
	transfers, err = s.enricher.EnrichTransfers(ctx, transfers)
	if err != nil {
		return nil, err
	}

	combined := append(transactions, MaterializeTransfers(transfers, mode)...)
	sortByDate(combined, order)

	overview := &Overview{Transactions: combined}

	overview.TotalBalance, err = s.balances.TotalBalance(ctx)
	if err != nil {
		return nil, err
	}
	overview.TotalIncomes, err = s.balances.TotalIncomes(ctx, start, end)
	if err != nil {
		return nil, err
	}
	overview.TotalExpenses, err = s.balances.TotalExpenses(ctx, start, end)
	if err != nil {
		return nil, err
	}

	if mode != core.GroupNone {
		balances, icons, err := s.accountOverrides(ctx, mode)
		if err != nil {
			return nil, err
		}
		overview.Groups = GroupTransactions(combined, mode, balances, icons)
	}

	return overview, nil
}

// accountOverrides builds the per-account balance and icon maps that
// account-mode grouping needs for its total override.
func (s *OverviewService) accountOverrides(ctx context.Context, mode core.GroupingMode) (map[string]decimal.Decimal, map[string]string, error) {
	if mode != core.GroupByAccount {
		return nil, nil, nil
	}

	accounts, err := s.store.Accounts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load accounts: %w", err)
	}

	balances := make(map[string]decimal.Decimal, len(accounts))
	icons := make(map[string]string, len(accounts))
	for _, a := range accounts {
		b, err := s.balances.AccountBalance(ctx, a.ID)
		if err != nil {
			return nil, nil, err
		}
		balances[a.Name] = b
		icons[a.Name] = a.IconCode
	}
	return balances, icons, nil
}

func sortByDate(transactions []core.Transaction, order SortOrder) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if order == SortDateAsc {
			return transactions[i].Date.Before(transactions[j].Date)
		}
		return transactions[i].Date.After(transactions[j].Date)
	})
}
