package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger/memory"
)

func TestOverviewAccountModeOverride(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewOverviewService(store)

	cat := &core.Category{Name: "Misc", Type: core.CategoryExpense, IconCode: "F0770"}
	require.NoError(t, store.SaveCategory(ctx, cat))

	acct := &core.Account{Name: "Checking", InitialBalance: decimal.NewFromInt(100), IconCode: "F0070", CreatedAt: time.Now().AddDate(0, -2, 0)}
	require.NoError(t, store.SaveAccount(ctx, acct))

	now := time.Now()
	for _, tc := range []struct {
		typ    core.TransactionType
		amount int64
	}{
		{core.TypeIncome, 50},
		{core.TypeExpense, 30},
	} {
		tx := &core.Transaction{Date: now, Amount: decimal.NewFromInt(tc.amount), CategoryID: cat.ID, Type: tc.typ, AccountID: &acct.ID}
		require.NoError(t, store.SaveTransaction(ctx, tx))
	}

	overview, err := svc.Load(ctx, core.CalendarMonth, time.Time{}, time.Time{}, core.GroupByAccount, SortDateDesc)
	require.NoError(t, err)
	require.Len(t, overview.Groups, 1)

	g := overview.Groups[0]
	assert.Equal(t, "Checking", g.Name)
	assert.True(t, g.BalanceMode)
	// The group total is the account balance, not the member sum.
	assert.True(t, g.Total.Equal(decimal.NewFromInt(120)), "got %s", g.Total)
	assert.Equal(t, core.TypeIncome, g.Type)
	assert.Equal(t, "F0070", g.IconCode)
}

func TestOverviewCategoryGroups(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewOverviewService(store)

	food := &core.Category{Name: "Food", Type: core.CategoryExpense, IconCode: "F025A"}
	require.NoError(t, store.SaveCategory(ctx, food))

	now := time.Now()
	for _, amount := range []int64{10, 20, 30} {
		tx := &core.Transaction{Date: now, Amount: decimal.NewFromInt(amount), CategoryID: food.ID, Type: core.TypeExpense}
		require.NoError(t, store.SaveTransaction(ctx, tx))
	}

	overview, err := svc.Load(ctx, core.CalendarMonth, time.Time{}, time.Time{}, core.GroupByCategory, SortDateDesc)
	require.NoError(t, err)
	require.Len(t, overview.Groups, 1)

	g := overview.Groups[0]
	assert.Equal(t, "Food", g.Name)
	assert.Equal(t, 3, g.Count)
	assert.True(t, g.Total.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, core.TypeExpense, g.Type)
	assert.Equal(t, "F025A", g.IconCode)
}

func TestOverviewMergesTransfers(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewOverviewService(store)

	cat := &core.Category{Name: "Misc", Type: core.CategoryExpense}
	require.NoError(t, store.SaveCategory(ctx, cat))
	src := &core.Account{Name: "A", InitialBalance: decimal.NewFromInt(500), CreatedAt: time.Now()}
	require.NoError(t, store.SaveAccount(ctx, src))
	dst := &core.Account{Name: "B", CreatedAt: time.Now()}
	require.NoError(t, store.SaveAccount(ctx, dst))

	now := time.Now()
	tx := &core.Transaction{Date: now.Add(-time.Hour), Amount: decimal.NewFromInt(10), CategoryID: cat.ID, Type: core.TypeExpense, AccountID: &src.ID}
	require.NoError(t, store.SaveTransaction(ctx, tx))
	tr := &core.Transfer{Date: now, Amount: decimal.NewFromInt(40), SourceAccountID: src.ID, DestinationAccountID: dst.ID}
	require.NoError(t, store.SaveTransfer(ctx, tr))

	overview, err := svc.Load(ctx, core.CalendarMonth, time.Time{}, time.Time{}, core.GroupNone, SortDateDesc)
	require.NoError(t, err)
	require.Len(t, overview.Transactions, 2)

	// Newest first: the materialized transfer precedes the transaction.
	first := overview.Transactions[0]
	assert.Equal(t, core.TypeTransfer, first.Type)
	assert.Equal(t, "Transfers", first.CategoryName)
	require.NotNil(t, first.TransferID)
	assert.Equal(t, tr.ID, *first.TransferID)
	assert.Equal(t, "A → B", first.Description)

	// Transfers leave the window totals untouched.
	assert.True(t, overview.TotalIncomes.IsZero())
	assert.True(t, overview.TotalExpenses.Equal(decimal.NewFromInt(10)))
	assert.True(t, overview.TotalBalance.Equal(decimal.NewFromInt(490)))

	asc, err := svc.Load(ctx, core.CalendarMonth, time.Time{}, time.Time{}, core.GroupNone, SortDateAsc)
	require.NoError(t, err)
	require.Len(t, asc.Transactions, 2)
	assert.Equal(t, core.TypeExpense, asc.Transactions[0].Type)
}

func TestGroupTransactionsSkipsEmptyKeys(t *testing.T) {
	rows := []core.Transaction{
		{ID: 1, Amount: decimal.NewFromInt(5), Type: core.TypeExpense, CategoryName: "Food"},
		{ID: 2, Amount: decimal.NewFromInt(5), Type: core.TypeExpense, CategoryName: ""},
	}

	groups := GroupTransactions(rows, core.GroupByCategory, nil, nil)
	require.Len(t, groups, 1)
	assert.Equal(t, "Food", groups[0].Name)
	assert.Equal(t, 1, groups[0].Count)
}

func TestGroupTransactionsAccountModeZeroBalance(t *testing.T) {
	rows := []core.Transaction{
		{ID: 1, Amount: decimal.NewFromInt(25), Type: core.TypeIncome, AccountName: "Wallet"},
		{ID: 2, Amount: decimal.NewFromInt(15), Type: core.TypeIncome, AccountName: "Wallet"},
	}

	// An account absent from the balances map shows a zero total, not
	// the sum of its members.
	groups := GroupTransactions(rows, core.GroupByAccount, map[string]decimal.Decimal{}, nil)
	require.Len(t, groups, 1)
	assert.Equal(t, "Wallet", groups[0].Name)
	assert.Equal(t, 2, groups[0].Count)
	assert.True(t, groups[0].Total.IsZero(), "got %s", groups[0].Total)
}

func TestGroupTransactionsNoneModeIsPassThrough(t *testing.T) {
	rows := []core.Transaction{{ID: 1, Amount: decimal.NewFromInt(5), Type: core.TypeExpense, CategoryName: "Food"}}
	assert.Nil(t, GroupTransactions(rows, core.GroupNone, nil, nil))
}
