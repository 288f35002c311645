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

func seedAccount(t *testing.T, store *memory.Store, name string, initial int64) int64 {
	t.Helper()
	a := &core.Account{
		Name:           name,
		InitialBalance: decimal.NewFromInt(initial),
		IconCode:       core.DefaultAccountIcon,
		CreatedAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveAccount(context.Background(), a))
	return a.ID
}

func seedTransaction(t *testing.T, store *memory.Store, accountID int64, typ core.TransactionType, amount string, date time.Time) int64 {
	t.Helper()
	amt, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	tx := &core.Transaction{
		Date:       date,
		Amount:     amt,
		CategoryID: 1,
		Type:       typ,
		AccountID:  &accountID,
	}
	require.NoError(t, store.SaveTransaction(context.Background(), tx))
	return tx.ID
}

func seedTransfer(t *testing.T, store *memory.Store, src, dst int64, amount string, date time.Time) int64 {
	t.Helper()
	amt, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	tr := &core.Transfer{Date: date, Amount: amt, SourceAccountID: src, DestinationAccountID: dst}
	require.NoError(t, store.SaveTransfer(context.Background(), tr))
	return tr.ID
}

func TestAccountBalance(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewBalanceService(store)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := seedAccount(t, store, "Checking", 100)
	seedTransaction(t, store, a, core.TypeIncome, "50", day)
	seedTransaction(t, store, a, core.TypeExpense, "30", day)

	got, err := svc.AccountBalance(ctx, a)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(120)), "got %s", got)
}

func TestAccountBalanceUnknownAccountIsZero(t *testing.T) {
	svc := NewBalanceService(memory.New())

	got, err := svc.AccountBalance(context.Background(), 999)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestBalanceConservationUnderTransfer(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewBalanceService(store)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	x := seedAccount(t, store, "X", 200)
	y := seedAccount(t, store, "Y", 50)

	totalBefore, err := svc.TotalBalance(ctx)
	require.NoError(t, err)
	xBefore, err := svc.AccountBalance(ctx, x)
	require.NoError(t, err)
	yBefore, err := svc.AccountBalance(ctx, y)
	require.NoError(t, err)

	seedTransfer(t, store, x, y, "75", day)

	totalAfter, err := svc.TotalBalance(ctx)
	require.NoError(t, err)
	xAfter, err := svc.AccountBalance(ctx, x)
	require.NoError(t, err)
	yAfter, err := svc.AccountBalance(ctx, y)
	require.NoError(t, err)

	amount := decimal.NewFromInt(75)
	assert.True(t, xBefore.Sub(xAfter).Equal(amount), "source decreased by %s", xBefore.Sub(xAfter))
	assert.True(t, yAfter.Sub(yBefore).Equal(amount), "destination increased by %s", yAfter.Sub(yBefore))
	assert.True(t, totalBefore.Equal(totalAfter), "total %s vs %s", totalBefore, totalAfter)
}

func TestTotalEqualsSumOfParts(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewBalanceService(store)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := seedAccount(t, store, "A", 100)
	b := seedAccount(t, store, "B", -20)
	c := seedAccount(t, store, "C", 0)

	seedTransaction(t, store, a, core.TypeIncome, "40.50", day)
	seedTransaction(t, store, b, core.TypeExpense, "15.25", day)
	seedTransaction(t, store, c, core.TypeIncome, "7", day)
	seedTransfer(t, store, a, b, "30", day)
	seedTransfer(t, store, c, a, "5", day)

	total, err := svc.TotalBalance(ctx)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, id := range []int64{a, b, c} {
		bal, err := svc.AccountBalance(ctx, id)
		require.NoError(t, err)
		sum = sum.Add(bal)
	}

	assert.True(t, total.Equal(sum), "total %s, sum of parts %s", total, sum)
}

func TestAbsoluteAmountsDefendNegativeRows(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewBalanceService(store)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := seedAccount(t, store, "Legacy", 0)

	// A legacy row with a negative stored amount must count the same as
	// its positive twin.
	neg := &core.Transaction{Date: day, Amount: decimal.NewFromInt(-50), CategoryID: 1, Type: core.TypeExpense, AccountID: &a}
	require.NoError(t, store.SaveTransaction(ctx, neg))

	got, err := svc.AccountBalance(ctx, a)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(-50)), "got %s", got)

	total, err := svc.TotalBalance(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(-50)), "got %s", total)
}

func TestWindowedTotals(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewBalanceService(store)

	a := seedAccount(t, store, "A", 0)
	june := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	seedTransaction(t, store, a, core.TypeIncome, "100", june)
	seedTransaction(t, store, a, core.TypeExpense, "40", june)
	seedTransaction(t, store, a, core.TypeIncome, "9", july)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	incomes, err := svc.TotalIncomes(ctx, start, end)
	require.NoError(t, err)
	assert.True(t, incomes.Equal(decimal.NewFromInt(100)))

	expenses, err := svc.TotalExpenses(ctx, start, end)
	require.NoError(t, err)
	assert.True(t, expenses.Equal(decimal.NewFromInt(40)))

	balance, err := svc.Balance(ctx, start, end)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(60)))

	allTime, err := svc.Balance(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.True(t, allTime.Equal(decimal.NewFromInt(69)))
}

func TestAllAccountBalancesLastActivity(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewBalanceService(store)

	a := seedAccount(t, store, "Used", 10)
	b := seedAccount(t, store, "Idle", 5)

	txDay := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	trDay := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, store, a, core.TypeIncome, "1", txDay)
	seedTransfer(t, store, a, b, "2", trDay)

	rows, err := svc.AllAccountBalances(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := make(map[string]core.AccountBalance)
	for _, r := range rows {
		byName[r.AccountName] = r
	}

	// Transfer is the latest activity on both sides.
	assert.Equal(t, trDay, byName["Used"].LastActivity)
	assert.Equal(t, trDay, byName["Idle"].LastActivity)
	assert.True(t, byName["Used"].CurrentBalance.Equal(decimal.NewFromInt(9)))
	assert.True(t, byName["Idle"].CurrentBalance.Equal(decimal.NewFromInt(7)))
}

func TestAllAccountBalancesCreationDateFloor(t *testing.T) {
	store := memory.New()
	svc := NewBalanceService(store)

	seedAccount(t, store, "Fresh", 0)

	rows, err := svc.AllAccountBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), rows[0].LastActivity)
}
