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

func TestCategoryBreakdown(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewReportService(store)

	names := []string{"Rent", "Food", "Coffee"}
	amounts := []int64{700, 250, 50}
	ids := make([]int64, len(names))
	for i, name := range names {
		c := &core.Category{Name: name, Type: core.CategoryExpense, IconCode: "F0770"}
		require.NoError(t, store.SaveCategory(ctx, c))
		ids[i] = c.ID
	}

	now := time.Now()
	for i, amount := range amounts {
		tx := &core.Transaction{Date: now, Amount: decimal.NewFromInt(amount), CategoryID: ids[i], Type: core.TypeExpense}
		require.NoError(t, store.SaveTransaction(ctx, tx))
	}
	// Income rows are invisible to an expense breakdown.
	income := &core.Category{Name: "Salary", Type: core.CategoryIncome}
	require.NoError(t, store.SaveCategory(ctx, income))
	tx := &core.Transaction{Date: now, Amount: decimal.NewFromInt(9999), CategoryID: income.ID, Type: core.TypeIncome}
	require.NoError(t, store.SaveTransaction(ctx, tx))

	shares, err := svc.CategoryBreakdown(ctx, core.TypeExpense, core.CalendarMonth, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, shares, 3)

	assert.Equal(t, "Rent", shares[0].CategoryName)
	assert.InDelta(t, 70.0, shares[0].Percentage, 0.001)
	assert.False(t, shares[0].IsMinor)

	assert.Equal(t, "Food", shares[1].CategoryName)
	assert.InDelta(t, 25.0, shares[1].Percentage, 0.001)
	assert.False(t, shares[1].IsMinor)

	assert.Equal(t, "Coffee", shares[2].CategoryName)
	assert.InDelta(t, 5.0, shares[2].Percentage, 0.001)
	assert.True(t, shares[2].IsMinor)

	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(1000)))
}

func TestCategoryBreakdownEmptyWindow(t *testing.T) {
	svc := NewReportService(memory.New())

	shares, err := svc.CategoryBreakdown(context.Background(), core.TypeExpense, core.Today, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, shares)
}
