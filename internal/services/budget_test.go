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

func TestProjectLimitTable(t *testing.T) {
	// July 2025: 31 days, non-leap year.
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	limit := decimal.NewFromInt(300)

	tests := []struct {
		name   string
		period core.BudgetPeriod
		target core.PeriodType
		want   decimal.Decimal
	}{
		{"day over calendar month", core.PeriodDay, core.CalendarMonth, decimal.NewFromInt(300 * 31)},
		{"day over calendar year", core.PeriodDay, core.CalendarYear, decimal.NewFromInt(300 * 365)},
		{"day over today", core.PeriodDay, core.Today, decimal.NewFromInt(300)},
		{"day over last week", core.PeriodDay, core.LastWeek, decimal.NewFromInt(300 * 7)},
		{"day over last month", core.PeriodDay, core.LastMonth, decimal.NewFromInt(300 * 30)},
		{"day over last year", core.PeriodDay, core.LastYear, decimal.NewFromInt(300 * 365)},

		{"month over calendar month", core.PeriodMonth, core.CalendarMonth, decimal.NewFromInt(300)},
		{"month over calendar year", core.PeriodMonth, core.CalendarYear, decimal.NewFromInt(3600)},
		{"month over today", core.PeriodMonth, core.Today, decimal.NewFromInt(300).Div(decimal.NewFromInt(31))},
		{"month over last week", core.PeriodMonth, core.LastWeek, decimal.NewFromInt(300).Div(decimal.NewFromInt(30)).Mul(decimal.NewFromInt(7))},
		{"month over last month", core.PeriodMonth, core.LastMonth, decimal.NewFromInt(300)},
		{"month over last year", core.PeriodMonth, core.LastYear, decimal.NewFromInt(3600)},

		{"year over calendar month", core.PeriodYear, core.CalendarMonth, decimal.NewFromInt(25)},
		{"year over calendar year", core.PeriodYear, core.CalendarYear, decimal.NewFromInt(300)},
		{"year over today", core.PeriodYear, core.Today, decimal.NewFromInt(300).Div(decimal.NewFromInt(365))},
		{"year over last week", core.PeriodYear, core.LastWeek, decimal.NewFromInt(300).Div(decimal.NewFromInt(365)).Mul(decimal.NewFromInt(7))},
		{"year over last month", core.PeriodYear, core.LastMonth, decimal.NewFromInt(25)},
		{"year over last year", core.PeriodYear, core.LastYear, decimal.NewFromInt(300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projectLimitAt(now, limit, tt.period, tt.target, time.Time{}, time.Time{})
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestProjectLimitLeapYear(t *testing.T) {
	// February 2024: 29 days, leap year.
	now := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	limit := decimal.NewFromInt(10)

	got := projectLimitAt(now, limit, core.PeriodDay, core.CalendarMonth, time.Time{}, time.Time{})
	assert.True(t, got.Equal(decimal.NewFromInt(290)))

	got = projectLimitAt(now, limit, core.PeriodDay, core.CalendarYear, time.Time{}, time.Time{})
	assert.True(t, got.Equal(decimal.NewFromInt(3660)))

	got = projectLimitAt(now, limit, core.PeriodYear, core.Today, time.Time{}, time.Time{})
	assert.True(t, got.Equal(decimal.NewFromInt(10).Div(decimal.NewFromInt(366))))
}

func TestProjectLimitCustomPeriod(t *testing.T) {
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	limit := decimal.NewFromInt(30)

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)

	// Inclusive span: 10 days.
	got := projectLimitAt(now, limit, core.PeriodDay, core.CustomPeriod, start, end)
	assert.True(t, got.Equal(decimal.NewFromInt(300)))

	got = projectLimitAt(now, limit, core.PeriodMonth, core.CustomPeriod, start, end)
	assert.True(t, got.Equal(decimal.NewFromInt(10)), "got %s", got) // 30/30*10

	// Unset endpoints count as one day.
	got = projectLimitAt(now, limit, core.PeriodDay, core.CustomPeriod, time.Time{}, time.Time{})
	assert.True(t, got.Equal(decimal.NewFromInt(30)))

	// Inverted range floors at one day.
	got = projectLimitAt(now, limit, core.PeriodDay, core.CustomPeriod, end, start)
	assert.True(t, got.Equal(decimal.NewFromInt(30)))
}

func TestBudgetProgress(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewBudgetService(store)

	food := &core.Category{Name: "Food", Type: core.CategoryExpense, IconCode: "F025A"}
	require.NoError(t, store.SaveCategory(ctx, food))
	fun := &core.Category{Name: "Entertainment", Type: core.CategoryExpense, IconCode: "F0356"}
	require.NoError(t, store.SaveCategory(ctx, fun))

	require.NoError(t, store.SaveBudget(ctx, &core.Budget{
		CategoryID: food.ID, LimitAmount: decimal.NewFromInt(200), Period: core.PeriodMonth, Active: true,
	}))
	require.NoError(t, store.SaveBudget(ctx, &core.Budget{
		CategoryID: fun.ID, LimitAmount: decimal.NewFromInt(100), Period: core.PeriodMonth, Active: true,
	}))
	// Inactive budgets are not reported.
	require.NoError(t, store.SaveBudget(ctx, &core.Budget{
		CategoryID: food.ID, LimitAmount: decimal.NewFromInt(1), Period: core.PeriodMonth, Active: false,
	}))
	// A budget whose category is gone is skipped.
	require.NoError(t, store.SaveBudget(ctx, &core.Budget{
		CategoryID: 999, LimitAmount: decimal.NewFromInt(50), Period: core.PeriodMonth, Active: true,
	}))

	now := time.Now()
	for _, amount := range []int64{80, 70} {
		tx := &core.Transaction{Date: now, Amount: decimal.NewFromInt(amount), CategoryID: food.ID, Type: core.TypeExpense}
		require.NoError(t, store.SaveTransaction(ctx, tx))
	}
	tx := &core.Transaction{Date: now, Amount: decimal.NewFromInt(120), CategoryID: fun.ID, Type: core.TypeExpense}
	require.NoError(t, store.SaveTransaction(ctx, tx))

	overview, err := svc.Progress(ctx, core.CalendarMonth, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, overview.Budgets, 2)

	// Most strained budget first: Entertainment at 120/100.
	over := overview.Budgets[0]
	assert.Equal(t, "Entertainment", over.CategoryName)
	assert.True(t, over.IsOverBudget)
	assert.True(t, over.ExceededAmount.Equal(decimal.NewFromInt(20)))
	assert.InDelta(t, 100.0, over.ProgressPercent, 0.001) // capped

	under := overview.Budgets[1]
	assert.Equal(t, "Food", under.CategoryName)
	assert.False(t, under.IsOverBudget)
	assert.True(t, under.RemainingAmount.Equal(decimal.NewFromInt(50)))
	assert.InDelta(t, 75.0, under.ProgressPercent, 0.001)

	assert.True(t, overview.TotalLimit.Equal(decimal.NewFromInt(300)))
	assert.True(t, overview.TotalSpent.Equal(decimal.NewFromInt(270)))
}

func TestBudgetSaveRejectsMissingCategory(t *testing.T) {
	svc := NewBudgetService(memory.New())

	err := svc.Save(context.Background(), &core.Budget{
		CategoryID: 7, LimitAmount: decimal.NewFromInt(10), Period: core.PeriodMonth,
	})
	assert.ErrorIs(t, err, core.ErrMissingCategory)
}

func TestBudgetUpdateLimit(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewBudgetService(store)

	b := &core.Budget{CategoryID: 1, LimitAmount: decimal.NewFromInt(10), Period: core.PeriodMonth, Active: true}
	require.NoError(t, store.SaveBudget(ctx, b))

	assert.ErrorIs(t, svc.UpdateLimit(ctx, b.ID, decimal.Zero), core.ErrInvalidAmount)
	require.NoError(t, svc.UpdateLimit(ctx, b.ID, decimal.NewFromInt(25)))

	budgets, err := store.Budgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].LimitAmount.Equal(decimal.NewFromInt(25)))
}
