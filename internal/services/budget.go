package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger"
)

// ProjectLimit converts a budget limit defined per day, month or year
// into an equivalent limit over a reporting window: a per-month budget
// viewed over the last year projects to limit × 12.
//
// The month and year branches use fixed 30 and 365 divisors rather than
// calendar-exact lengths. Consumers depend on these exact constants, so
// keep the table as-is.
func ProjectLimit(limit decimal.Decimal, budgetPeriod core.BudgetPeriod, target core.PeriodType, customStart, customEnd time.Time) decimal.Decimal {
	return projectLimitAt(time.Now(), limit, budgetPeriod, target, customStart, customEnd)
}

func projectLimitAt(now time.Time, limit decimal.Decimal, budgetPeriod core.BudgetPeriod, target core.PeriodType, customStart, customEnd time.Time) decimal.Decimal {
	daysInMonth := decimal.NewFromInt(int64(core.DaysInMonth(now)))
	daysInYear := decimal.NewFromInt(int64(core.DaysInYear(now.Year())))
	thirty := decimal.NewFromInt(30)
	yearDays := decimal.NewFromInt(365)
	twelve := decimal.NewFromInt(12)
	seven := decimal.NewFromInt(7)

	switch budgetPeriod {
	case core.PeriodDay:
		switch target {
		case core.CalendarMonth:
			return limit.Mul(daysInMonth)
		case core.CalendarYear:
			return limit.Mul(daysInYear)
		case core.Today:
			return limit
		case core.LastWeek:
			return limit.Mul(seven)
		case core.LastMonth:
			return limit.Mul(thirty)
		case core.LastYear:
			return limit.Mul(yearDays)
		case core.CustomPeriod:
			return limit.Mul(customDayCount(customStart, customEnd))
		}
	case core.PeriodMonth:
		switch target {
		case core.CalendarMonth, core.LastMonth:
			return limit
		case core.CalendarYear, core.LastYear:
			return limit.Mul(twelve)
		case core.Today:
			return limit.Div(daysInMonth)
		case core.LastWeek:
			return limit.Div(thirty).Mul(seven)
		case core.CustomPeriod:
			return limit.Div(thirty).Mul(customDayCount(customStart, customEnd))
		}
	case core.PeriodYear:
		switch target {
		case core.CalendarMonth, core.LastMonth:
			return limit.Div(twelve)
		case core.CalendarYear, core.LastYear:
			return limit
		case core.Today:
			return limit.Div(daysInYear)
		case core.LastWeek:
			return limit.Div(yearDays).Mul(seven)
		case core.CustomPeriod:
			return limit.Div(yearDays).Mul(customDayCount(customStart, customEnd))
		}
	}
	return limit
}

// customDayCount is the inclusive day span of a custom window, floored
// at one day. An unset endpoint also counts as one day.
func customDayCount(start, end time.Time) decimal.Decimal {
	if start.IsZero() || end.IsZero() {
		return decimal.NewFromInt(1)
	}
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int64(endDay.Sub(startDay).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return decimal.NewFromInt(days)
}

// BudgetService builds budget progress rows for a reporting window.
type BudgetService struct {
	store ledger.Store
}

func NewBudgetService(store ledger.Store) *BudgetService {
	return &BudgetService{store: store}
}

func (s *BudgetService) Budgets(ctx context.Context) ([]core.Budget, error) {
	return s.store.Budgets(ctx)
}

// BudgetOverview is the budget panel for one reporting window.
type BudgetOverview struct {
	Budgets    []core.BudgetProgress
	TotalLimit decimal.Decimal
	TotalSpent decimal.Decimal
}

// Progress computes one progress row per active budget over the window.
// A budget whose category was deleted is skipped rather than shown with
// a blank label. Rows are sorted by progress percentage descending so
// the most strained budgets surface first.
func (s *BudgetService) Progress(ctx context.Context, period core.PeriodType, customStart, customEnd time.Time) (*BudgetOverview, error) {
	start, end := core.DateRange(period, customStart, customEnd)

	var (
		budgets      []core.Budget
		categories   []core.Category
		transactions []core.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.store.Budgets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.store.TransactionsByDateRange(gctx, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load budget data: %w", err)
	}

	byCategory := make(map[int64]core.Category, len(categories))
	for _, c := range categories {
		byCategory[c.ID] = c
	}

	spent := make(map[int64]decimal.Decimal)
	for _, t := range transactions {
		if t.Type == core.TypeExpense {
			spent[t.CategoryID] = spent[t.CategoryID].Add(t.Amount.Abs())
		}
	}

	overview := &BudgetOverview{}
	for _, b := range budgets {
		if !b.Active {
			continue
		}
		category, ok := byCategory[b.CategoryID]
		if !ok {
			continue
		}

		row := core.BudgetProgress{
			BudgetID:         b.ID,
			CategoryID:       b.CategoryID,
			CategoryName:     category.Name,
			CategoryIconCode: category.IconCode,
			Period:           b.Period,
			OriginalLimit:    b.LimitAmount,
			LimitAmount:      ProjectLimit(b.LimitAmount, b.Period, period, customStart, customEnd),
			SpentAmount:      spent[b.CategoryID],
		}
		row.CalculateProgress()

		overview.Budgets = append(overview.Budgets, row)
		overview.TotalLimit = overview.TotalLimit.Add(row.LimitAmount)
		overview.TotalSpent = overview.TotalSpent.Add(row.SpentAmount)
	}

	sort.SliceStable(overview.Budgets, func(i, j int) bool {
		return overview.Budgets[i].ProgressPercent > overview.Budgets[j].ProgressPercent
	})

	return overview, nil
}

// Save validates and persists a budget.
func (s *BudgetService) Save(ctx context.Context, b *core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if _, err := s.store.Category(ctx, b.CategoryID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return core.ErrMissingCategory
		}
		return fmt.Errorf("check category: %w", err)
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	if err := s.store.SaveBudget(ctx, b); err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	return nil
}

// UpdateLimit changes a budget's limit amount in place.
func (s *BudgetService) UpdateLimit(ctx context.Context, id int64, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return core.ErrInvalidAmount
	}
	if err := s.store.UpdateBudgetAmount(ctx, id, amount); err != nil {
		return fmt.Errorf("update budget amount: %w", err)
	}
	return nil
}

// Delete removes a budget.
func (s *BudgetService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}
