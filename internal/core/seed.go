package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategories returns the category set a fresh ledger is seeded
// with. IDs are left to the store.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Salary", Type: CategoryIncome, IconCode: "F0116"},
		{Name: "Freelance", Type: CategoryIncome, IconCode: "F00D6"},
		{Name: "Investment", Type: CategoryIncome, IconCode: "F081F"},
		{Name: "Other Income", Type: CategoryIncome, IconCode: "F0CF4"},
		{Name: "Food", Type: CategoryExpense, IconCode: "F025A"},
		{Name: "Transportation", Type: CategoryExpense, IconCode: "F0BD8"},
		{Name: "Entertainment", Type: CategoryExpense, IconCode: "F0356"},
		{Name: "Utilities", Type: CategoryExpense, IconCode: "F0D15"},
		{Name: "Shopping", Type: CategoryExpense, IconCode: "F0110"},
		{Name: "Home", Type: CategoryExpense, IconCode: "F0D15"},
		{Name: "Other Expense", Type: CategoryExpense, IconCode: "F0076"},
	}
}

// DefaultCashAccount returns the starter account marked as default.
func DefaultCashAccount(now time.Time) Account {
	return Account{
		Name:           "Cash",
		InitialBalance: decimal.Zero,
		IsDefault:      true,
		IconCode:       CashAccountIcon,
		CreatedAt:      now,
	}
}
