package core

import "github.com/shopspring/decimal"

const (
	GroupNone       GroupingMode = "none"
	GroupByCategory GroupingMode = "category"
	GroupByAccount  GroupingMode = "account"
)

// GroupingMode determines how a transaction list is partitioned and how
// each partition's total is computed.
type GroupingMode string

func (m GroupingMode) Valid() bool {
	switch m {
	case GroupNone, GroupByCategory, GroupByAccount:
		return true
	}
	return false
}

// TransactionGroup is a derived view over a slice of the combined
// transaction list. It is rebuilt wholesale on every reload and never
// mutated incrementally.
type TransactionGroup struct {
	Name     string
	Items    []Transaction
	Count    int
	Total    decimal.Decimal
	Type     TransactionType
	IconCode string

	// BalanceMode marks account-mode groups, whose total is the
	// account's current balance rather than a sum of members.
	BalanceMode bool
}

// NewTransactionGroup builds one display group. overrideTotal carries the
// account's true balance in account mode; accountIcon carries the
// account's configured icon, when known.
func NewTransactionGroup(name string, items []Transaction, mode GroupingMode, overrideTotal *decimal.Decimal, accountIcon string) TransactionGroup {
	if name == "" {
		name = "Unknown"
	}

	g := TransactionGroup{
		Name:        name,
		Items:       items,
		Count:       len(items),
		IconCode:    groupIcon(items, mode, accountIcon),
		BalanceMode: mode == GroupByAccount,
	}

	switch {
	case overrideTotal != nil:
		// Account grouping: the total is the account balance, and the
		// type only picks the display polarity for it.
		g.Total = *overrideTotal
		if g.Total.IsNegative() {
			g.Type = TypeExpense
		} else {
			g.Type = TypeIncome
		}
	case len(items) > 0:
		if transfersOnly(items) {
			// Transfers are shown as a neutral moved amount.
			g.Type = TypeTransfer
			for _, t := range items {
				g.Total = g.Total.Add(t.Amount)
			}
		} else {
			g.Type = TypeExpense
			first := true
			for _, t := range items {
				if t.Type == TypeTransfer {
					continue
				}
				if first {
					g.Type = t.Type
					first = false
				}
				g.Total = g.Total.Add(t.Amount)
			}
		}
	default:
		g.Type = TypeExpense
	}

	return g
}

func transfersOnly(items []Transaction) bool {
	for _, t := range items {
		if t.Type != TypeTransfer {
			return false
		}
	}
	return len(items) > 0
}

func groupIcon(items []Transaction, mode GroupingMode, accountIcon string) string {
	switch mode {
	case GroupByCategory:
		if len(items) > 0 && items[0].CategoryIconCode != "" {
			return items[0].CategoryIconCode
		}
		return DefaultCategoryIcon
	case GroupByAccount:
		if accountIcon != "" {
			return accountIcon
		}
		for _, t := range items {
			if t.Type != TypeTransfer && t.AccountIconCode != "" {
				return t.AccountIconCode
			}
		}
		return DefaultAccountIcon
	default:
		return DefaultCategoryIcon
	}
}
