package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"moneyrec/internal/core"
)

// GroupTransactions partitions an enriched, materialized transaction
// list into display groups. In account mode the balances and icons maps
// (keyed by account name) supply each group's override total and icon.
// Rows whose grouping key is empty are skipped rather than merged into
// one anonymous bucket.
func GroupTransactions(transactions []core.Transaction, mode core.GroupingMode, balances map[string]decimal.Decimal, icons map[string]string) []core.TransactionGroup {
	if mode == core.GroupNone {
		return nil
	}

	key := func(t core.Transaction) string {
		if mode == core.GroupByAccount {
			return t.AccountName
		}
		return t.CategoryName
	}

	partitions := make(map[string][]core.Transaction)
	for _, t := range transactions {
		k := key(t)
		if k == "" {
			continue
		}
		partitions[k] = append(partitions[k], t)
	}

	names := make([]string, 0, len(partitions))
	for name := range partitions {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]core.TransactionGroup, 0, len(names))
	for _, name := range names {
		var override *decimal.Decimal
		if mode == core.GroupByAccount {
			// An account missing from the balances map still gets an
			// explicit zero total, not the sum of its members.
			b := balances[name]
			override = &b
		}
		groups = append(groups, core.NewTransactionGroup(name, partitions[name], mode, override, icons[name]))
	}
	return groups
}
