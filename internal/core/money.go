// Package core holds the ledger's domain model: accounts, categories,
// transactions, transfers, budgets, and the derived value objects built
// from them. Everything here is a plain value type; persistence and
// change notification are the callers' concern.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered monetary amount. It accepts both dot
// (12.34) and comma (12,34) decimal separators and requires a strictly
// positive value; amounts are always stored unsigned with polarity
// derived from the transaction type.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseSignedAmount parses an amount that may legitimately be negative,
// such as an account's initial balance.
func ParseSignedAmount(s string) (decimal.Decimal, error) {
	return parseDecimal(s)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
