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

func TestEnrichTransactions(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	cat := &core.Category{Name: "Food", Type: core.CategoryExpense, IconCode: "F025A"}
	require.NoError(t, store.SaveCategory(ctx, cat))
	acct := &core.Account{Name: "Bank", IconCode: "F0070", CreatedAt: time.Now()}
	require.NoError(t, store.SaveAccount(ctx, acct))

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	gone := int64(888)
	rows := []core.Transaction{
		{ID: 1, Date: day, Amount: decimal.NewFromInt(5), CategoryID: cat.ID, Type: core.TypeExpense, AccountID: &acct.ID},
		{ID: 2, Date: day, Amount: decimal.NewFromInt(5), CategoryID: 999, Type: core.TypeExpense, AccountID: &acct.ID},
		{ID: 3, Date: day, Amount: decimal.NewFromInt(5), CategoryID: cat.ID, Type: core.TypeExpense},
		{ID: 4, Date: day, Amount: decimal.NewFromInt(5), CategoryID: cat.ID, Type: core.TypeExpense, AccountID: &gone},
	}

	enriched, err := NewEnricher(store).EnrichTransactions(ctx, rows)
	require.NoError(t, err)
	require.Len(t, enriched, 4)

	assert.Equal(t, "Food", enriched[0].CategoryName)
	assert.Equal(t, "F025A", enriched[0].CategoryIconCode)
	assert.Equal(t, "Bank", enriched[0].AccountName)

	// Dangling category degrades, never fails.
	assert.Equal(t, "Unknown", enriched[1].CategoryName)
	assert.Equal(t, core.DefaultCategoryIcon, enriched[1].CategoryIconCode)

	// Nil account id renders as the cash account.
	assert.Equal(t, "Cash", enriched[2].AccountName)
	assert.Equal(t, core.CashAccountIcon, enriched[2].AccountIconCode)

	// A deleted account behind a stale row renders as cash too.
	assert.Equal(t, "Cash", enriched[3].AccountName)
	assert.Equal(t, core.CashAccountIcon, enriched[3].AccountIconCode)
}

func TestEnrichTransfersDanglingAccount(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	acct := &core.Account{Name: "Bank", CreatedAt: time.Now()}
	require.NoError(t, store.SaveAccount(ctx, acct))

	transfers := []core.Transfer{{
		ID:                   1,
		Date:                 time.Now(),
		Amount:               decimal.NewFromInt(10),
		SourceAccountID:      acct.ID,
		DestinationAccountID: 999,
	}}

	enriched, err := NewEnricher(store).EnrichTransfers(ctx, transfers)
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, "Bank", enriched[0].SourceAccountName)
	assert.Equal(t, "Unknown", enriched[0].DestinationAccountName)
}
