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

func TestCategorySaveDefaultsIcon(t *testing.T) {
	store := memory.New()
	svc := NewCategoryService(store, nil)

	c := &core.Category{Name: "Books", Type: core.CategoryExpense}
	require.NoError(t, svc.Save(context.Background(), c))
	assert.Equal(t, core.DefaultCategoryIcon, c.IconCode)

	assert.ErrorIs(t, svc.Save(context.Background(), &core.Category{Name: "Bad", Type: "weird"}), core.ErrInvalidType)
}

func TestCategoryDeleteLastOfTypeForbidden(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewCategoryService(store, nil)

	only := &core.Category{Name: "Salary", Type: core.CategoryIncome}
	require.NoError(t, store.SaveCategory(ctx, only))

	assert.ErrorIs(t, svc.Delete(ctx, only.ID, 0), core.ErrLastCategory)
}

func TestCategoryDeleteReassignsTransactions(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewCategoryService(store, nil)

	doomed := &core.Category{Name: "Cafes", Type: core.CategoryExpense}
	require.NoError(t, store.SaveCategory(ctx, doomed))
	replacement := &core.Category{Name: "Food", Type: core.CategoryExpense}
	require.NoError(t, store.SaveCategory(ctx, replacement))
	wrongType := &core.Category{Name: "Salary", Type: core.CategoryIncome}
	require.NoError(t, store.SaveCategory(ctx, wrongType))

	tx := &core.Transaction{Date: time.Now(), Amount: decimal.NewFromInt(5), CategoryID: doomed.ID, Type: core.TypeExpense}
	require.NoError(t, store.SaveTransaction(ctx, tx))

	// A replacement is mandatory when transactions exist.
	assert.ErrorIs(t, svc.Delete(ctx, doomed.ID, 0), core.ErrMissingCategory)
	// Reassigning onto itself is rejected.
	assert.ErrorIs(t, svc.Delete(ctx, doomed.ID, doomed.ID), core.ErrMissingCategory)
	// The replacement must share the type.
	assert.ErrorIs(t, svc.Delete(ctx, doomed.ID, wrongType.ID), core.ErrInvalidType)

	require.NoError(t, svc.Delete(ctx, doomed.ID, replacement.ID))

	all, err := store.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, replacement.ID, all[0].CategoryID)

	_, err = store.Category(ctx, doomed.ID)
	assert.Error(t, err)
}

func TestCategoryDeleteWithoutTransactions(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewCategoryService(store, nil)

	a := &core.Category{Name: "A", Type: core.CategoryExpense}
	require.NoError(t, store.SaveCategory(ctx, a))
	b := &core.Category{Name: "B", Type: core.CategoryExpense}
	require.NoError(t, store.SaveCategory(ctx, b))

	// No transactions: no replacement needed.
	require.NoError(t, svc.Delete(ctx, a.ID, 0))
}
