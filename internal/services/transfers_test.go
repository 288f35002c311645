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

func transferFixture(t *testing.T) (*memory.Store, *TransferService, int64, int64) {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	src := &core.Account{Name: "Checking", InitialBalance: decimal.NewFromInt(100), CreatedAt: time.Now()}
	require.NoError(t, store.SaveAccount(ctx, src))
	dst := &core.Account{Name: "Savings", CreatedAt: time.Now()}
	require.NoError(t, store.SaveAccount(ctx, dst))

	return store, NewTransferService(store, nil), src.ID, dst.ID
}

func TestTransferSave(t *testing.T) {
	store, svc, src, dst := transferFixture(t)
	ctx := context.Background()

	tr := &core.Transfer{Date: time.Now(), Amount: decimal.NewFromInt(60), SourceAccountID: src, DestinationAccountID: dst}
	require.NoError(t, svc.Save(ctx, tr))
	assert.NotZero(t, tr.ID)
	assert.Equal(t, "Transfer", tr.Description)

	saved, err := store.Transfer(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, saved.Amount.Equal(decimal.NewFromInt(60)))
}

func TestTransferSaveRejectsSameAccount(t *testing.T) {
	_, svc, src, _ := transferFixture(t)

	tr := &core.Transfer{Date: time.Now(), Amount: decimal.NewFromInt(10), SourceAccountID: src, DestinationAccountID: src}
	assert.ErrorIs(t, svc.Save(context.Background(), tr), core.ErrSameAccount)
}

func TestTransferSaveRejectsMissingAccount(t *testing.T) {
	_, svc, src, _ := transferFixture(t)

	tr := &core.Transfer{Date: time.Now(), Amount: decimal.NewFromInt(10), SourceAccountID: src, DestinationAccountID: 999}
	assert.ErrorIs(t, svc.Save(context.Background(), tr), core.ErrMissingAccount)
}

func TestTransferSaveInsufficientFunds(t *testing.T) {
	_, svc, src, dst := transferFixture(t)

	tr := &core.Transfer{Date: time.Now(), Amount: decimal.NewFromInt(150), SourceAccountID: src, DestinationAccountID: dst}
	assert.ErrorIs(t, svc.Save(context.Background(), tr), core.ErrInsufficientFund)
}

func TestTransferSaveAllowNegativeSkipsCheck(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := NewTransferService(store, nil)

	src := &core.Account{Name: "Credit", AllowNegative: true, CreatedAt: time.Now()}
	require.NoError(t, store.SaveAccount(ctx, src))
	dst := &core.Account{Name: "Savings", CreatedAt: time.Now()}
	require.NoError(t, store.SaveAccount(ctx, dst))

	tr := &core.Transfer{Date: time.Now(), Amount: decimal.NewFromInt(500), SourceAccountID: src.ID, DestinationAccountID: dst.ID}
	assert.NoError(t, svc.Save(ctx, tr))
}

func TestTransferEditAddsBackPreviousAmount(t *testing.T) {
	_, svc, src, dst := transferFixture(t)
	ctx := context.Background()

	tr := &core.Transfer{Date: time.Now(), Amount: decimal.NewFromInt(80), SourceAccountID: src, DestinationAccountID: dst}
	require.NoError(t, svc.Save(ctx, tr))

	// Source balance is now 20, but editing the same transfer up to 90
	// must pass: its own 80 is added back before the check.
	tr.Amount = decimal.NewFromInt(90)
	require.NoError(t, svc.Save(ctx, tr))

	// Beyond the original balance it still fails.
	tr.Amount = decimal.NewFromInt(101)
	assert.ErrorIs(t, svc.Save(ctx, tr), core.ErrInsufficientFund)
}

func TestTransferDelete(t *testing.T) {
	store, svc, src, dst := transferFixture(t)
	ctx := context.Background()

	tr := &core.Transfer{Date: time.Now(), Amount: decimal.NewFromInt(10), SourceAccountID: src, DestinationAccountID: dst}
	require.NoError(t, svc.Save(ctx, tr))
	require.NoError(t, svc.Delete(ctx, tr.ID))

	_, err := store.Transfer(ctx, tr.ID)
	assert.Error(t, err)
}
