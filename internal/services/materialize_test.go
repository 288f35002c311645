package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyrec/internal/core"
)

func sampleTransfer() core.Transfer {
	return core.Transfer{
		ID:                     42,
		Date:                   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:                 decimal.NewFromInt(75),
		SourceAccountID:        1,
		DestinationAccountID:   2,
		Description:            "Rent share",
		SourceAccountName:      "Checking",
		DestinationAccountName: "Savings",
	}
}

func TestMaterializeAccountMode(t *testing.T) {
	records := MaterializeTransfers([]core.Transfer{sampleTransfer()}, core.GroupByAccount)
	require.Len(t, records, 2)

	out, in := records[0], records[1]

	assert.Equal(t, int64(-42), out.ID)
	assert.Equal(t, int64(-42-1_000_000), in.ID)
	assert.NotEqual(t, out.ID, in.ID)

	assert.True(t, out.IsOutgoing)
	assert.False(t, in.IsOutgoing)
	assert.Equal(t, "Checking", out.AccountName)
	assert.Equal(t, "Savings", in.AccountName)
	assert.Equal(t, "Transfer to Savings: Rent share", out.Description)
	assert.Equal(t, "Transfer from Checking: Rent share", in.Description)

	for _, r := range records {
		assert.Equal(t, core.TypeTransfer, r.Type)
		assert.Equal(t, "Transfers", r.CategoryName)
		assert.Equal(t, core.TransferIcon, r.CategoryIconCode)
		assert.Equal(t, core.TransferIcon, r.AccountIconCode)
		require.NotNil(t, r.TransferID)
		assert.Equal(t, int64(42), *r.TransferID)
	}

	// The two sides carry equal amounts with opposite economic effect,
	// so materializing a transfer never changes the combined balance.
	outEffect := out.Amount.Neg()
	inEffect := in.Amount
	assert.True(t, outEffect.Add(inEffect).IsZero())
}

func TestMaterializeFlatMode(t *testing.T) {
	records := MaterializeTransfers([]core.Transfer{sampleTransfer()}, core.GroupNone)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, int64(-42), r.ID)
	assert.Equal(t, "Rent share", r.Description)
	assert.False(t, r.IsOutgoing)
	assert.Nil(t, r.AccountID)
}

func TestMaterializeDescriptionFallback(t *testing.T) {
	tr := sampleTransfer()
	tr.Description = ""

	flat := MaterializeTransfers([]core.Transfer{tr}, core.GroupByCategory)
	require.Len(t, flat, 1)
	assert.Equal(t, "Checking → Savings", flat[0].Description)

	sides := MaterializeTransfers([]core.Transfer{tr}, core.GroupByAccount)
	require.Len(t, sides, 2)
	assert.Equal(t, "Transfer to Savings", sides[0].Description)
	assert.Equal(t, "Transfer from Checking", sides[1].Description)
}
