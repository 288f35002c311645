package services

import (
	"fmt"

	"moneyrec/internal/core"
)

// syntheticIDOffset separates the incoming-side synthetic id from the
// outgoing side so the two records of one transfer never collide with
// each other or with real transaction ids.
const syntheticIDOffset = 1_000_000

// MaterializeTransfers converts transfers into transaction-shaped
// display records. The records are never written back to storage; their
// TransferID points at the persisted transfer for edit and delete.
//
// In account mode each transfer yields two records, one per side, so an
// account's group shows the movement. In every other mode one neutral
// record is produced under the synthetic "Transfers" category.
func MaterializeTransfers(transfers []core.Transfer, mode core.GroupingMode) []core.Transaction {
	if mode == core.GroupByAccount {
		out := make([]core.Transaction, 0, len(transfers)*2)
		for _, tr := range transfers {
			tr := tr
			srcID := tr.SourceAccountID
			dstID := tr.DestinationAccountID

			out = append(out, core.Transaction{
				ID:               -tr.ID,
				Date:             tr.Date,
				Description:      transferDescription("Transfer to", tr.DestinationAccountName, tr.Description),
				Amount:           tr.Amount,
				Type:             core.TypeTransfer,
				AccountID:        &srcID,
				CategoryName:     "Transfers",
				CategoryIconCode: core.TransferIcon,
				AccountName:      tr.SourceAccountName,
				AccountIconCode:  core.TransferIcon,
				TransferID:       &tr.ID,
				IsOutgoing:       true,
				Counterpart:      tr.DestinationAccountName,
			})
			out = append(out, core.Transaction{
				ID:               -tr.ID - syntheticIDOffset,
				Date:             tr.Date,
				Description:      transferDescription("Transfer from", tr.SourceAccountName, tr.Description),
				Amount:           tr.Amount,
				Type:             core.TypeTransfer,
				AccountID:        &dstID,
				CategoryName:     "Transfers",
				CategoryIconCode: core.TransferIcon,
				AccountName:      tr.DestinationAccountName,
				AccountIconCode:  core.TransferIcon,
				TransferID:       &tr.ID,
				IsOutgoing:       false,
				Counterpart:      tr.SourceAccountName,
			})
		}
		return out
	}

	out := make([]core.Transaction, 0, len(transfers))
	for _, tr := range transfers {
		tr := tr
		description := tr.Description
		if description == "" {
			description = fmt.Sprintf("%s → %s", tr.SourceAccountName, tr.DestinationAccountName)
		}
		out = append(out, core.Transaction{
			ID:               -tr.ID,
			Date:             tr.Date,
			Description:      description,
			Amount:           tr.Amount,
			Type:             core.TypeTransfer,
			CategoryName:     "Transfers",
			CategoryIconCode: core.TransferIcon,
			TransferID:       &tr.ID,
		})
	}
	return out
}

func transferDescription(prefix, counterpart, detail string) string {
	if detail != "" {
		return fmt.Sprintf("%s %s: %s", prefix, counterpart, detail)
	}
	return fmt.Sprintf("%s %s", prefix, counterpart)
}
