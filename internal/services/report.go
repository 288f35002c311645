package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger"
)

// minorShareThreshold is the percentage under which a category is
// collapsed into the "Others" slice of a breakdown chart.
const minorShareThreshold = 10.0

// ReportService builds category breakdown reports per reporting window.
type ReportService struct {
	store    ledger.Store
	enricher *Enricher
}

func NewReportService(store ledger.Store) *ReportService {
	return &ReportService{store: store, enricher: NewEnricher(store)}
}

// CategoryBreakdown sums spending (or income) per category over the
// window and computes each category's share of the total. Shares under
// the minor threshold are flagged for collapsing by the caller.
func (s *ReportService) CategoryBreakdown(ctx context.Context, typ core.TransactionType, period core.PeriodType, customStart, customEnd time.Time) ([]core.CategoryShare, error) {
	start, end := core.DateRange(period, customStart, customEnd)

	transactions, err := s.store.TransactionsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	transactions, err = s.enricher.EnrichTransactions(ctx, transactions)
	if err != nil {
		return nil, err
	}

	totals := make(map[int64]*core.CategoryShare)
	grand := decimal.Zero
	for _, t := range transactions {
		if t.Type != typ {
			continue
		}
		amount := t.Amount.Abs()
		grand = grand.Add(amount)

		share, ok := totals[t.CategoryID]
		if !ok {
			share = &core.CategoryShare{
				CategoryID:   t.CategoryID,
				CategoryName: t.CategoryName,
				IconCode:     t.CategoryIconCode,
			}
			totals[t.CategoryID] = share
		}
		share.Amount = share.Amount.Add(amount)
	}

	out := make([]core.CategoryShare, 0, len(totals))
	for _, share := range totals {
		if grand.IsPositive() {
			pct, _ := share.Amount.Div(grand).Mul(decimal.NewFromInt(100)).Float64()
			share.Percentage = pct
			share.IsMinor = pct < minorShareThreshold
		}
		out = append(out, *share)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].CategoryName < out[j].CategoryName
	})

	return out, nil
}
