package core

import "github.com/shopspring/decimal"

// BudgetProgress is the display row for one active budget over a
// reporting window. LimitAmount is the budget's limit projected onto the
// window; OriginalLimit keeps the as-defined limit for editing.
type BudgetProgress struct {
	BudgetID         int64
	CategoryID       int64
	CategoryName     string
	CategoryIconCode string
	Period           BudgetPeriod

	OriginalLimit decimal.Decimal
	LimitAmount   decimal.Decimal
	SpentAmount   decimal.Decimal

	ProgressPercent float64
	IsOverBudget    bool
	ExceededAmount  decimal.Decimal
	RemainingAmount decimal.Decimal
}

// CalculateProgress derives the percentage and over/under amounts from
// the limit and spent fields. The percentage is capped at 100 for
// progress-bar display.
func (p *BudgetProgress) CalculateProgress() {
	if p.LimitAmount.IsPositive() {
		pct, _ := p.SpentAmount.Div(p.LimitAmount).Mul(decimal.NewFromInt(100)).Float64()
		if pct > 100 {
			pct = 100
		}
		p.ProgressPercent = pct
	} else {
		p.ProgressPercent = 0
	}

	p.IsOverBudget = p.SpentAmount.GreaterThan(p.LimitAmount)
	if p.IsOverBudget {
		p.ExceededAmount = p.SpentAmount.Sub(p.LimitAmount)
		p.RemainingAmount = decimal.Zero
	} else {
		p.ExceededAmount = decimal.Zero
		p.RemainingAmount = p.LimitAmount.Sub(p.SpentAmount)
	}
}

// CategoryShare is one slice of a category breakdown report.
type CategoryShare struct {
	CategoryID   int64
	CategoryName string
	IconCode     string
	Amount       decimal.Decimal
	Percentage   float64

	// IsMinor marks categories below the report's share threshold,
	// collapsed into an "Others" slice by the presentation layer.
	IsMinor bool
}
