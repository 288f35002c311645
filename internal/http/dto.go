package http

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"moneyrec/internal/core"
	"moneyrec/internal/services"
)

// Wire representations. Decimal amounts marshal as quoted strings, so
// clients never see float rounding. Icon codes travel alongside their
// resolved glyphs so clients can render either.

// positiveAmount decodes a monetary amount that must be strictly
// positive. String values go through the domain parser, which also
// accepts comma decimals.
type positiveAmount struct {
	decimal.Decimal
}

func (a *positiveAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d, err := core.ParseAmount(s)
		if err != nil {
			return err
		}
		a.Decimal = d
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}

// signedAmount decodes an amount that may legitimately be negative,
// such as an account's initial balance.
type signedAmount struct {
	decimal.Decimal
}

func (a *signedAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d, err := core.ParseSignedAmount(s)
		if err != nil {
			return err
		}
		a.Decimal = d
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}

type accountJSON struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	InitialBalance signedAmount `json:"initial_balance"`
	IsDefault      bool         `json:"is_default"`
	IconCode       string       `json:"icon_code,omitempty"`
	Icon           string       `json:"icon,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	AllowNegative  bool         `json:"allow_negative"`
}

func fromAccount(a core.Account) accountJSON {
	return accountJSON{
		ID:             a.ID,
		Name:           a.Name,
		InitialBalance: signedAmount{a.InitialBalance},
		IsDefault:      a.IsDefault,
		IconCode:       a.IconCode,
		Icon:           core.AccountDisplayIcon(a.IconCode),
		CreatedAt:      a.CreatedAt,
		AllowNegative:  a.AllowNegative,
	}
}

func (j accountJSON) toAccount() core.Account {
	return core.Account{
		ID:             j.ID,
		Name:           j.Name,
		InitialBalance: j.InitialBalance.Decimal,
		IsDefault:      j.IsDefault,
		IconCode:       j.IconCode,
		CreatedAt:      j.CreatedAt,
		AllowNegative:  j.AllowNegative,
	}
}

type categoryJSON struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Type     core.CategoryType `json:"type"`
	IconCode string            `json:"icon_code,omitempty"`
	Icon     string            `json:"icon,omitempty"`
}

func fromCategory(c core.Category) categoryJSON {
	return categoryJSON{
		ID:       c.ID,
		Name:     c.Name,
		Type:     c.Type,
		IconCode: c.IconCode,
		Icon:     core.CategoryDisplayIcon(c.IconCode),
	}
}

func (j categoryJSON) toCategory() core.Category {
	return core.Category{ID: j.ID, Name: j.Name, Type: j.Type, IconCode: j.IconCode}
}

type transactionJSON struct {
	ID          int64                `json:"id"`
	Date        time.Time            `json:"date"`
	Description string               `json:"description"`
	Amount      positiveAmount       `json:"amount"`
	CategoryID  int64                `json:"category_id"`
	Type        core.TransactionType `json:"type"`
	AccountID   *int64               `json:"account_id,omitempty"`

	CategoryName     string `json:"category_name,omitempty"`
	CategoryIconCode string `json:"category_icon_code,omitempty"`
	CategoryIcon     string `json:"category_icon,omitempty"`
	AccountName      string `json:"account_name,omitempty"`
	AccountIconCode  string `json:"account_icon_code,omitempty"`
	AccountIcon      string `json:"account_icon,omitempty"`
	TransferID       *int64 `json:"transfer_id,omitempty"`
	IsOutgoing       bool   `json:"is_outgoing,omitempty"`
	Counterpart      string `json:"counterpart,omitempty"`
}

func fromTransaction(t core.Transaction) transactionJSON {
	j := transactionJSON{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      positiveAmount{t.Amount},
		CategoryID:  t.CategoryID,
		Type:        t.Type,
		AccountID:   t.AccountID,

		CategoryName:     t.CategoryName,
		CategoryIconCode: t.CategoryIconCode,
		AccountName:      t.AccountName,
		AccountIconCode:  t.AccountIconCode,
		TransferID:       t.TransferID,
		IsOutgoing:       t.IsOutgoing,
		Counterpart:      t.Counterpart,
	}
	if t.CategoryIconCode != "" {
		j.CategoryIcon = core.CategoryDisplayIcon(t.CategoryIconCode)
	}
	if t.AccountIconCode != "" {
		j.AccountIcon = core.AccountDisplayIcon(t.AccountIconCode)
	}
	return j
}

func fromTransactions(items []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(items))
	for _, t := range items {
		out = append(out, fromTransaction(t))
	}
	return out
}

func (j transactionJSON) toTransaction() core.Transaction {
	return core.Transaction{
		ID:          j.ID,
		Date:        j.Date,
		Description: j.Description,
		Amount:      j.Amount.Decimal,
		CategoryID:  j.CategoryID,
		Type:        j.Type,
		AccountID:   j.AccountID,
	}
}

type transferJSON struct {
	ID                   int64          `json:"id"`
	Date                 time.Time      `json:"date"`
	Amount               positiveAmount `json:"amount"`
	SourceAccountID      int64          `json:"source_account_id"`
	DestinationAccountID int64          `json:"destination_account_id"`
	Description          string         `json:"description,omitempty"`

	SourceAccountName      string `json:"source_account_name,omitempty"`
	DestinationAccountName string `json:"destination_account_name,omitempty"`
}

func fromTransfer(t core.Transfer) transferJSON {
	return transferJSON{
		ID:                   t.ID,
		Date:                 t.Date,
		Amount:               positiveAmount{t.Amount},
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		Description:          t.Description,

		SourceAccountName:      t.SourceAccountName,
		DestinationAccountName: t.DestinationAccountName,
	}
}

func (j transferJSON) toTransfer() core.Transfer {
	return core.Transfer{
		ID:                   j.ID,
		Date:                 j.Date,
		Amount:               j.Amount.Decimal,
		SourceAccountID:      j.SourceAccountID,
		DestinationAccountID: j.DestinationAccountID,
		Description:          j.Description,
	}
}

type budgetJSON struct {
	ID          int64             `json:"id"`
	CategoryID  int64             `json:"category_id"`
	LimitAmount positiveAmount    `json:"limit_amount"`
	Period      core.BudgetPeriod `json:"period"`
	CreatedAt   time.Time         `json:"created_at"`
	Active      bool              `json:"active"`
}

func fromBudget(b core.Budget) budgetJSON {
	return budgetJSON{
		ID:          b.ID,
		CategoryID:  b.CategoryID,
		LimitAmount: positiveAmount{b.LimitAmount},
		Period:      b.Period,
		CreatedAt:   b.CreatedAt,
		Active:      b.Active,
	}
}

func (j budgetJSON) toBudget() core.Budget {
	return core.Budget{
		ID:          j.ID,
		CategoryID:  j.CategoryID,
		LimitAmount: j.LimitAmount.Decimal,
		Period:      j.Period,
		CreatedAt:   j.CreatedAt,
		Active:      j.Active,
	}
}

type budgetProgressJSON struct {
	BudgetID         int64             `json:"budget_id"`
	CategoryID       int64             `json:"category_id"`
	CategoryName     string            `json:"category_name"`
	CategoryIconCode string            `json:"category_icon_code,omitempty"`
	CategoryIcon     string            `json:"category_icon,omitempty"`
	Period           core.BudgetPeriod `json:"period"`
	OriginalLimit    decimal.Decimal   `json:"original_limit"`
	LimitAmount      decimal.Decimal   `json:"limit_amount"`
	SpentAmount      decimal.Decimal   `json:"spent_amount"`
	ProgressPercent  float64           `json:"progress_percent"`
	IsOverBudget     bool              `json:"is_over_budget"`
	ExceededAmount   decimal.Decimal   `json:"exceeded_amount"`
	RemainingAmount  decimal.Decimal   `json:"remaining_amount"`
}

func fromBudgetProgress(p core.BudgetProgress) budgetProgressJSON {
	return budgetProgressJSON{
		BudgetID:         p.BudgetID,
		CategoryID:       p.CategoryID,
		CategoryName:     p.CategoryName,
		CategoryIconCode: p.CategoryIconCode,
		CategoryIcon:     core.CategoryDisplayIcon(p.CategoryIconCode),
		Period:           p.Period,
		OriginalLimit:    p.OriginalLimit,
		LimitAmount:      p.LimitAmount,
		SpentAmount:      p.SpentAmount,
		ProgressPercent:  p.ProgressPercent,
		IsOverBudget:     p.IsOverBudget,
		ExceededAmount:   p.ExceededAmount,
		RemainingAmount:  p.RemainingAmount,
	}
}

type budgetOverviewJSON struct {
	Budgets    []budgetProgressJSON `json:"budgets"`
	TotalLimit decimal.Decimal      `json:"total_limit"`
	TotalSpent decimal.Decimal      `json:"total_spent"`
}

type accountBalanceJSON struct {
	AccountID      int64           `json:"account_id"`
	AccountName    string          `json:"account_name"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	LastActivity   time.Time       `json:"last_activity"`
}

type groupJSON struct {
	Name     string            `json:"name"`
	Items    []transactionJSON `json:"items"`
	Count    int               `json:"count"`
	Total    decimal.Decimal   `json:"total"`
	IconCode string            `json:"icon_code,omitempty"`
	Icon     string            `json:"icon,omitempty"`
}

func fromGroups(groups []core.TransactionGroup) []groupJSON {
	out := make([]groupJSON, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupJSON{
			Name:     g.Name,
			Items:    fromTransactions(g.Items),
			Count:    g.Count,
			Total:    g.Total,
			IconCode: g.IconCode,
			Icon:     core.DisplayIcon(g.IconCode, core.DefaultCategoryIcon),
		})
	}
	return out
}

type overviewJSON struct {
	Transactions  []transactionJSON `json:"transactions"`
	Groups        []groupJSON       `json:"groups,omitempty"`
	TotalBalance  decimal.Decimal   `json:"total_balance"`
	TotalIncomes  decimal.Decimal   `json:"total_incomes"`
	TotalExpenses decimal.Decimal   `json:"total_expenses"`
}

func fromOverview(o *services.Overview) overviewJSON {
	return overviewJSON{
		Transactions:  fromTransactions(o.Transactions),
		Groups:        fromGroups(o.Groups),
		TotalBalance:  o.TotalBalance,
		TotalIncomes:  o.TotalIncomes,
		TotalExpenses: o.TotalExpenses,
	}
}

type categoryShareJSON struct {
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	IconCode     string          `json:"icon_code,omitempty"`
	Icon         string          `json:"icon,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   float64         `json:"percentage"`
	IsMinor      bool            `json:"is_minor"`
}

func fromCategoryShares(shares []core.CategoryShare) []categoryShareJSON {
	out := make([]categoryShareJSON, 0, len(shares))
	for _, s := range shares {
		out = append(out, categoryShareJSON{
			CategoryID:   s.CategoryID,
			CategoryName: s.CategoryName,
			IconCode:     s.IconCode,
			Icon:         core.CategoryDisplayIcon(s.IconCode),
			Amount:       s.Amount,
			Percentage:   s.Percentage,
			IsMinor:      s.IsMinor,
		})
	}
	return out
}
