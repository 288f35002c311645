package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"

	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

type (
	CategoryType string

	// TransactionType drives display polarity. TypeTransfer never reaches
	// storage; it only appears on records materialized from a Transfer.
	TransactionType string

	Account struct {
		ID             int64
		Name           string
		InitialBalance decimal.Decimal
		IsDefault      bool
		IconCode       string
		CreatedAt      time.Time
		AllowNegative  bool
	}

	Category struct {
		ID       int64
		Name     string
		Type     CategoryType
		IconCode string
	}

	// Transaction amounts are stored non-negative; the sign shown to the
	// user comes from Type. Fields past AccountID are display-only and
	// filled in by enrichment or transfer materialization, never persisted.
	Transaction struct {
		ID          int64
		Date        time.Time
		Description string
		Amount      decimal.Decimal
		CategoryID  int64
		Type        TransactionType
		AccountID   *int64 // nil means the default/cash account

		CategoryName     string
		CategoryIconCode string
		AccountName      string
		AccountIconCode  string
		TransferID       *int64 // set on materialized transfer records
		IsOutgoing       bool
		Counterpart      string
	}

	// Transfer is persisted as one row; the two-sided account view is
	// synthesized on read. Account names are display-only.
	Transfer struct {
		ID                   int64
		Date                 time.Time
		Amount               decimal.Decimal
		SourceAccountID      int64
		DestinationAccountID int64
		Description          string

		SourceAccountName      string
		DestinationAccountName string
	}

	Budget struct {
		ID          int64
		CategoryID  int64
		LimitAmount decimal.Decimal
		Period      BudgetPeriod
		CreatedAt   time.Time
		Active      bool
	}

	// AccountBalance is one row of the all-account balance listing.
	AccountBalance struct {
		AccountID      int64
		AccountName    string
		CurrentBalance decimal.Decimal
		LastActivity   time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid type")
	ErrEmptyName        = errors.New("empty name")
	ErrMissingCategory  = errors.New("missing category")
	ErrMissingAccount   = errors.New("missing account")
	ErrSameAccount      = errors.New("source and destination accounts must differ")
	ErrDefaultAccount   = errors.New("default account cannot be deleted")
	ErrNegativeBalance  = errors.New("negative balance not allowed for this account")
	ErrLastCategory     = errors.New("last category of its type cannot be deleted")
	ErrInsufficientFund = errors.New("insufficient funds on source account")
)

func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if a.InitialBalance.IsNegative() && !a.AllowNegative {
		return ErrNegativeBalance
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if t.CategoryID == 0 {
		return ErrMissingCategory
	}
	// Only income and expense rows are ever written; transfer-typed
	// records exist purely as materialized views of a Transfer.
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return ErrInvalidType
	}
	return nil
}

func (tr Transfer) Validate() error {
	if tr.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if tr.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if tr.SourceAccountID == 0 || tr.DestinationAccountID == 0 {
		return ErrMissingAccount
	}
	if tr.SourceAccountID == tr.DestinationAccountID {
		return ErrSameAccount
	}
	return nil
}

func (b Budget) Validate() error {
	if b.CategoryID == 0 {
		return ErrMissingCategory
	}
	if b.LimitAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !b.Period.Valid() {
		return errors.New("invalid budget period")
	}
	return nil
}
