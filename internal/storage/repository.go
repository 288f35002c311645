// Package storage implements the ledger store on SQLite. Amounts are
// persisted as decimal strings, never floats, and timestamps as
// fixed-width UTC strings so date-range comparisons work lexically.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"moneyrec/internal/core"
	"moneyrec/internal/ledger"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so stored timestamps order correctly as
// strings. All times are normalized to UTC before writing.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// EnsureDefaults seeds the default categories and the Cash account on
// an empty database. Safe to call on every startup.
func (r *SQLiteRepository) EnsureDefaults(ctx context.Context) error {
	var categories int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&categories); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if categories == 0 {
		for _, c := range core.DefaultCategories() {
			c := c
			if err := r.SaveCategory(ctx, &c); err != nil {
				return err
			}
		}
	}

	var accounts int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&accounts); err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if accounts == 0 {
		cash := core.DefaultCashAccount(time.Now())
		if err := r.SaveAccount(ctx, &cash); err != nil {
			return err
		}
	}

	return nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func encodeDecimal(d decimal.Decimal) string {
	return d.String()
}

func decodeDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Accounts

const accountColumns = `id, name, initial_balance, is_default, icon_code, created_at, allow_negative`

func scanAccount(row interface{ Scan(...any) error }) (core.Account, error) {
	var (
		a                  core.Account
		balance, createdAt string
	)
	err := row.Scan(&a.ID, &a.Name, &balance, &a.IsDefault, &a.IconCode, &createdAt, &a.AllowNegative)
	if err != nil {
		return a, err
	}
	a.InitialBalance = decodeDecimal(balance)
	a.CreatedAt = decodeTime(createdAt)
	return a, nil
}

func (r *SQLiteRepository) Accounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Account(ctx context.Context, id int64) (*core.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &a, nil
}

func (r *SQLiteRepository) DefaultAccount(ctx context.Context) (*core.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE is_default = 1 LIMIT 1`)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, fmt.Errorf("query default account: %w", err)
	}
	return &a, nil
}

func (r *SQLiteRepository) SaveAccount(ctx context.Context, a *core.Account) error {
	if a.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO accounts (name, initial_balance, is_default, icon_code, created_at, allow_negative)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			a.Name, encodeDecimal(a.InitialBalance), a.IsDefault, a.IconCode, encodeTime(a.CreatedAt), a.AllowNegative)
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("account insert id: %w", err)
		}
		a.ID = id
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, initial_balance = ?, is_default = ?, icon_code = ?, created_at = ?, allow_negative = ?
		 WHERE id = ?`,
		a.Name, encodeDecimal(a.InitialBalance), a.IsDefault, a.IconCode, encodeTime(a.CreatedAt), a.AllowNegative, a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AccountHasTransactions(ctx context.Context, accountID int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM transactions WHERE account_id = ? LIMIT 1`, accountID)
}

func (r *SQLiteRepository) AccountHasTransfers(ctx context.Context, accountID int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM transfers WHERE source_account_id = ? OR destination_account_id = ? LIMIT 1`, accountID, accountID)
}

func (r *SQLiteRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("existence query: %w", err)
	}
	return true, nil
}

// Categories

func (r *SQLiteRepository) Categories(ctx context.Context) ([]core.Category, error) {
	return r.queryCategories(ctx, `SELECT id, name, type, icon_code FROM categories ORDER BY id`)
}

func (r *SQLiteRepository) CategoriesByType(ctx context.Context, t core.CategoryType) ([]core.Category, error) {
	return r.queryCategories(ctx, `SELECT id, name, type, icon_code FROM categories WHERE type = ? ORDER BY id`, string(t))
}

func (r *SQLiteRepository) queryCategories(ctx context.Context, query string, args ...any) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.IconCode); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Category(ctx context.Context, id int64) (*core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `SELECT id, name, type, icon_code FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Type, &c.IconCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &c, nil
}

func (r *SQLiteRepository) SaveCategory(ctx context.Context, c *core.Category) error {
	if c.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO categories (name, type, icon_code) VALUES (?, ?, ?)`,
			c.Name, string(c.Type), c.IconCode)
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("category insert id: %w", err)
		}
		c.ID = id
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ?, icon_code = ? WHERE id = ?`,
		c.Name, string(c.Type), c.IconCode, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CategoryHasTransactions(ctx context.Context, categoryID int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM transactions WHERE category_id = ? LIMIT 1`, categoryID)
}

func (r *SQLiteRepository) ReassignCategory(ctx context.Context, fromID, toID int64) (int, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions SET category_id = ? WHERE category_id = ?`, toID, fromID)
	if err != nil {
		return 0, fmt.Errorf("reassign category: %w", err)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign category rows: %w", err)
	}
	return int(moved), nil
}

// Transactions

const transactionColumns = `id, date, description, amount, category_id, type, account_id`

func (r *SQLiteRepository) Transactions(ctx context.Context) ([]core.Transaction, error) {
	return r.queryTransactions(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, id DESC`)
}

func (r *SQLiteRepository) Transaction(ctx context.Context, id int64) (*core.Transaction, error) {
	rows, err := r.queryTransactions(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ledger.ErrNotFound
	}
	return &rows[0], nil
}

func (r *SQLiteRepository) TransactionsByDateRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE date >= ? AND date <= ? ORDER BY date DESC, id DESC`,
		encodeTime(start), encodeTime(end))
}

func (r *SQLiteRepository) TransactionsByAccount(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE account_id = ? ORDER BY date DESC, id DESC`,
		accountID)
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t            core.Transaction
			date, amount string
			accountID    sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &date, &t.Description, &amount, &t.CategoryID, &t.Type, &accountID); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date = decodeTime(date)
		t.Amount = decodeDecimal(amount)
		if accountID.Valid {
			id := accountID.Int64
			t.AccountID = &id
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveTransaction(ctx context.Context, t *core.Transaction) error {
	var accountID any
	if t.AccountID != nil {
		accountID = *t.AccountID
	}

	if t.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO transactions (date, description, amount, category_id, type, account_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			encodeTime(t.Date), t.Description, encodeDecimal(t.Amount), t.CategoryID, string(t.Type), accountID)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("transaction insert id: %w", err)
		}
		t.ID = id
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET date = ?, description = ?, amount = ?, category_id = ?, type = ?, account_id = ?
		 WHERE id = ?`,
		encodeTime(t.Date), t.Description, encodeDecimal(t.Amount), t.CategoryID, string(t.Type), accountID, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ReassignAccount(ctx context.Context, fromID, toID int64) (int, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions SET account_id = ? WHERE account_id = ?`, toID, fromID)
	if err != nil {
		return 0, fmt.Errorf("reassign account: %w", err)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign account rows: %w", err)
	}
	return int(moved), nil
}

// Transfers

const transferColumns = `id, date, amount, source_account_id, destination_account_id, description`

func (r *SQLiteRepository) Transfers(ctx context.Context) ([]core.Transfer, error) {
	return r.queryTransfers(ctx, `SELECT `+transferColumns+` FROM transfers ORDER BY date DESC, id DESC`)
}

func (r *SQLiteRepository) TransfersByDateRange(ctx context.Context, start, end time.Time) ([]core.Transfer, error) {
	return r.queryTransfers(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE date >= ? AND date <= ? ORDER BY date DESC, id DESC`,
		encodeTime(start), encodeTime(end))
}

func (r *SQLiteRepository) TransfersBySource(ctx context.Context, accountID int64) ([]core.Transfer, error) {
	return r.queryTransfers(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE source_account_id = ? ORDER BY date DESC, id DESC`, accountID)
}

func (r *SQLiteRepository) TransfersByDestination(ctx context.Context, accountID int64) ([]core.Transfer, error) {
	return r.queryTransfers(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE destination_account_id = ? ORDER BY date DESC, id DESC`, accountID)
}

func (r *SQLiteRepository) TransfersByAccount(ctx context.Context, accountID int64) ([]core.Transfer, error) {
	return r.queryTransfers(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE source_account_id = ? OR destination_account_id = ?
		 ORDER BY date DESC, id DESC`, accountID, accountID)
}

func (r *SQLiteRepository) queryTransfers(ctx context.Context, query string, args ...any) ([]core.Transfer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transfers: %w", err)
	}
	defer rows.Close()

	var out []core.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTransfer(row interface{ Scan(...any) error }) (core.Transfer, error) {
	var (
		t            core.Transfer
		date, amount string
	)
	err := row.Scan(&t.ID, &date, &amount, &t.SourceAccountID, &t.DestinationAccountID, &t.Description)
	if err != nil {
		return t, err
	}
	t.Date = decodeTime(date)
	t.Amount = decodeDecimal(amount)
	return t, nil
}

func (r *SQLiteRepository) Transfer(ctx context.Context, id int64) (*core.Transfer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = ?`, id)
	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, fmt.Errorf("query transfer: %w", err)
	}
	return &t, nil
}

func (r *SQLiteRepository) SaveTransfer(ctx context.Context, t *core.Transfer) error {
	if t.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO transfers (date, amount, source_account_id, destination_account_id, description)
			 VALUES (?, ?, ?, ?, ?)`,
			encodeTime(t.Date), encodeDecimal(t.Amount), t.SourceAccountID, t.DestinationAccountID, t.Description)
		if err != nil {
			return fmt.Errorf("insert transfer: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("transfer insert id: %w", err)
		}
		t.ID = id
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE transfers SET date = ?, amount = ?, source_account_id = ?, destination_account_id = ?, description = ?
		 WHERE id = ?`,
		encodeTime(t.Date), encodeDecimal(t.Amount), t.SourceAccountID, t.DestinationAccountID, t.Description, t.ID)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransfer(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transfers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	return nil
}

// Budgets

func (r *SQLiteRepository) Budgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category_id, limit_amount, period, created_at, active FROM budgets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var (
			b                core.Budget
			limit, createdAt string
		)
		if err := rows.Scan(&b.ID, &b.CategoryID, &limit, &b.Period, &createdAt, &b.Active); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.LimitAmount = decodeDecimal(limit)
		b.CreatedAt = decodeTime(createdAt)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveBudget(ctx context.Context, b *core.Budget) error {
	if b.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO budgets (category_id, limit_amount, period, created_at, active) VALUES (?, ?, ?, ?, ?)`,
			b.CategoryID, encodeDecimal(b.LimitAmount), string(b.Period), encodeTime(b.CreatedAt), b.Active)
		if err != nil {
			return fmt.Errorf("insert budget: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("budget insert id: %w", err)
		}
		b.ID = id
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET category_id = ?, limit_amount = ?, period = ?, created_at = ?, active = ? WHERE id = ?`,
		b.CategoryID, encodeDecimal(b.LimitAmount), string(b.Period), encodeTime(b.CreatedAt), b.Active, b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateBudgetAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE budgets SET limit_amount = ? WHERE id = ?`, encodeDecimal(amount), id)
	if err != nil {
		return fmt.Errorf("update budget amount: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update budget amount rows: %w", err)
	}
	if affected == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
