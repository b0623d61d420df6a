package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensetracker/internal/core"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteRepository persists expenses and categories in a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

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

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// runMigrations applies any pending migrations from the embedded set. It
// runs over a dedicated connection so the repository's pool never sees the
// schema mid-change.
func runMigrations(dbPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("wrap migration connection: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	switch err := m.Up(); {
	case err == nil, errors.Is(err, migrate.ErrNoChange):
		return nil
	default:
		return fmt.Errorf("apply migrations: %w", err)
	}
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) SaveExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount, category, description, date) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Amount, e.Category, e.Description, e.Date.String())
	if err != nil {
		return fmt.Errorf("insert expense %s: %w", e.ID, err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"amount", e.Amount,
		"category", e.Category,
		"date", e.Date.String())
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount, category, description, date FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.NewError(core.KindNotFound, "expense %q not found", id)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, category = ?, description = ?, date = ? WHERE id = ?`,
		e.Amount, e.Category, e.Description, e.Date.String(), e.ID)
	if err != nil {
		return fmt.Errorf("update expense %s: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense %s: %w", e.ID, err)
	}
	if n == 0 {
		return core.NewError(core.KindNotFound, "expense %q not found", e.ID)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	if n == 0 {
		return core.NewError(core.KindNotFound, "expense %q not found", id)
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, category, description, date FROM expenses ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (r *SQLiteRepository) SaveCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, budget_limit, monthly_budget) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET description = excluded.description,
		     budget_limit = excluded.budget_limit, monthly_budget = excluded.monthly_budget`,
		c.Name, c.Description, c.BudgetLimit, c.MonthlyBudget)
	if err != nil {
		return fmt.Errorf("save category %s: %w", c.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, name string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT name, description, budget_limit, monthly_budget FROM categories WHERE name = ?`, name).
		Scan(&c.Name, &c.Description, &c.BudgetLimit, &c.MonthlyBudget)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.NewError(core.KindNotFound, "category %q not found", name)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %s: %w", name, err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, description, budget_limit, monthly_budget FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.Name, &c.Description, &c.BudgetLimit, &c.MonthlyBudget); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete category %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category %s: %w", name, err)
	}
	if n == 0 {
		return core.NewError(core.KindNotFound, "category %q not found", name)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e       core.Expense
		dateStr string
	)
	if err := row.Scan(&e.ID, &e.Amount, &e.Category, &e.Description, &dateStr); err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	e.Date = date
	return e, nil
}
