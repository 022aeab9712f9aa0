// Package storage persists expenses, categories and the budget limit in
// SQLite. The schema and the seeded default catalog live in embedded
// migrations run on startup.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"vydaje/internal/core"
	"vydaje/internal/log"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02 15:04:05"

// ErrNotFound reports a lookup for an expense id that does not exist.
var ErrNotFound = errors.New("expense not found")

type SQLiteRepository struct {
	db  *sql.DB
	loc *time.Location
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// runs pending migrations. Timestamps are stored and read back in loc;
// aggregates group by the local calendar date, so the zone is load-bearing.
func NewSQLiteRepository(dbPath string, loc *time.Location) (*SQLiteRepository, error) {
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

	return &SQLiteRepository{db: db, loc: loc}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Categories returns every category in storage order with its alias list
// filled in. The order matters: it drives resolution tie-breaking.
func (r *SQLiteRepository) Categories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT codename, name, is_base_expense, aliases FROM category`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var (
			codename, name, aliases string
			isBase                  bool
		)
		if err := rows.Scan(&codename, &name, &isBase, &aliases); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, core.NewCategory(codename, name, isBase, aliases))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// DailyLimit returns the configured per-day ceiling for base expenses.
func (r *SQLiteRepository) DailyLimit(ctx context.Context) (int64, error) {
	var limit int64
	err := r.db.QueryRowContext(ctx,
		`SELECT daily_limit FROM budget LIMIT 1`).Scan(&limit)
	if err != nil {
		return 0, fmt.Errorf("query daily limit: %w", err)
	}
	return limit, nil
}

// InsertExpense stores a new expense and returns the generated id.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expense (amount, created, category_codename, raw_text) VALUES (?, ?, ?, ?)`,
		e.Amount, e.CreatedAt.In(r.loc).Format(timeLayout), e.CategoryCodename, e.RawText)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		log.FieldExpenseID, id,
		log.FieldAmount, e.Amount,
		log.FieldCategory, e.CategoryCodename)

	return id, nil
}

// DeleteExpense removes the expense with the given id. Deleting an id that
// does not exist is a no-op, not an error.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expense WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// GetExpense returns a single expense by id, with the category display name
// joined in. Returns ErrNotFound for unknown ids.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT e.id, e.amount, e.created, e.category_codename, COALESCE(c.name, e.category_codename), COALESCE(e.raw_text, '')
		 FROM expense e LEFT JOIN category c ON c.codename = e.category_codename
		 WHERE e.id = ?`, id)

	e, err := r.scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

// RecentExpenses returns up to limit expenses, newest first, each joined
// with its category display name.
func (r *SQLiteRepository) RecentExpenses(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.amount, e.created, e.category_codename, COALESCE(c.name, e.category_codename), COALESCE(e.raw_text, '')
		 FROM expense e LEFT JOIN category c ON c.codename = e.category_codename
		 ORDER BY e.created DESC, e.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := r.scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// TotalForDate sums all expense amounts created on the given local calendar
// date (YYYY-MM-DD). Returns zero for an empty window.
func (r *SQLiteRepository) TotalForDate(ctx context.Context, date string) (int64, error) {
	return r.sumAmount(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expense WHERE date(created) = ?`, date)
}

// BaseTotalForDate is TotalForDate restricted to base-expense categories.
func (r *SQLiteRepository) BaseTotalForDate(ctx context.Context, date string) (int64, error) {
	return r.sumAmount(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expense
		 WHERE date(created) = ?
		 AND category_codename IN (SELECT codename FROM category WHERE is_base_expense = true)`, date)
}

// TotalSince sums all expense amounts created on or after the given local
// calendar date.
func (r *SQLiteRepository) TotalSince(ctx context.Context, date string) (int64, error) {
	return r.sumAmount(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expense WHERE date(created) >= ?`, date)
}

// BaseTotalSince is TotalSince restricted to base-expense categories.
func (r *SQLiteRepository) BaseTotalSince(ctx context.Context, date string) (int64, error) {
	return r.sumAmount(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expense
		 WHERE date(created) >= ?
		 AND category_codename IN (SELECT codename FROM category WHERE is_base_expense = true)`, date)
}

func (r *SQLiteRepository) sumAmount(ctx context.Context, query, date string) (int64, error) {
	var sum int64
	if err := r.db.QueryRowContext(ctx, query, date).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return sum, nil
}

// PendingSyncExpenses returns ids of expenses not yet exported to the
// spreadsheet, oldest first.
func (r *SQLiteRepository) PendingSyncExpenses(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM expense WHERE synced = false ORDER BY id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending sync expenses: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending ids: %w", err)
	}

	return ids, nil
}

// MarkSynced records that an expense row has been exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE expense SET synced = true WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	return nil
}

// MarkSyncError counts a failed export attempt for later inspection.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE expense SET sync_attempts = sync_attempts + 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark expense sync error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e       core.Expense
		created string
	)
	if err := row.Scan(&e.ID, &e.Amount, &created, &e.CategoryCodename, &e.CategoryName, &e.RawText); err != nil {
		return core.Expense{}, err
	}

	ts, err := time.ParseInLocation(timeLayout, created, r.loc)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse created %q: %w", created, err)
	}
	e.CreatedAt = ts

	return e, nil
}
