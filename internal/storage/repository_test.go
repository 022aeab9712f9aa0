package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"vydaje/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"), loc)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return repo
}

func insertAt(t *testing.T, repo *SQLiteRepository, amount int64, codename string, created time.Time) int64 {
	t.Helper()

	id, err := repo.InsertExpense(context.Background(), core.Expense{
		Amount:           amount,
		CategoryCodename: codename,
		CreatedAt:        created,
		RawText:          "test",
	})
	if err != nil {
		t.Fatalf("insert expense: %v", err)
	}
	return id
}

func TestSeededCatalog(t *testing.T) {
	repo := newTestRepo(t)

	categories, err := repo.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) == 0 {
		t.Fatal("expected seeded categories")
	}

	var other *core.Category
	for i := range categories {
		c := categories[i]
		if len(c.Aliases) < 2 {
			t.Errorf("category %q alias list too short: %v", c.Codename, c.Aliases)
		}
		if c.Codename == core.FallbackCodename {
			other = &categories[i]
		}
	}
	if other == nil {
		t.Fatal("seeded catalog is missing the \"other\" fallback")
	}
}

func TestDailyLimitSeeded(t *testing.T) {
	repo := newTestRepo(t)

	limit, err := repo.DailyLimit(context.Background())
	if err != nil {
		t.Fatalf("daily limit: %v", err)
	}
	if limit != 500 {
		t.Errorf("daily limit = %d, want seeded 500", limit)
	}
}

func TestInsertAndRecentExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 8, 15, 12, 0, 0, 0, repo.loc)

	first := insertAt(t, repo, 100, "taxi", base)
	second := insertAt(t, repo, 250, "products", base.Add(time.Hour))
	third := insertAt(t, repo, 40, "coffee", base.Add(2*time.Hour))

	expenses, err := repo.RecentExpenses(ctx, 10)
	if err != nil {
		t.Fatalf("recent expenses: %v", err)
	}
	if len(expenses) != 3 {
		t.Fatalf("got %d expenses, want 3", len(expenses))
	}

	wantIDs := []int64{third, second, first}
	for i, e := range expenses {
		if e.ID != wantIDs[i] {
			t.Errorf("expenses[%d].ID = %d, want %d (newest first)", i, e.ID, wantIDs[i])
		}
	}

	if expenses[1].Amount != 250 {
		t.Errorf("amount = %d, want 250", expenses[1].Amount)
	}
	if expenses[1].CategoryName != "groceries" {
		t.Errorf("category name = %q, want joined display name %q", expenses[1].CategoryName, "groceries")
	}
	if !expenses[1].CreatedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("created = %v, want %v", expenses[1].CreatedAt, base.Add(time.Hour))
	}
}

func TestRecentExpensesLimit(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2025, 8, 15, 8, 0, 0, 0, repo.loc)

	for i := 0; i < 12; i++ {
		insertAt(t, repo, 10, "other", base.Add(time.Duration(i)*time.Minute))
	}

	expenses, err := repo.RecentExpenses(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent expenses: %v", err)
	}
	if len(expenses) != 10 {
		t.Errorf("got %d expenses, want limit 10", len(expenses))
	}
}

func TestRecentExpensesEmpty(t *testing.T) {
	repo := newTestRepo(t)

	expenses, err := repo.RecentExpenses(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent expenses: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("got %d expenses, want empty", len(expenses))
	}
}

func TestDeleteExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := insertAt(t, repo, 100, "taxi", time.Date(2025, 8, 15, 12, 0, 0, 0, repo.loc))

	if err := repo.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	expenses, err := repo.RecentExpenses(ctx, 10)
	if err != nil {
		t.Fatalf("recent expenses: %v", err)
	}
	for _, e := range expenses {
		if e.ID == id {
			t.Errorf("deleted id %d still listed", id)
		}
	}

	// Deleting an id that does not exist is a no-op.
	if err := repo.DeleteExpense(ctx, 424242); err != nil {
		t.Errorf("delete of missing id: %v", err)
	}
}

func TestCreatedColumnRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := time.Date(2025, 8, 15, 14, 0, 0, 0, repo.loc)
	id := insertAt(t, repo, 100, "taxi", created)

	// The column must come back as the stored text. A typed column would
	// make the driver hand back a UTC time.Time and break the layout parse.
	var raw string
	if err := repo.db.QueryRowContext(ctx,
		`SELECT created FROM expense WHERE id = ?`, id).Scan(&raw); err != nil {
		t.Fatalf("read created column: %v", err)
	}
	if raw != "2025-08-15 14:00:00" {
		t.Errorf("created column = %q, want %q", raw, "2025-08-15 14:00:00")
	}

	got, err := repo.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("get expense: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created = %v, want %v", got.CreatedAt, created)
	}
	if got.CreatedAt.Hour() != 14 {
		t.Errorf("created hour = %d, want local wall clock 14", got.CreatedAt.Hour())
	}
}

func TestGetExpenseNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetExpense(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAggregateTotals(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	day := time.Date(2025, 8, 15, 10, 0, 0, 0, repo.loc)
	insertAt(t, repo, 100, "products", day) // base
	insertAt(t, repo, 50, "taxi", day)      // not base
	insertAt(t, repo, 70, "products", day.AddDate(0, 0, -5))
	insertAt(t, repo, 30, "taxi", day.AddDate(0, -1, 0)) // previous month

	total, err := repo.TotalForDate(ctx, "2025-08-15")
	if err != nil {
		t.Fatalf("total for date: %v", err)
	}
	if total != 150 {
		t.Errorf("total = %d, want 150", total)
	}

	baseTotal, err := repo.BaseTotalForDate(ctx, "2025-08-15")
	if err != nil {
		t.Fatalf("base total for date: %v", err)
	}
	if baseTotal != 100 {
		t.Errorf("base total = %d, want 100", baseTotal)
	}

	monthTotal, err := repo.TotalSince(ctx, "2025-08-01")
	if err != nil {
		t.Fatalf("total since: %v", err)
	}
	if monthTotal != 220 {
		t.Errorf("month total = %d, want 220", monthTotal)
	}

	monthBase, err := repo.BaseTotalSince(ctx, "2025-08-01")
	if err != nil {
		t.Fatalf("base total since: %v", err)
	}
	if monthBase != 170 {
		t.Errorf("month base total = %d, want 170", monthBase)
	}
}

func TestAggregateTotalsEmptyWindow(t *testing.T) {
	repo := newTestRepo(t)

	total, err := repo.TotalForDate(context.Background(), "2025-08-15")
	if err != nil {
		t.Fatalf("total for date: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0 for empty window", total)
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 8, 15, 12, 0, 0, 0, repo.loc)

	first := insertAt(t, repo, 100, "taxi", base)
	second := insertAt(t, repo, 200, "products", base.Add(time.Minute))

	ids, err := repo.PendingSyncExpenses(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(ids) != 2 || ids[0] != first || ids[1] != second {
		t.Fatalf("pending = %v, want [%d %d]", ids, first, second)
	}

	if err := repo.MarkSynced(ctx, first); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if err := repo.MarkSyncError(ctx, second); err != nil {
		t.Fatalf("mark sync error: %v", err)
	}

	ids, err = repo.PendingSyncExpenses(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(ids) != 1 || ids[0] != second {
		t.Fatalf("pending = %v, want only %d (errors stay pending)", ids, second)
	}
}
