package services

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestTodaySummaryEmpty(t *testing.T) {
	_, repo, loc := newTestService(t)
	stats := NewStatsService(repo, loc, "Kč")

	got, err := stats.Today(context.Background())
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if got != noExpensesToday {
		t.Errorf("today = %q, want %q", got, noExpensesToday)
	}
}

func TestTodaySummary(t *testing.T) {
	svc, repo, loc := newTestService(t)
	stats := NewStatsService(repo, loc, "Kč")
	ctx := context.Background()

	// 100 into a base category, 50 into a non-base one, both right now.
	if _, err := svc.AddExpense(ctx, "100 food"); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if _, err := svc.AddExpense(ctx, "50 uber"); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	got, err := stats.Today(ctx)
	if err != nil {
		t.Fatalf("today: %v", err)
	}

	want := "Expenses today:\n" +
		"Total — 150 Kč\n" +
		"Base — 100 Kč of 500 Kč\n\n" +
		"This month: /month"
	if got != want {
		t.Errorf("today = %q, want %q", got, want)
	}
}

func TestMonthSummaryEmpty(t *testing.T) {
	_, repo, loc := newTestService(t)
	stats := NewStatsService(repo, loc, "Kč")

	got, err := stats.Month(context.Background())
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	if got != noExpensesMonth {
		t.Errorf("month = %q, want %q", got, noExpensesMonth)
	}
}

func TestMonthSummaryScalesLimitByDayOfMonth(t *testing.T) {
	svc, repo, loc := newTestService(t)
	stats := NewStatsService(repo, loc, "Kč")
	ctx := context.Background()

	if _, err := svc.AddExpense(ctx, "100 food"); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if _, err := svc.AddExpense(ctx, "50 uber"); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	got, err := stats.Month(ctx)
	if err != nil {
		t.Fatalf("month: %v", err)
	}

	ceiling := 500 * int64(time.Now().In(loc).Day())
	want := fmt.Sprintf("Expenses this month:\n"+
		"Total — 150 Kč\n"+
		"Base — 100 Kč of %d Kč", ceiling)
	if got != want {
		t.Errorf("month = %q, want %q", got, want)
	}
}
