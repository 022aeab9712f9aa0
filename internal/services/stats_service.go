package services

import (
	"context"
	"fmt"
	"time"

	"vydaje/internal/storage"
)

const dateLayout = "2006-01-02"

const (
	noExpensesToday = "No expenses yet today"
	noExpensesMonth = "No expenses yet this month"
)

// StatsService computes day and month spending summaries against the
// configured daily budget limit. Summaries are pure reads; the total and
// the base-only sum are two independent queries, so a write landing
// between them can skew one line transiently. That is accepted.
type StatsService struct {
	storage  *storage.SQLiteRepository
	loc      *time.Location
	currency string
}

func NewStatsService(repo *storage.SQLiteRepository, loc *time.Location, currency string) *StatsService {
	return &StatsService{
		storage:  repo,
		loc:      loc,
		currency: currency,
	}
}

// Today reports the current local calendar day: total spend, and base
// spend against the daily limit.
func (s *StatsService) Today(ctx context.Context) (string, error) {
	now := time.Now().In(s.loc)
	date := now.Format(dateLayout)

	total, err := s.storage.TotalForDate(ctx, date)
	if err != nil {
		return "", fmt.Errorf("total for today: %w", err)
	}
	if total == 0 {
		return noExpensesToday, nil
	}

	base, err := s.storage.BaseTotalForDate(ctx, date)
	if err != nil {
		return "", fmt.Errorf("base total for today: %w", err)
	}

	limit, err := s.storage.DailyLimit(ctx)
	if err != nil {
		return "", fmt.Errorf("daily limit: %w", err)
	}

	return fmt.Sprintf(
		"Expenses today:\n"+
			"Total — %d %s\n"+
			"Base — %d %s of %d %s\n\n"+
			"This month: /month",
		total, s.currency, base, s.currency, limit, s.currency), nil
}

// Month reports the window from the first of the current local month
// through now. The budget ceiling scales the daily limit by the current
// day of month: what base spend would be if every day stayed within limit.
func (s *StatsService) Month(ctx context.Context) (string, error) {
	now := time.Now().In(s.loc)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc).Format(dateLayout)

	total, err := s.storage.TotalSince(ctx, firstOfMonth)
	if err != nil {
		return "", fmt.Errorf("total for month: %w", err)
	}
	if total == 0 {
		return noExpensesMonth, nil
	}

	base, err := s.storage.BaseTotalSince(ctx, firstOfMonth)
	if err != nil {
		return "", fmt.Errorf("base total for month: %w", err)
	}

	limit, err := s.storage.DailyLimit(ctx)
	if err != nil {
		return "", fmt.Errorf("daily limit: %w", err)
	}

	ceiling := limit * int64(now.Day())

	return fmt.Sprintf(
		"Expenses this month:\n"+
			"Total — %d %s\n"+
			"Base — %d %s of %d %s",
		total, s.currency, base, s.currency, ceiling, s.currency), nil
}
