// Package services wires the categorization core to storage and the sync
// pipeline. It is the only surface the transport layer talks to.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vydaje/internal/amqp"
	"vydaje/internal/core"
	"vydaje/internal/log"
	"vydaje/internal/storage"
)

// recentLimit caps the /expenses listing.
const recentLimit = 10

// ExpenseService adds, lists and deletes expenses. The category catalog is
// re-read from storage on every resolution, so edits to the category table
// take effect without a restart.
type ExpenseService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client // nil when the sync pipeline is disabled
	loc        *time.Location
}

func NewExpenseService(repo *storage.SQLiteRepository, amqpClient *amqp.Client, loc *time.Location) *ExpenseService {
	return &ExpenseService{
		storage:    repo,
		amqpClient: amqpClient,
		loc:        loc,
	}
}

// AddExpense parses raw text like "250 taxi", resolves the category through
// alias matching and stores the expense with the current local timestamp.
// The returned expense carries the generated id. Raw text that does not
// look like an expense fails with core.ErrNotExpenseMessage.
func (s *ExpenseService) AddExpense(ctx context.Context, raw string) (core.Expense, error) {
	parsed, err := core.ParseMessage(raw)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse message: %w", err)
	}

	categories, err := s.storage.Categories(ctx)
	if err != nil {
		return core.Expense{}, fmt.Errorf("load categories: %w", err)
	}

	category, err := core.ResolveCategory(categories, parsed.CategoryText)
	if err != nil {
		return core.Expense{}, fmt.Errorf("resolve category: %w", err)
	}

	expense := core.Expense{
		Amount:           parsed.Amount,
		CategoryCodename: category.Codename,
		CategoryName:     category.Name,
		CreatedAt:        time.Now().In(s.loc),
		RawText:          raw,
	}

	id, err := s.storage.InsertExpense(ctx, expense)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	expense.ID = id

	s.publishUpsert(ctx, id)

	return expense, nil
}

// Recent returns the newest expenses, at most ten, newest first.
func (s *ExpenseService) Recent(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.storage.RecentExpenses(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent expenses: %w", err)
	}
	return expenses, nil
}

// Delete removes an expense by id. Unknown ids are a no-op.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishExpenseDelete(ctx, id); err != nil {
			// The local delete succeeded; the export side stays stale.
			slog.ErrorContext(ctx, "Failed to publish delete message",
				log.FieldExpenseID, id, log.FieldError, err)
		}
	}

	return nil
}

// Categories returns the catalog in storage order with resolved alias lists.
func (s *ExpenseService) Categories(ctx context.Context) ([]core.Category, error) {
	categories, err := s.storage.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return categories, nil
}

func (s *ExpenseService) publishUpsert(ctx context.Context, id int64) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishExpenseUpsert(ctx, id); err != nil {
		// Saved locally; the worker's pending scan will pick it up.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			log.FieldExpenseID, id, log.FieldError, err)
	}
}
