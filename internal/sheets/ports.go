package sheets

import (
	"context"

	"vydaje/internal/core"
)

// ExpenseWriter appends one expense row to the export target.
type ExpenseWriter interface {
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}
