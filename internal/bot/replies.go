package bot

import (
	"fmt"
	"strconv"
	"strings"

	"vydaje/internal/core"
)

const helpText = "Expense tracking bot\n\n" +
	"Add an expense: 250 taxi\n" +
	"Today's statistics: /today\n" +
	"This month: /month\n" +
	"Recent expenses: /expenses\n" +
	"Expense categories: /categories"

const (
	deletedText    = "Deleted"
	noExpensesText = "No expenses recorded yet"
	storeErrorText = "Something went wrong, try again later"
)

// parseDeleteCommand recognizes "/del<id>" messages.
func parseDeleteCommand(text string) (int64, bool) {
	rest, found := strings.CutPrefix(text, "/del")
	if !found || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func formatAdded(e core.Expense, todayStats, currency string) string {
	added := fmt.Sprintf("Added %d %s on %s.", e.Amount, currency, e.CategoryName)
	if todayStats == "" {
		return added
	}
	return added + "\n\n" + todayStats
}

func formatRecent(expenses []core.Expense, currency string) string {
	if len(expenses) == 0 {
		return noExpensesText
	}

	rows := make([]string, len(expenses))
	for i, e := range expenses {
		rows[i] = fmt.Sprintf("%d %s on %s — /del%d to remove",
			e.Amount, currency, e.CategoryName, e.ID)
	}
	return "Recent expenses:\n\n* " + strings.Join(rows, "\n\n* ")
}

func formatCategories(categories []core.Category) string {
	rows := make([]string, len(categories))
	for i, c := range categories {
		rows[i] = c.Name + " (" + strings.Join(c.Aliases, ", ") + ")"
	}
	return "Expense categories:\n\n* " + strings.Join(rows, "\n* ")
}
