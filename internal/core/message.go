// Package core holds the domain types and the categorization core: parsing
// raw expense messages, resolving category hints through alias matching and
// validating expense records. It has no dependency on storage or transport.
package core

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// FormatHint is the user-facing correction sent back when a message does
// not look like an expense.
const FormatHint = "I can't understand that message. Write it as \"amount category\", for example:\n500 taxi"

// ErrNotExpenseMessage reports raw text that does not match the
// <amount> <category> shape. It is the only core error a caller is
// expected to recover from.
var ErrNotExpenseMessage = errors.New("message is not an expense")

// A leading group of digits (single spaces allowed as thousands grouping),
// one space, then the category text.
var expensePattern = regexp.MustCompile(`^([\d ]+) (.+)`)

// ParsedMessage is the result of splitting a raw expense message.
type ParsedMessage struct {
	Amount       int64
	CategoryText string
}

// ParseMessage splits raw text like "250 taxi" or "1 500 groceries" into a
// whole-unit amount and a lowercased, trimmed category hint. Interior
// spaces in the digit group are stripped before conversion.
func ParseMessage(raw string) (ParsedMessage, error) {
	m := expensePattern.FindStringSubmatch(raw)
	if m == nil {
		return ParsedMessage{}, ErrNotExpenseMessage
	}

	digits := strings.ReplaceAll(m[1], " ", "")
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || amount <= 0 {
		return ParsedMessage{}, ErrNotExpenseMessage
	}

	hint := strings.ToLower(strings.TrimSpace(m[2]))
	if hint == "" {
		return ParsedMessage{}, ErrNotExpenseMessage
	}

	return ParsedMessage{Amount: amount, CategoryText: hint}, nil
}
