package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category codename")
)

// Expense is a single stored spending record. ID is zero until the store
// assigns one on insert; an expense is never updated after that, only
// deleted by id.
type Expense struct {
	ID               int64
	Amount           int64 // whole currency units, always positive
	CategoryCodename string
	CategoryName     string
	CreatedAt        time.Time // local time in the configured zone
	RawText          string
}

func (e Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.CategoryCodename) == "" {
		return ErrEmptyCategory
	}
	return nil
}
