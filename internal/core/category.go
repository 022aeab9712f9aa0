package core

import (
	"errors"
	"strings"
)

// FallbackCodename is the codename of the category that every unmatched
// hint resolves to. The catalog must always contain it.
const FallbackCodename = "other"

// ErrNoFallbackCategory reports a catalog without the "other" category.
// Resolution has no defined behavior without it, so this is a
// configuration error rather than something to degrade around.
var ErrNoFallbackCategory = errors.New(`category catalog has no "other" fallback`)

// Category is a single spending category together with the text fragments
// that resolve to it.
type Category struct {
	Codename      string
	Name          string
	IsBaseExpense bool
	Aliases       []string
}

// NewCategory builds a Category from a raw store record. The alias list is
// the comma-separated aliases column with entries trimmed and empties
// dropped, plus the codename and the display name, so it is never empty.
func NewCategory(codename, name string, isBase bool, aliasCSV string) Category {
	aliases := make([]string, 0, 4)
	for _, a := range strings.Split(aliasCSV, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			aliases = append(aliases, a)
		}
	}
	aliases = append(aliases, codename, name)

	return Category{
		Codename:      codename,
		Name:          name,
		IsBaseExpense: isBase,
		Aliases:       aliases,
	}
}

// ResolveCategory maps a lowercased category hint to a category. A category
// matches when the hint contains one of its aliases as a substring, with
// aliases lowercased at comparison time. The scan always covers the whole
// catalog and the last matching category in catalog order wins, overriding
// earlier hits; keep the accumulator, an early exit changes behavior.
// Hints that match nothing resolve to the "other" category.
func ResolveCategory(categories []Category, hint string) (Category, error) {
	var found *Category
	var fallback *Category

	for i := range categories {
		c := &categories[i]
		if c.Codename == FallbackCodename {
			fallback = c
		}
		for _, alias := range c.Aliases {
			if strings.Contains(hint, strings.ToLower(alias)) {
				found = c
			}
		}
	}

	if found != nil {
		return *found, nil
	}
	if fallback == nil {
		return Category{}, ErrNoFallbackCategory
	}
	return *fallback, nil
}
