// Package filter derives the visible subset of a collection snapshot from
// user-controlled criteria. Apply is pure and synchronous; it performs no
// I/O and keeps no state, so it can be re-run on every snapshot change or
// keystroke.
package filter

import (
	"strings"

	"github.com/horizonbtp/vitrine/internal/models"
)

// Any is the sentinel value of a categorical predicate meaning "match
// anything". An empty string means the same.
const Any = "all"

// Criteria is the session-local record of filter predicates. The zero value
// applies no predicate and returns the snapshot unchanged.
type Criteria struct {
	// Search is a case-insensitive substring matched against the row's
	// searchable fields. Empty means not applied.
	Search string

	// Fields maps categorical field names to required values. An empty
	// or Any value means the predicate is not applied.
	Fields map[string]string

	// PriceMin and PriceMax are inclusive bounds; zero means unbounded
	// on that side.
	PriceMin float64
	PriceMax float64
}

// WithField returns a copy of the criteria with one categorical predicate
// set. The receiver is not modified.
func (c Criteria) WithField(name, value string) Criteria {
	fields := make(map[string]string, len(c.Fields)+1)
	for k, v := range c.Fields {
		fields[k] = v
	}
	fields[name] = value
	c.Fields = fields
	return c
}

// Active reports whether any predicate is applied.
func (c Criteria) Active() bool {
	if strings.TrimSpace(c.Search) != "" {
		return true
	}
	if c.PriceMin > 0 || c.PriceMax > 0 {
		return true
	}
	for _, v := range c.Fields {
		if v != "" && v != Any {
			return true
		}
	}
	return false
}

// Apply returns the rows matching every active predicate (logical AND).
// Row order is preserved; the input slice is never modified.
func Apply(rows []models.Row, c Criteria) []models.Row {
	if !c.Active() {
		return rows
	}

	visible := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		if Matches(row, c) {
			visible = append(visible, row)
		}
	}
	return visible
}

// Matches reports whether a single row satisfies every active predicate.
func Matches(row models.Row, c Criteria) bool {
	if search := strings.TrimSpace(c.Search); search != "" {
		if !matchesSearch(row, search) {
			return false
		}
	}

	for name, want := range c.Fields {
		if want == "" || want == Any {
			continue
		}
		got, ok := row.CategoricalField(name)
		if !ok || got != want {
			return false
		}
	}

	if c.PriceMin > 0 || c.PriceMax > 0 {
		price, priced := row.PriceAmount()
		if !priced {
			return false
		}
		if c.PriceMin > 0 && price < c.PriceMin {
			return false
		}
		if c.PriceMax > 0 && price > c.PriceMax {
			return false
		}
	}

	return true
}

// matchesSearch checks the term against every searchable field,
// case-insensitively.
func matchesSearch(row models.Row, term string) bool {
	term = strings.ToLower(term)
	for _, field := range row.SearchableText() {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
