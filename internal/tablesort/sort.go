// Package tablesort holds the sort state of a list screen and orders
// collections by a chosen column. Sorting is pure: the input slice is
// never modified and equal rows keep their relative order.
package tablesort

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"bazaaradmin/internal/api"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// State is the (active column, direction) pair of one table.
type State struct {
	OrderBy string
	Order   Order
}

// Request applies a sort request for a column: repeating the active
// column flips the direction, a new column resets to ascending.
func (s *State) Request(column string) {
	if s.OrderBy == column {
		if s.Order == Asc {
			s.Order = Desc
		} else {
			s.Order = Asc
		}
		return
	}
	s.OrderBy = column
	s.Order = Asc
}

// Apply returns a copy of items ordered per the state. An empty OrderBy,
// or one naming no known column, keeps the original order.
func Apply(items []api.Entity, columns []api.Column, state State) []api.Entity {
	sorted := make([]api.Entity, len(items))
	copy(sorted, items)
	if state.OrderBy == "" {
		return sorted
	}

	var column api.Column
	found := false
	for _, c := range columns {
		if c.ID == state.OrderBy {
			column = c
			found = true
			break
		}
	}
	if !found {
		return sorted
	}

	// Collators are not safe for concurrent use, so build one per call.
	collator := collate.New(language.Persian)
	less := lessFunc(column, collator)
	sort.SliceStable(sorted, func(i, j int) bool {
		if state.Order == Desc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

func lessFunc(column api.Column, collator *collate.Collator) func(a, b api.Entity) bool {
	field := column.ID
	switch column.Kind {
	case api.KindNumber:
		return func(a, b api.Entity) bool {
			return a.Num(field) < b.Num(field)
		}
	case api.KindBool:
		// true sorts above false.
		return func(a, b api.Entity) bool {
			return !a.Bool(field) && b.Bool(field)
		}
	default:
		return func(a, b api.Entity) bool {
			return collator.CompareString(a.Str(field), b.Str(field)) < 0
		}
	}
}
