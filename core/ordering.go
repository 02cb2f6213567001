package core

import (
	"sort"
	"strings"
)

// Ordering is one sort key of a table, parsed from `field` or `-field`.
type Ordering struct {
	Field     string
	Ascending bool
}

func (ord Ordering) String() string {
	if ord.Ascending {
		return ord.Field
	}
	return "-" + ord.Field
}

// ParseOrderings parses a comma separated list like "status,-due_date".
func ParseOrderings(s string) []Ordering {
	var ords []Ordering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" || field == "-" {
			continue
		}
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ords = append(ords, Ordering{Field: field, Ascending: !descending})
	}
	return ords
}

// SortBy stably sorts items by the orderings. key returns the comparable value of a field;
// unknown fields (key returns ok=false) are ignored.
func SortBy[T any](items []T, ords []Ordering, key func(item T, field string) (string, bool)) {
	if len(ords) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, ord := range ords {
			a, ok := key(items[i], ord.Field)
			if !ok {
				continue
			}
			b, _ := key(items[j], ord.Field)
			if a == b {
				continue
			}
			if ord.Ascending {
				return a < b
			}
			return a > b
		}
		return false
	})
}
