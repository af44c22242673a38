package table

import "strings"

// AllCategories is the category value meaning "no category constraint".
const AllCategories = "ALL"

// FilterState holds the active search term and category constraint.
type FilterState struct {
	SearchTerm string
	Category   string
}

// HasCategory reports whether the filter constrains the category.
func (f FilterState) HasCategory() bool {
	c := strings.TrimSpace(f.Category)
	return c != "" && !strings.EqualFold(c, AllCategories)
}

// Evaluate returns the rows matching both the search term and the category
// constraint, keeping snapshot order. The result is never nil.
func Evaluate(rows []Row, f FilterState) []Row {
	term := strings.ToLower(f.SearchTerm)
	var category string
	if f.HasCategory() {
		category = strings.ToLower(strings.TrimSpace(f.Category))
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !matchesSearch(r, term) {
			continue
		}
		if category != "" && strings.ToLower(strings.TrimSpace(r.Category())) != category {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesSearch expects term already lower-cased.
func matchesSearch(r Row, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name()), term) ||
		strings.Contains(strings.ToLower(r.Category()), term)
}
