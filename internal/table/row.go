// Package table implements the filter, pagination and pager-window pipeline
// behind the products screen, plus the coordinator that turns input events
// into pipeline runs.
package table

import "strings"

// Field keys read by the filter.
const (
	FieldName     = "name"
	FieldCategory = "category"
)

// Row is one record of the snapshot. Index is its position in the snapshot
// and never changes.
type Row struct {
	Index  int
	Fields map[string]string
}

// Name returns the row's name field.
func (r Row) Name() string {
	return r.Fields[FieldName]
}

// Category returns the row's category field.
func (r Row) Category() string {
	return r.Fields[FieldCategory]
}

// Field returns an arbitrary display field, or "" when missing.
func (r Row) Field(key string) string {
	return r.Fields[key]
}

// Snapshot is the fixed, ordered set of rows a controller works on.
type Snapshot struct {
	rows []Row
}

// NewSnapshot indexes records in order. The field maps are copied so later
// changes by the caller do not leak into the snapshot.
func NewSnapshot(records []map[string]string) *Snapshot {
	rows := make([]Row, len(records))
	for i, rec := range records {
		fields := make(map[string]string, len(rec))
		for k, v := range rec {
			fields[k] = v
		}
		rows[i] = Row{Index: i, Fields: fields}
	}
	return &Snapshot{rows: rows}
}

// Rows returns the snapshot rows in their original order.
func (s *Snapshot) Rows() []Row {
	return append([]Row(nil), s.rows...)
}

// Len returns the number of rows.
func (s *Snapshot) Len() int {
	return len(s.rows)
}

// Row returns the row at index i.
func (s *Snapshot) Row(i int) Row {
	return s.rows[i]
}

// Categories returns the distinct non-empty categories in first-seen order,
// compared case-insensitively.
func (s *Snapshot) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.rows {
		c := strings.TrimSpace(r.Category())
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		seen[strings.ToLower(c)] = true
		out = append(out, c)
	}
	return out
}
