// Package table holds the flat, column-ordered table model shared by the API
// client, the database builder, the syncer, and the storage codecs. A Table is
// schema-light: columns are whatever rows actually carry, in first-seen order,
// so metric columns that vary per test type need no fixed record type.
package table

import (
	"sort"
	"strconv"
)

// NA is the missing-value marker used in flattened cells. It is distinct from
// the empty string so "no external ids" survives a round trip through CSV.
const NA = "NA"

// Row maps column name to cell value. Cells are string, bool, int64, float64
// or nil (missing).
type Row map[string]any

// Table is an ordered set of columns plus rows. Rows may be sparse; a missing
// key reads as NA at the serialization boundary.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string{}, columns...)}
}

// Append adds a row, extending Columns with any keys not seen before.
// New columns are appended in the order given by extra, then any remaining
// row keys in lexical order so the result is deterministic.
func (t *Table) Append(r Row, extra ...string) {
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		seen[c] = struct{}{}
	}
	for _, c := range extra {
		if _, ok := seen[c]; !ok {
			t.Columns = append(t.Columns, c)
			seen[c] = struct{}{}
		}
	}
	var rest []string
	for k := range r {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	t.Columns = append(t.Columns, rest...)
	t.Rows = append(t.Rows, r)
}

// Get returns the cell for col, or nil when absent.
func (r Row) Get(col string) any { return r[col] }

// FormatCell renders a cell for delimited-text output. nil becomes NA.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return NA
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return NA
	}
}

// ParseCell is the inverse of FormatCell for cells read back from delimited
// text. NA parses to nil; booleans and numbers are restored to typed values;
// everything else stays a string.
func ParseCell(s string) any {
	switch s {
	case NA:
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// ParseCellFor parses a cell read back for col. The id column is exempt from
// type coercion so ids like "00123" keep their leading zeros; every other
// column goes through ParseCell.
func ParseCellFor(col, s string) any {
	if col == "id" {
		if s == NA {
			return nil
		}
		return s
	}
	return ParseCell(s)
}

// Number coerces a numeric cell to float64. Non-numeric cells coerce to 0.
func Number(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	case string:
		f, _ := strconv.ParseFloat(x, 64)
		return f
	default:
		return 0
	}
}

// SortByTimestampDesc orders rows newest-first by the "timestamp" column.
// The sort is stable so equal timestamps keep their relative order.
func (t *Table) SortByTimestampDesc() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return Number(t.Rows[i]["timestamp"]) > Number(t.Rows[j]["timestamp"])
	})
}

// DeduplicateByID keeps the first row seen for each "id" value. With rows
// accumulated newest-bucket-first this keeps the freshest copy of a trial.
func (t *Table) DeduplicateByID() {
	seen := make(map[string]struct{}, len(t.Rows))
	out := t.Rows[:0]
	for _, r := range t.Rows {
		id := FormatCell(r["id"])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, r)
	}
	t.Rows = out
}

// IntersectColumns returns the columns present in both tables, preserving
// the order of t's columns.
func (t *Table) IntersectColumns(other *Table) []string {
	in := make(map[string]struct{}, len(other.Columns))
	for _, c := range other.Columns {
		in[c] = struct{}{}
	}
	var cols []string
	for _, c := range t.Columns {
		if _, ok := in[c]; ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// Restrict drops every column (and row key) not listed in cols.
func (t *Table) Restrict(cols []string) {
	keep := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		keep[c] = struct{}{}
	}
	for _, r := range t.Rows {
		for k := range r {
			if _, ok := keep[k]; !ok {
				delete(r, k)
			}
		}
	}
	t.Columns = append([]string{}, cols...)
}

// Merge reconciles an existing table against a delta fetch, by "id":
// rows whose id appears in both are replaced wholesale by the delta's copy,
// rows with unseen ids are appended, and no existing row is ever removed.
// Both sides are first restricted to their common column set, then the result
// is re-sorted newest-first. The existing and delta tables are not modified.
func Merge(existing, delta *Table) *Table {
	cols := existing.IntersectColumns(delta)

	byID := make(map[string]Row, len(delta.Rows))
	for _, r := range delta.Rows {
		byID[FormatCell(r["id"])] = r
	}

	merged := New(cols...)
	pick := func(src Row) Row {
		r := make(Row, len(cols))
		for _, c := range cols {
			if v, ok := src[c]; ok {
				r[c] = v
			}
		}
		return r
	}

	taken := make(map[string]struct{}, len(existing.Rows))
	for _, r := range existing.Rows {
		id := FormatCell(r["id"])
		taken[id] = struct{}{}
		if d, ok := byID[id]; ok {
			merged.Rows = append(merged.Rows, pick(d))
		} else {
			merged.Rows = append(merged.Rows, pick(r))
		}
	}
	for _, r := range delta.Rows {
		id := FormatCell(r["id"])
		if _, ok := taken[id]; ok {
			continue
		}
		taken[id] = struct{}{}
		merged.Rows = append(merged.Rows, pick(byID[id]))
	}

	merged.SortByTimestampDesc()
	return merged
}
