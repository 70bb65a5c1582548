package domain

import (
	"sort"
	"strings"
)

// RawRecord is one row as returned by the remote source. Its keys are owned by
// the dataset, not by this program.
type RawRecord map[string]string

// ResultTable is an ordered set of records produced by a single query.
// Tables are never mutated after construction; derived tables share the
// underlying record maps.
type ResultTable struct {
	Records []RawRecord
}

// NewResultTable wraps records in a table.
func NewResultTable(records []RawRecord) *ResultTable {
	if records == nil {
		records = []RawRecord{}
	}
	return &ResultTable{Records: records}
}

// Len returns the number of rows. A nil table has none.
func (t *ResultTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// IsEmpty reports whether the table is nil or has no rows.
func (t *ResultTable) IsEmpty() bool {
	return t.Len() == 0
}

// Columns returns the union of field names in first-seen order. Keys inside a
// single record are visited in sorted order since map order is undefined.
func (t *ResultTable) Columns() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var columns []string
	for _, record := range t.Records {
		keys := make([]string, 0, len(record))
		for key := range record {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			columns = append(columns, key)
		}
	}
	return columns
}

// HasColumn reports whether any record carries the field.
func (t *ResultTable) HasColumn(field string) bool {
	if t == nil {
		return false
	}
	for _, record := range t.Records {
		if _, ok := record[field]; ok {
			return true
		}
	}
	return false
}

// Head returns the first n rows, order preserved.
func (t *ResultTable) Head(n int) *ResultTable {
	if t == nil {
		return nil
	}
	if n < 0 {
		n = 0
	}
	if n > len(t.Records) {
		n = len(t.Records)
	}
	return NewResultTable(t.Records[:n:n])
}

// Filter returns the rows for which keep returns true, order preserved.
func (t *ResultTable) Filter(keep func(RawRecord) bool) *ResultTable {
	if t == nil {
		return nil
	}
	out := make([]RawRecord, 0, len(t.Records))
	for _, record := range t.Records {
		if keep(record) {
			out = append(out, record)
		}
	}
	return NewResultTable(out)
}

// FilterByRegion keeps the rows whose field contains region, ignoring case.
// Rows without the field never match.
func (t *ResultTable) FilterByRegion(field, region string) *ResultTable {
	return t.Filter(func(record RawRecord) bool {
		value, ok := record[field]
		return ok && MatchesRegion(value, region)
	})
}

// DistinctValues returns the sorted distinct non-blank values of field.
func (t *ResultTable) DistinctValues(field string) []string {
	values := []string{}
	if t == nil {
		return values
	}
	seen := make(map[string]struct{})
	for _, record := range t.Records {
		value, ok := record[field]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}
