// Package tabular turns platform export files into raw tables: a header row
// and data rows of trimmed strings. It knows nothing about platforms; the
// source adapters interpret the columns.
package tabular

import "strings"

// Table is a raw export with its header located.
type Table struct {
	// Name identifies the source, usually its path.
	Name string
	// Encoding is the decoding strategy that succeeded ("xlsx" for workbooks).
	Encoding string
	// HeaderRow is the zero-based index of the header in the source rows.
	HeaderRow int
	Header    []string
	// Rows hold data rows, each padded to len(Header).
	Rows [][]string
}

// Column returns the index of the header cell equal to name after trimming,
// or -1.
func (t *Table) Column(name string) int {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	return t.Column(name) >= 0
}

// Cell returns row[idx], or "" when idx is out of range.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
