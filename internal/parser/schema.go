package parser

import (
	"fmt"
	"strings"

	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/parsererror"
	"fjacquet/bill-merge/internal/tabular"
)

// Field is a logical column of a platform export.
type Field int

const (
	FieldTime Field = iota
	FieldDirection
	FieldType
	FieldAmount
	FieldMerchant
	FieldItem
	FieldStatus
	FieldMethod
	FieldNote
)

var fieldNames = map[Field]string{
	FieldTime:      "time",
	FieldDirection: "direction",
	FieldType:      "type",
	FieldAmount:    "amount",
	FieldMerchant:  "merchant",
	FieldItem:      "item",
	FieldStatus:    "status",
	FieldMethod:    "method",
	FieldNote:      "note",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Schema describes how one platform names its columns.
type Schema struct {
	Platform models.Platform
	// Aliases lists, per field, the accepted header names in order of
	// preference.
	Aliases map[Field][]string
	// ForeignColumns are headers that only another platform's export has.
	// A table containing one is not recognized.
	ForeignColumns []string
	Direction      DirectionRule
}

// ColumnMap holds the resolved column index per field; absent fields map
// to -1.
type ColumnMap map[Field]int

// Index returns the column of f, or -1.
func (m ColumnMap) Index(f Field) int {
	if idx, ok := m[f]; ok {
		return idx
	}
	return -1
}

// Value returns the cell of f in row, or "" when the field is absent.
func (m ColumnMap) Value(row []string, f Field) string {
	return tabular.Cell(row, m.Index(f))
}

// Resolve maps the schema fields onto the table header. Time and amount
// columns are required.
func (s Schema) Resolve(t *tabular.Table) (ColumnMap, error) {
	for _, col := range s.ForeignColumns {
		if t.HasColumn(col) {
			return nil, s.notRecognized(t, "column '"+col+"' belongs to another platform")
		}
	}

	cols := make(ColumnMap, len(s.Aliases))
	for field, aliases := range s.Aliases {
		cols[field] = -1
		for _, alias := range aliases {
			if idx := t.Column(alias); idx >= 0 {
				cols[field] = idx
				break
			}
		}
	}

	var missing []string
	for _, f := range []Field{FieldTime, FieldAmount} {
		if cols.Index(f) < 0 {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		return nil, s.notRecognized(t, "missing "+strings.Join(missing, " and ")+" column")
	}

	return cols, nil
}

func (s Schema) notRecognized(t *tabular.Table, msg string) error {
	return &parsererror.InvalidFormatError{
		FilePath:       t.Name,
		ExpectedFormat: string(s.Platform) + " export",
		Msg:            msg,
		Err:            ErrNotRecognized,
	}
}
