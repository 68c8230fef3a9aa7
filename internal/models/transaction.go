// Package models provides the data structures used throughout the application.
package models

import (
	"strings"
	"time"

	"fjacquet/bill-merge/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Transaction is one canonical ledger row. It is created once by a source
// adapter; only Category and Subcategory are assigned afterwards, by the
// classifier.
type Transaction struct {
	Date        time.Time
	Type        TransactionType
	Amount      decimal.Decimal
	Category    string
	Subcategory string
	Platform    Platform
	Merchant    string
	Item        string
	Method      string
	Status      string
	Note        string
}

// Validate checks the transaction invariants.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return &parsererror.ValidationError{Subject: "transaction", Field: "date", Reason: "missing"}
	}
	if t.Amount.IsNegative() {
		return &parsererror.ValidationError{Subject: "transaction", Field: "amount", Reason: "must not be negative"}
	}
	if t.Type != TypeExpense && t.Type != TypeIncome {
		return &parsererror.ValidationError{Subject: "transaction", Field: "type", Reason: "unknown type '" + string(t.Type) + "'"}
	}
	return nil
}

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}

// IsClassified reports whether a category has been assigned.
func (t Transaction) IsClassified() bool {
	return t.Category != ""
}

// Key is a canonical rendering of every field. Two transactions with equal
// keys are duplicates; keys also give a total order for equal dates.
func (t Transaction) Key() string {
	var b strings.Builder
	b.WriteString(t.Date.UTC().Format(time.RFC3339Nano))
	for _, s := range []string{
		string(t.Type), t.Amount.String(), string(t.Platform),
		t.Merchant, t.Item, t.Method, t.Status, t.Note,
		t.Category, t.Subcategory,
	} {
		b.WriteByte(0x1f)
		b.WriteString(s)
	}
	return b.String()
}
