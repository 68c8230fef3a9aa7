package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing transactions.
// The first error sticks; later calls are no-ops.
type TransactionBuilder struct {
	tx  Transaction
	err error
}

// NewTransactionBuilder starts an expense with a zero amount for platform.
func NewTransactionBuilder(platform Platform) *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			Type:     TypeExpense,
			Amount:   decimal.Zero,
			Platform: platform,
		},
	}
}

// WithDate sets the transaction timestamp.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if date.IsZero() {
		b.err = errors.New("date cannot be zero")
		return b
	}
	b.tx.Date = date
	return b
}

// WithAmount stores the magnitude of amount. The sign of an exported amount
// never decides the direction; use WithType for that.
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = amount.Abs()
	return b
}

// WithType sets the direction. Anything but income is an expense.
func (b *TransactionBuilder) WithType(t TransactionType) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if t == TypeIncome {
		b.tx.Type = TypeIncome
	} else {
		b.tx.Type = TypeExpense
	}
	return b
}

func (b *TransactionBuilder) WithMerchant(s string) *TransactionBuilder {
	b.tx.Merchant = strings.TrimSpace(s)
	return b
}

func (b *TransactionBuilder) WithItem(s string) *TransactionBuilder {
	b.tx.Item = strings.TrimSpace(s)
	return b
}

func (b *TransactionBuilder) WithMethod(s string) *TransactionBuilder {
	b.tx.Method = strings.TrimSpace(s)
	return b
}

func (b *TransactionBuilder) WithStatus(s string) *TransactionBuilder {
	b.tx.Status = strings.TrimSpace(s)
	return b
}

func (b *TransactionBuilder) WithNote(s string) *TransactionBuilder {
	b.tx.Note = strings.TrimSpace(s)
	return b
}

// WithCategory sets a category read back from an existing ledger.
func (b *TransactionBuilder) WithCategory(category, subcategory string) *TransactionBuilder {
	b.tx.Category = strings.TrimSpace(category)
	b.tx.Subcategory = strings.TrimSpace(subcategory)
	return b
}

// Build returns the transaction, or the first error met while building or
// validating it.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, b.err
	}
	if err := b.tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return b.tx, nil
}
