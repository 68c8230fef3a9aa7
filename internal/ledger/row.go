// Package ledger writes the merged ledger as CSV or XLSX and reads ledger
// CSV files back.
package ledger

import (
	"fmt"
	"strings"

	"fjacquet/bill-merge/internal/currencyutils"
	"fjacquet/bill-merge/internal/dateutils"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/parsererror"
)

// Columns is the fixed ledger column order.
var Columns = []string{
	"date", "type", "category", "subcategory", "amount", "platform",
	"merchant", "item", "method", "status", "note",
}

// Row is the text form of one ledger line.
type Row struct {
	Date        string `csv:"date"`
	Type        string `csv:"type"`
	Category    string `csv:"category"`
	Subcategory string `csv:"subcategory"`
	Amount      string `csv:"amount"`
	Platform    string `csv:"platform"`
	Merchant    string `csv:"merchant"`
	Item        string `csv:"item"`
	Method      string `csv:"method"`
	Status      string `csv:"status"`
	Note        string `csv:"note"`
}

// NewRow renders tx with the given date layout.
func NewRow(tx models.Transaction, dateLayout string) Row {
	return Row{
		Date:        dateutils.FormatDate(tx.Date, dateLayout),
		Type:        string(tx.Type),
		Category:    tx.Category,
		Subcategory: tx.Subcategory,
		Amount:      currencyutils.FormatAmount(tx.Amount.Abs()),
		Platform:    string(tx.Platform),
		Merchant:    tx.Merchant,
		Item:        tx.Item,
		Method:      tx.Method,
		Status:      tx.Status,
		Note:        tx.Note,
	}
}

// Values returns the cells in Columns order.
func (r Row) Values() []string {
	return []string{
		r.Date, r.Type, r.Category, r.Subcategory, r.Amount, r.Platform,
		r.Merchant, r.Item, r.Method, r.Status, r.Note,
	}
}

// trimmed returns r with surrounding whitespace removed from every cell.
func (r Row) trimmed() Row {
	return Row{
		Date:        strings.TrimSpace(r.Date),
		Type:        strings.TrimSpace(r.Type),
		Category:    strings.TrimSpace(r.Category),
		Subcategory: strings.TrimSpace(r.Subcategory),
		Amount:      strings.TrimSpace(r.Amount),
		Platform:    strings.TrimSpace(r.Platform),
		Merchant:    strings.TrimSpace(r.Merchant),
		Item:        strings.TrimSpace(r.Item),
		Method:      strings.TrimSpace(r.Method),
		Status:      strings.TrimSpace(r.Status),
		Note:        strings.TrimSpace(r.Note),
	}
}

// Transaction parses the row back into a validated transaction. Cells are
// trimmed and decorated types such as "支出(退款)" are accepted.
func (r Row) Transaction() (models.Transaction, error) {
	r = r.trimmed()

	date, err := dateutils.ParseDateTime(r.Date)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Platform: r.Platform, Field: "date", Value: r.Date, Err: err}
	}
	amount, err := currencyutils.ParseAmount(r.Amount)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Platform: r.Platform, Field: "amount", Value: r.Amount, Err: err}
	}
	// Ledger amounts are magnitudes.
	if currencyutils.IsNegative(amount) {
		return models.Transaction{}, &parsererror.ValidationError{Subject: "ledger row", Field: "amount", Reason: "must not be negative"}
	}
	txType, ok := models.ParseTransactionType(r.Type)
	if !ok {
		return models.Transaction{}, &parsererror.ValidationError{Subject: "ledger row", Field: "type", Reason: fmt.Sprintf("unknown type '%s'", r.Type)}
	}

	return models.NewTransactionBuilder(models.Platform(r.Platform)).
		WithDate(date).
		WithAmount(amount).
		WithType(txType).
		WithCategory(r.Category, r.Subcategory).
		WithMerchant(r.Merchant).
		WithItem(r.Item).
		WithMethod(r.Method).
		WithStatus(r.Status).
		WithNote(r.Note).
		Build()
}
