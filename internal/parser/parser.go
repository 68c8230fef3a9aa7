// Package parser holds the machinery shared by the platform source adapters:
// column schemas with alias lists, direction inference, and BaseParser,
// which maps a raw table onto canonical transactions.
package parser

import (
	"errors"

	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/tabular"
)

// ErrNotRecognized is returned (wrapped) by an adapter whose schema does not
// fit the table, so that the next adapter can be tried.
var ErrNotRecognized = errors.New("table not recognized")

// SourceAdapter maps a raw table from one platform to transactions.
type SourceAdapter interface {
	Platform() models.Platform
	// Adapt returns the transactions of t, or an error wrapping
	// ErrNotRecognized when t is not an export of this platform.
	Adapt(t *tabular.Table) ([]models.Transaction, error)
}
