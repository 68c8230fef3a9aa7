package alipayparser

import (
	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/parser"
)

// Adapter is the Alipay parser.SourceAdapter.
type Adapter struct {
	parser.BaseParser
}

// NewAdapter creates a new adapter for Alipay exports.
func NewAdapter(logger logging.Logger) *Adapter {
	return &Adapter{BaseParser: parser.NewBaseParser(Schema, logger)}
}
