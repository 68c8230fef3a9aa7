package parser

import (
	"fjacquet/bill-merge/internal/currencyutils"
	"fjacquet/bill-merge/internal/dateutils"
	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/parsererror"
	"fjacquet/bill-merge/internal/tabular"
)

// BaseParser implements SourceAdapter for any Schema. Platform adapters
// embed it:
//
//	type Adapter struct {
//		parser.BaseParser
//	}
type BaseParser struct {
	schema Schema
	logger logging.Logger
}

// NewBaseParser creates a BaseParser. A nil logger gets a default one.
func NewBaseParser(schema Schema, logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return BaseParser{
		schema: schema,
		logger: logger.WithField(logging.FieldPlatform, string(schema.Platform)),
	}
}

// SetLogger replaces the logger.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger.WithField(logging.FieldPlatform, string(b.schema.Platform))
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// Platform returns the platform tag written on every transaction.
func (b *BaseParser) Platform() models.Platform {
	return b.schema.Platform
}

// Schema returns the column schema.
func (b *BaseParser) Schema() Schema {
	return b.schema
}

// Adapt maps every data row of t to a transaction. Rows whose amount or
// date cannot be parsed are dropped.
func (b *BaseParser) Adapt(t *tabular.Table) ([]models.Transaction, error) {
	cols, err := b.schema.Resolve(t)
	if err != nil {
		return nil, err
	}

	out := make([]models.Transaction, 0, t.Len())
	dropped := 0
	for i, row := range t.Rows {
		tx, err := b.adaptRow(cols, row, t.HeaderRow+i+1)
		if err != nil {
			dropped++
			b.logger.WithError(err).Debug("Dropping row",
				logging.Field{Key: logging.FieldFile, Value: t.Name},
				logging.Field{Key: logging.FieldRow, Value: t.HeaderRow + i + 1})
			continue
		}
		out = append(out, tx)
	}

	b.logger.Debug("Adapted table",
		logging.Field{Key: logging.FieldFile, Value: t.Name},
		logging.Field{Key: logging.FieldCount, Value: len(out)},
		logging.Field{Key: "dropped", Value: dropped})

	return out, nil
}

func (b *BaseParser) adaptRow(cols ColumnMap, row []string, rowNum int) (models.Transaction, error) {
	platform := string(b.schema.Platform)

	rawAmount := cols.Value(row, FieldAmount)
	amount, err := currencyutils.ParseAmount(rawAmount)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Platform: platform, Field: "amount", Value: rawAmount, Row: rowNum, Err: err}
	}

	rawTime := cols.Value(row, FieldTime)
	date, err := dateutils.ParseDateTime(rawTime)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Platform: platform, Field: "time", Value: rawTime, Row: rowNum, Err: err}
	}

	direction := b.schema.Direction.Infer(cols.Value(row, FieldDirection), cols.Value(row, FieldType))

	return models.NewTransactionBuilder(b.schema.Platform).
		WithDate(date).
		WithAmount(amount).
		WithType(direction).
		WithMerchant(cols.Value(row, FieldMerchant)).
		WithItem(cols.Value(row, FieldItem)).
		WithMethod(cols.Value(row, FieldMethod)).
		WithStatus(cols.Value(row, FieldStatus)).
		WithNote(cols.Value(row, FieldNote)).
		Build()
}
