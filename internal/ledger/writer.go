package ledger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/bill-merge/internal/dateutils"
	"fjacquet/bill-merge/internal/fileutils"
	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/tabular"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "账单明细"

// Writer serializes ledgers.
type Writer struct {
	dateLayout string
	logger     logging.Logger
}

// NewWriter creates a Writer. An empty layout means "2006-01-02 15:04:05".
func NewWriter(dateLayout string, logger logging.Logger) *Writer {
	if dateLayout == "" {
		dateLayout = dateutils.DateLayoutFull
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Writer{dateLayout: dateLayout, logger: logger}
}

func (w *Writer) rows(txs []models.Transaction) []Row {
	rows := make([]Row, len(txs))
	for i, tx := range txs {
		rows[i] = NewRow(tx, w.dateLayout)
	}
	return rows
}

// WriteCSV writes txs as CSV with a UTF-8 byte order mark.
func (w *Writer) WriteCSV(out io.Writer, txs []models.Transaction) error {
	csvWriter, err := tabular.NewBOMCSVWriter(out)
	if err != nil {
		return fmt.Errorf("error writing byte order mark: %w", err)
	}
	rows := w.rows(txs)
	if len(rows) == 0 {
		// gocsv writes no header for an empty slice.
		if err := csvWriter.Write(Columns); err != nil {
			return err
		}
		csvWriter.Flush()
		return csvWriter.Error()
	}
	if err := gocsv.MarshalCSV(&rows, csvWriter); err != nil {
		return fmt.Errorf("error marshaling ledger: %w", err)
	}
	return nil
}

// WriteXLSX writes txs to a single worksheet with the ledger columns.
func (w *Writer) WriteXLSX(out io.Writer, txs []models.Transaction) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("error naming worksheet: %w", err)
	}
	if err := setRow(f, 1, Columns); err != nil {
		return err
	}
	for i, row := range w.rows(txs) {
		if err := setRow(f, i+2, row.Values()); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "G", "H", 30); err != nil {
		return err
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("error writing row %d: %w", row, err)
	}
	return nil
}

// FormatForPath returns the output format implied by the file extension, or
// fallback when the extension is neither .csv nor .xlsx.
func FormatForPath(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".csv":
		return FormatCSV
	}
	return fallback
}

// WriteFile writes txs to path in the given format ("csv" or "xlsx").
func (w *Writer) WriteFile(path, format string, txs []models.Transaction) error {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case FormatCSV, "":
		if err := w.WriteCSV(&buf, txs); err != nil {
			return err
		}
	case FormatXLSX:
		if err := w.WriteXLSX(&buf, txs); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing ledger: %w", err)
	}

	w.logger.Info("Ledger written",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldFormat, Value: format},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return nil
}
