package ledger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/tabular"

	"github.com/gocarina/gocsv"
)

// Reader loads ledgers written by Writer.
type Reader struct {
	tables *tabular.Reader
	logger logging.Logger
}

// NewReader creates a Reader decoding CSV with the given encoding
// strategies; nil uses the tabular defaults.
func NewReader(encodings []string, logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	// Ledgers always start with their header.
	tables := tabular.NewReader(tabular.Options{
		Encodings:      encodings,
		HeaderMarkers:  []string{"date"},
		HeaderScanRows: 1,
	}, logger)
	return &Reader{tables: tables, logger: logger}
}

// ReadFile loads the ledger at path (.csv or .xlsx). Rows that do not form
// a valid transaction are skipped.
func (r *Reader) ReadFile(path string) ([]models.Transaction, error) {
	var rows []Row
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = r.readXLSX(path)
	} else {
		rows, err = r.readCSV(path)
	}
	if err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := row.Transaction()
		if err != nil {
			r.logger.WithError(err).Debug("Skipping ledger row",
				logging.Field{Key: logging.FieldFile, Value: path},
				logging.Field{Key: logging.FieldRow, Value: i + 2})
			continue
		}
		txs = append(txs, tx)
	}

	r.logger.Debug("Ledger loaded",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
		logging.Field{Key: "skipped", Value: len(rows) - len(txs)})
	return txs, nil
}

func (r *Reader) readCSV(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}
	text, _, err := tabular.DecodeFirst(data, r.tables.Encodings(), nil)
	if err != nil {
		return nil, fmt.Errorf("error decoding ledger %s: %w", path, err)
	}

	var rows []Row
	if strings.TrimSpace(text) == "" {
		return rows, nil
	}
	if err := gocsv.UnmarshalCSV(tabular.NewHeaderNormalizingReader(strings.NewReader(text)), &rows); err != nil {
		return nil, fmt.Errorf("error parsing ledger %s: %w", path, err)
	}
	return rows, nil
}

func (r *Reader) readXLSX(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}
	t, err := r.tables.ReadXLSX(path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(Columns))
	for _, col := range Columns {
		idx[col] = -1
	}
	for i, h := range t.Header {
		if _, ok := idx[strings.ToLower(h)]; ok {
			idx[strings.ToLower(h)] = i
		}
	}

	rows := make([]Row, 0, t.Len())
	for _, cells := range t.Rows {
		get := func(col string) string { return tabular.Cell(cells, idx[col]) }
		rows = append(rows, Row{
			Date:        get("date"),
			Type:        get("type"),
			Category:    get("category"),
			Subcategory: get("subcategory"),
			Amount:      get("amount"),
			Platform:    get("platform"),
			Merchant:    get("merchant"),
			Item:        get("item"),
			Method:      get("method"),
			Status:      get("status"),
			Note:        get("note"),
		})
	}
	return rows, nil
}
