package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for file types the reader cannot open.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrUndecodable is returned when no decoding strategy fits the bytes.
	ErrUndecodable = errors.New("no decoding strategy succeeded")
	// ErrEmptyTable is returned when a file holds no rows at all.
	ErrEmptyTable = errors.New("file contains no rows")
)

// Options controls decoding and header detection.
type Options struct {
	// Encodings are tried in order for CSV input.
	Encodings []string
	// HeaderMarkers identify the header row: the first row with at least two
	// non-empty cells, one of which contains a marker.
	HeaderMarkers []string
	// HeaderScanRows bounds how many leading rows are inspected.
	HeaderScanRows int
}

// DefaultOptions matches the layout of Alipay and WeChat exports.
func DefaultOptions() Options {
	return Options{
		Encodings:      []string{"utf-8-sig", "utf-8", "gbk", "gb18030", "latin1"},
		HeaderMarkers:  []string{"交易", "时间"},
		HeaderScanRows: 30,
	}
}

// Reader reads export files into Tables.
type Reader struct {
	opts   Options
	logger logging.Logger
}

// NewReader creates a Reader. Zero-valued options fall back to defaults.
func NewReader(opts Options, logger logging.Logger) *Reader {
	def := DefaultOptions()
	if len(opts.Encodings) == 0 {
		opts.Encodings = def.Encodings
	}
	if len(opts.HeaderMarkers) == 0 {
		opts.HeaderMarkers = def.HeaderMarkers
	}
	if opts.HeaderScanRows <= 0 {
		opts.HeaderScanRows = def.HeaderScanRows
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Reader{opts: opts, logger: logger}
}

// Encodings returns the configured decoding strategies.
func (r *Reader) Encodings() []string {
	return r.opts.Encodings
}

// ReadFile reads a .csv or .xlsx file.
func (r *Reader) ReadFile(path string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".xlsx":
	default:
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: ".csv or .xlsx",
			Msg:            "extension " + ext + " is not supported",
			Err:            ErrUnsupportedFormat,
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}

	if ext == ".xlsx" {
		return r.ReadXLSX(path, bytes.NewReader(data))
	}
	return r.ReadCSV(path, data)
}

// ReadCSV decodes data with the first matching strategy and locates the
// header row.
func (r *Reader) ReadCSV(name string, data []byte) (*Table, error) {
	var records [][]string
	_, enc, err := DecodeFirst(data, r.opts.Encodings, func(text string) error {
		recs, err := parseCSV(text)
		if err != nil {
			return err
		}
		records = recs
		return nil
	})
	if err != nil {
		return nil, &parsererror.DataExtractionError{FilePath: name, Reason: "cannot decode CSV", Err: err}
	}

	r.logger.Debug("Decoded CSV",
		logging.Field{Key: logging.FieldFile, Value: name},
		logging.Field{Key: logging.FieldEncoding, Value: enc})

	return r.buildTable(name, enc, records)
}

// Date-styled cells are rendered with these patterns instead of the
// built-in US formats ("1/3/24 12:30"), so that dateutils can parse them.
const (
	xlsxDatePattern = "yyyy-mm-dd"
	xlsxTimePattern = "hh:mm:ss"
)

// ReadXLSX reads the first worksheet of a workbook.
func (r *Reader) ReadXLSX(name string, in io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(in, excelize.Options{
		ShortDatePattern: xlsxDatePattern,
		LongTimePattern:  xlsxTimePattern,
	})
	if err != nil {
		return nil, &parsererror.DataExtractionError{FilePath: name, Reason: "cannot open workbook", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.WithError(err).Warn("Failed to close workbook", logging.Field{Key: logging.FieldFile, Value: name})
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &parsererror.DataExtractionError{FilePath: name, Reason: "workbook has no sheets", Err: ErrEmptyTable}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &parsererror.DataExtractionError{FilePath: name, Reason: "cannot read sheet " + sheets[0], Err: err}
	}

	return r.buildTable(name, "xlsx", rows)
}

func parseCSV(text string) ([][]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

func (r *Reader) buildTable(name, enc string, records [][]string) (*Table, error) {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		cleaned := cleanRow(rec)
		if !isBlank(cleaned) {
			rows = append(rows, cleaned)
		}
	}
	if len(rows) == 0 {
		return nil, &parsererror.DataExtractionError{FilePath: name, Reason: "no data", Err: ErrEmptyTable}
	}

	headerIdx := r.findHeader(rows)
	header := rows[headerIdx]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	data := make([][]string, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		data = append(data, pad(row, len(header)))
	}

	r.logger.Debug("Located header row",
		logging.Field{Key: logging.FieldFile, Value: name},
		logging.Field{Key: logging.FieldHeaderRow, Value: headerIdx},
		logging.Field{Key: logging.FieldCount, Value: len(data)})

	return &Table{
		Name:      name,
		Encoding:  enc,
		HeaderRow: headerIdx,
		Header:    header,
		Rows:      data,
	}, nil
}

// findHeader returns the first row within the scan window that looks like a
// header, or 0.
func (r *Reader) findHeader(rows [][]string) int {
	limit := r.opts.HeaderScanRows
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		if r.looksLikeHeader(rows[i]) {
			return i
		}
	}
	return 0
}

func (r *Reader) looksLikeHeader(row []string) bool {
	nonEmpty := 0
	marked := false
	for _, cell := range row {
		if cell == "" {
			continue
		}
		nonEmpty++
		for _, m := range r.opts.HeaderMarkers {
			if strings.Contains(cell, m) {
				marked = true
			}
		}
	}
	return marked && nonEmpty >= 2
}

func cleanRow(rec []string) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

func pad(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
