package tabular

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// headerReader lower-cases, trims and BOM-strips the first record so that
// gocsv can bind columns written by spreadsheets with inconsistent headers.
// Later records shorter than the header are padded with empty cells.
type headerReader struct {
	r     *csv.Reader
	seen  bool
	width int
}

// NewHeaderNormalizingReader returns a gocsv.CSVReader over text whose
// header names are normalized. Short records are allowed.
func NewHeaderNormalizingReader(in io.Reader) gocsv.CSVReader {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &headerReader{r: cr}
}

func (h *headerReader) Read() ([]string, error) {
	rec, err := h.r.Read()
	if err != nil {
		return nil, err
	}
	if !h.seen {
		h.seen = true
		rec = normalizeHeader(rec)
		h.width = len(rec)
		return rec, nil
	}
	for len(rec) < h.width {
		rec = append(rec, "")
	}
	return rec, nil
}

func (h *headerReader) ReadAll() ([][]string, error) {
	var out [][]string
	for {
		rec, err := h.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

func normalizeHeader(rec []string) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(c, "\ufeff", "")))
	}
	return out
}

// NewBOMCSVWriter writes a UTF-8 byte order mark to w, so spreadsheet
// applications detect the encoding, and returns a gocsv writer over w.
func NewBOMCSVWriter(w io.Writer) (*gocsv.SafeCSVWriter, error) {
	if _, err := w.Write(utf8BOM); err != nil {
		return nil, err
	}
	return gocsv.NewSafeCSVWriter(csv.NewWriter(w)), nil
}
