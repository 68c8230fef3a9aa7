// Package diagnostics writes the troubleshooting exports of a merge run:
// the effective rule table, rows mentioning watched brands, and a preview of
// unclassified rows.
package diagnostics

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/bill-merge/internal/currencyutils"
	"fjacquet/bill-merge/internal/dateutils"
	"fjacquet/bill-merge/internal/fileutils"
	"fjacquet/bill-merge/internal/ledger"
	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/store"
	"fjacquet/bill-merge/internal/tabular"
	"fjacquet/bill-merge/internal/textutils"

	"github.com/gocarina/gocsv"
)

// Export file names.
const (
	RulesFile     = "rules_loaded.csv"
	BrandHitsFile = "debug_brand_hits.csv"
	UnmatchedFile = "unmatched_preview.csv"
)

// DefaultBrands are watched when no brand list is configured.
var DefaultBrands = []string{"肯德基", "kfc", "麦当劳", "mcdonald", "星巴克", "starbucks", "喜茶", "heytea"}

// DefaultUnmatchedLimit bounds the unmatched preview.
const DefaultUnmatchedLimit = 200

type brandHitRow struct {
	ledger.Row
	MerchantNorm string `csv:"merchant_norm"`
	ItemNorm     string `csv:"item_norm"`
	NoteNorm     string `csv:"note_norm"`
}

type unmatchedRow struct {
	Date     string `csv:"date"`
	Platform string `csv:"platform"`
	Merchant string `csv:"merchant"`
	Item     string `csv:"item"`
	Note     string `csv:"note"`
	Amount   string `csv:"amount"`
}

// Options configures an Exporter.
type Options struct {
	Directory      string
	Brands         []string
	UnmatchedLimit int
	DateLayout     string
}

// Exporter writes the diagnostic files. Failures are logged, never
// returned: diagnostics must not break a merge.
type Exporter struct {
	opts   Options
	logger logging.Logger
}

// NewExporter creates an Exporter.
func NewExporter(opts Options, logger logging.Logger) *Exporter {
	if opts.Directory == "" {
		opts.Directory = "."
	}
	if opts.Brands == nil {
		opts.Brands = DefaultBrands
	}
	if opts.UnmatchedLimit <= 0 {
		opts.UnmatchedLimit = DefaultUnmatchedLimit
	}
	if opts.DateLayout == "" {
		opts.DateLayout = dateutils.DateLayoutFull
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Exporter{opts: opts, logger: logger}
}

// Export writes every diagnostic file and returns the paths written.
func (e *Exporter) Export(rules []models.ClassificationRule, txs []models.Transaction) []string {
	var written []string
	for _, export := range []struct {
		name string
		fn   func(string) (bool, error)
	}{
		{RulesFile, func(p string) (bool, error) { return true, store.WriteRules(p, rules) }},
		{BrandHitsFile, func(p string) (bool, error) { return e.writeBrandHits(p, txs) }},
		{UnmatchedFile, func(p string) (bool, error) { return e.writeUnmatched(p, txs) }},
	} {
		path := filepath.Join(e.opts.Directory, export.name)
		ok, err := export.fn(path)
		if err != nil {
			e.logger.WithError(err).Warn("Failed to write diagnostics",
				logging.Field{Key: logging.FieldOutputFile, Value: path})
			continue
		}
		if ok {
			written = append(written, path)
		}
	}

	e.logger.Debug("Diagnostics exported", logging.Field{Key: logging.FieldCount, Value: len(written)})
	return written
}

// BrandHits returns the transactions whose normalized text mentions one of
// the watched brands.
func (e *Exporter) BrandHits(txs []models.Transaction) []models.Transaction {
	brands := make([]string, 0, len(e.opts.Brands))
	for _, b := range e.opts.Brands {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			brands = append(brands, b)
		}
	}

	var hits []models.Transaction
	for _, tx := range txs {
		text := textutils.Normalize(tx.Merchant + " " + tx.Item + " " + tx.Note)
		for _, b := range brands {
			if strings.Contains(text, b) {
				hits = append(hits, tx)
				break
			}
		}
	}
	return hits
}

// Unmatched returns up to the configured limit of unclassified transactions.
func (e *Exporter) Unmatched(txs []models.Transaction) []models.Transaction {
	var out []models.Transaction
	for _, tx := range txs {
		if len(out) == e.opts.UnmatchedLimit {
			break
		}
		if !tx.IsClassified() {
			out = append(out, tx)
		}
	}
	return out
}

func (e *Exporter) writeBrandHits(path string, txs []models.Transaction) (bool, error) {
	hits := e.BrandHits(txs)
	if len(hits) == 0 {
		return false, nil
	}
	rows := make([]brandHitRow, len(hits))
	for i, tx := range hits {
		rows[i] = brandHitRow{
			Row:          ledger.NewRow(tx, e.opts.DateLayout),
			MerchantNorm: textutils.Normalize(tx.Merchant),
			ItemNorm:     textutils.Normalize(tx.Item),
			NoteNorm:     textutils.Normalize(tx.Note),
		}
	}
	return true, writeCSV(path, &rows)
}

func (e *Exporter) writeUnmatched(path string, txs []models.Transaction) (bool, error) {
	unmatched := e.Unmatched(txs)
	if len(unmatched) == 0 {
		return false, nil
	}
	rows := make([]unmatchedRow, len(unmatched))
	for i, tx := range unmatched {
		rows[i] = unmatchedRow{
			Date:     dateutils.FormatDate(tx.Date, e.opts.DateLayout),
			Platform: string(tx.Platform),
			Merchant: tx.Merchant,
			Item:     tx.Item,
			Note:     tx.Note,
			Amount:   currencyutils.FormatAmount(tx.Amount),
		}
	}
	return true, writeCSV(path, &rows)
}

func writeCSV(path string, rows interface{}) error {
	var buf bytes.Buffer
	w, err := tabular.NewBOMCSVWriter(&buf)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalCSV(rows, w); err != nil {
		return fmt.Errorf("error marshaling %s: %w", filepath.Base(path), err)
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), models.PermissionReportFile)
}
