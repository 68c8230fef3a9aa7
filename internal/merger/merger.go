// Package merger combines platform exports into one sorted, classified
// ledger.
package merger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"fjacquet/bill-merge/internal/categorizer"
	"fjacquet/bill-merge/internal/fileutils"
	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/parser"
	"fjacquet/bill-merge/internal/tabular"

	"github.com/google/uuid"
)

// ErrNoTransactions is returned when no input yields a single transaction.
var ErrNoTransactions = errors.New("no transactions found in any input")

// InputExtensions are the file types picked up from an input directory.
// .xls is listed so that legacy workbooks are reported rather than ignored.
var InputExtensions = []string{".csv", ".xlsx", ".xls"}

// FileOutcome records what happened to one input.
type FileOutcome struct {
	File     string          `json:"file" yaml:"file"`
	Platform models.Platform `json:"platform,omitempty" yaml:"platform,omitempty"`
	Encoding string          `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Rows     int             `json:"rows" yaml:"rows"`
	// Reason is set when the input was skipped.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Skipped reports whether the input contributed nothing.
func (o FileOutcome) Skipped() bool {
	return o.Reason != ""
}

// Result is the outcome of a merge run.
type Result struct {
	RunID        string
	Transactions []models.Transaction
	Files        []FileOutcome
	// Invalid counts adapted rows that failed validation.
	Invalid int
	// Duplicates counts rows removed by deduplication.
	Duplicates int
	Stats      models.CategorizationStats
	DateRange  DateRange
	Duration   time.Duration
}

// Merger turns tables into a ledger.
type Merger struct {
	reader      *tabular.Reader
	adapters    []parser.SourceAdapter
	categorizer *categorizer.Categorizer
	deduplicate bool
	logger      logging.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// WithDeduplication removes rows whose every field equals an earlier row's.
func WithDeduplication(enabled bool) Option {
	return func(m *Merger) {
		m.deduplicate = enabled
	}
}

// NewMerger creates a Merger. Adapters are tried in the given order; a nil
// categorizer leaves every row unclassified.
func NewMerger(reader *tabular.Reader, adapters []parser.SourceAdapter, c *categorizer.Categorizer, logger logging.Logger, opts ...Option) *Merger {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if reader == nil {
		reader = tabular.NewReader(tabular.DefaultOptions(), logger)
	}
	m := &Merger{
		reader:      reader,
		adapters:    adapters,
		categorizer: c,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MergeDirectory merges every supported file directly inside dir.
func (m *Merger) MergeDirectory(ctx context.Context, dir string) (*Result, error) {
	paths, err := fileutils.ListFiles(dir, InputExtensions...)
	if err != nil {
		return nil, fmt.Errorf("error listing input directory: %w", err)
	}
	return m.MergeFiles(ctx, paths)
}

// MergeFiles reads and merges the given files. Unreadable files are skipped
// and reported in the result.
func (m *Merger) MergeFiles(ctx context.Context, paths []string) (*Result, error) {
	tables := make([]*tabular.Table, 0, len(paths))
	var skipped []FileOutcome
	for _, path := range paths {
		t, err := m.reader.ReadFile(path)
		if err != nil {
			m.logger.WithError(err).Warn("Skipping unreadable file",
				logging.Field{Key: logging.FieldFile, Value: path})
			skipped = append(skipped, FileOutcome{File: path, Reason: err.Error()})
			continue
		}
		tables = append(tables, t)
	}
	return m.merge(ctx, tables, skipped)
}

// Merge merges already-read tables.
func (m *Merger) Merge(ctx context.Context, tables []*tabular.Table) (*Result, error) {
	return m.merge(ctx, tables, nil)
}

func (m *Merger) merge(ctx context.Context, tables []*tabular.Table, outcomes []FileOutcome) (*Result, error) {
	started := time.Now()
	res := &Result{RunID: uuid.NewString(), Files: outcomes}
	logger := m.logger.WithField(logging.FieldRunID, res.RunID)

	var all []models.Transaction
	for _, t := range tables {
		txs, platform, err := m.adapt(t)
		if err != nil {
			logger.WithError(err).Warn("Skipping unrecognized file",
				logging.Field{Key: logging.FieldFile, Value: t.Name})
			res.Files = append(res.Files, FileOutcome{File: t.Name, Encoding: t.Encoding, Reason: err.Error()})
			continue
		}
		logger.Info("Adapted file",
			logging.Field{Key: logging.FieldFile, Value: t.Name},
			logging.Field{Key: logging.FieldPlatform, Value: string(platform)},
			logging.Field{Key: logging.FieldEncoding, Value: t.Encoding},
			logging.Field{Key: logging.FieldCount, Value: len(txs)})
		res.Files = append(res.Files, FileOutcome{File: t.Name, Platform: platform, Encoding: t.Encoding, Rows: len(txs)})
		all = append(all, txs...)
	}

	valid := all[:0]
	for _, tx := range all {
		if err := tx.Validate(); err != nil {
			res.Invalid++
			logger.WithError(err).Debug("Dropping invalid transaction")
			continue
		}
		valid = append(valid, tx)
	}
	all = valid

	if len(all) == 0 {
		m.logRunReport(logger, res)
		return nil, fmt.Errorf("%w (%d inputs)", ErrNoTransactions, len(res.Files))
	}

	if m.deduplicate {
		all, res.Duplicates = removeDuplicates(all)
	}
	SortTransactions(all)

	if m.categorizer != nil {
		stats, err := m.categorizer.ClassifyAll(ctx, all)
		if err != nil {
			return nil, fmt.Errorf("classification interrupted: %w", err)
		}
		res.Stats = stats
	} else {
		for range all {
			res.Stats.Record(false)
		}
	}

	res.Transactions = all
	res.DateRange = RangeOf(all)
	res.Duration = time.Since(started)
	m.logRunReport(logger, res)
	res.Stats.LogSummary(logger)
	return res, nil
}

// adapt offers t to each adapter in order and returns the first success.
func (m *Merger) adapt(t *tabular.Table) ([]models.Transaction, models.Platform, error) {
	for _, a := range m.adapters {
		txs, err := a.Adapt(t)
		if errors.Is(err, parser.ErrNotRecognized) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return txs, a.Platform(), nil
	}
	return nil, "", fmt.Errorf("%s: %w by any platform", filepath.Base(t.Name), parser.ErrNotRecognized)
}

func (m *Merger) logRunReport(logger logging.Logger, res *Result) {
	skipped := 0
	for _, o := range res.Files {
		if o.Skipped() {
			skipped++
			logger.Warn("Input skipped",
				logging.Field{Key: logging.FieldFile, Value: o.File},
				logging.Field{Key: logging.FieldReason, Value: o.Reason})
		}
	}
	logger.Info("Merge finished",
		logging.Field{Key: "inputs", Value: len(res.Files)},
		logging.Field{Key: "skipped", Value: skipped},
		logging.Field{Key: logging.FieldCount, Value: len(res.Transactions)},
		logging.Field{Key: "invalid", Value: res.Invalid},
		logging.Field{Key: "duplicates", Value: res.Duplicates},
		logging.Field{Key: logging.FieldDuration, Value: res.Duration.String()})
}

// SortTransactions orders txs by date, breaking ties with the canonical row
// key so that the result does not depend on input order.
func SortTransactions(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].Key() < txs[j].Key()
	})
}

// removeDuplicates keeps the first of each set of identical rows.
func removeDuplicates(txs []models.Transaction) ([]models.Transaction, int) {
	seen := make(map[string]struct{}, len(txs))
	out := txs[:0]
	for _, tx := range txs {
		k := tx.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, tx)
	}
	return out, len(txs) - len(out)
}
