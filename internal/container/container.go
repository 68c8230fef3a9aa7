// Package container provides dependency injection for the bill-merge
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/bill-merge/internal/categorizer"
	"fjacquet/bill-merge/internal/config"
	"fjacquet/bill-merge/internal/diagnostics"
	"fjacquet/bill-merge/internal/factory"
	"fjacquet/bill-merge/internal/ledger"
	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/merger"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/parser"
	"fjacquet/bill-merge/internal/report"
	"fjacquet/bill-merge/internal/store"
	"fjacquet/bill-merge/internal/tabular"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies and provides methods to
// access them. It is immutable after creation.
type Container struct {
	logger       logging.Logger
	config       *config.Config
	store        *store.RuleStore
	rules        []models.ClassificationRule
	categorizer  *categorizer.Categorizer
	adapters     []parser.SourceAdapter
	merger       *merger.Merger
	ledgerWriter *ledger.Writer
	ledgerReader *ledger.Reader
	diagnostics  *diagnostics.Exporter
	reports      *report.Generator
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an injected logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	reader := tabular.NewReader(tabular.Options{
		Encodings:      cfg.Input.Encodings,
		HeaderMarkers:  cfg.Input.HeaderMarkers,
		HeaderScanRows: cfg.Input.HeaderScanRows,
	}, logger)

	ruleStore := store.NewRuleStore(cfg.Rules.File, cfg.Input.Encodings, logger)
	return newContainer(cfg, logger, reader, ruleStore, ruleStore)
}

// NewContainerWithRules wires the application around a custom rule source.
func NewContainerWithRules(cfg *config.Config, logger logging.Logger, rules store.RuleLoader) (*Container, error) {
	if cfg == nil || logger == nil || rules == nil {
		return nil, fmt.Errorf("configuration, logger and rule loader are required")
	}
	reader := tabular.NewReader(tabular.Options{
		Encodings:      cfg.Input.Encodings,
		HeaderMarkers:  cfg.Input.HeaderMarkers,
		HeaderScanRows: cfg.Input.HeaderScanRows,
	}, logger)
	return newContainer(cfg, logger, reader, store.NewRuleStore(cfg.Rules.File, cfg.Input.Encodings, logger), rules)
}

func newContainer(cfg *config.Config, logger logging.Logger, reader *tabular.Reader, ruleStore *store.RuleStore, loader store.RuleLoader) (*Container, error) {
	rules, err := loader.LoadRules()
	if err != nil {
		logger.WithError(err).Warn("Failed to load rules, transactions stay unclassified",
			logging.Field{Key: logging.FieldFile, Value: cfg.Rules.File})
		rules = []models.ClassificationRule{}
	}

	cat := categorizer.NewCategorizer(rules, logger,
		categorizer.WithWorkers(cfg.Merge.Workers),
		categorizer.WithParallelThreshold(cfg.Merge.ParallelThreshold))

	adapters := factory.DefaultAdapters(logger)

	c := &Container{
		logger:       logger,
		config:       cfg,
		store:        ruleStore,
		rules:        rules,
		categorizer:  cat,
		adapters:     adapters,
		merger:       merger.NewMerger(reader, adapters, cat, logger, merger.WithDeduplication(cfg.Merge.Deduplicate)),
		ledgerWriter: ledger.NewWriter(cfg.Output.DateLayout, logger),
		ledgerReader: ledger.NewReader(cfg.Input.Encodings, logger),
		diagnostics: diagnostics.NewExporter(diagnostics.Options{
			Directory:      cfg.Debug.Directory,
			Brands:         cfg.Debug.Brands,
			UnmatchedLimit: cfg.Debug.UnmatchedLimit,
			DateLayout:     cfg.Output.DateLayout,
		}, logger),
		reports: report.NewGenerator(report.Options{
			MonthsBack:   cfg.Report.MonthsBack,
			TopMerchants: cfg.Report.TopMerchants,
			BigTop:       cfg.Report.BigTop,
			BigMin:       decimal.NewFromFloat(cfg.Report.BigMin),
		}, logger),
	}

	logger.Debug("Container initialized successfully",
		logging.Field{Key: "rules_count", Value: len(rules)},
		logging.Field{Key: "adapters_count", Value: len(adapters)})
	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the rule store.
func (c *Container) GetStore() *store.RuleStore {
	return c.store
}

// GetRules returns a copy of the loaded rules, in evaluation order.
func (c *Container) GetRules() []models.ClassificationRule {
	out := make([]models.ClassificationRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetAdapters returns a copy of the source adapters in preference order.
func (c *Container) GetAdapters() []parser.SourceAdapter {
	out := make([]parser.SourceAdapter, len(c.adapters))
	copy(out, c.adapters)
	return out
}

// GetMerger returns the merger.
func (c *Container) GetMerger() *merger.Merger {
	return c.merger
}

// GetLedgerWriter returns the ledger writer.
func (c *Container) GetLedgerWriter() *ledger.Writer {
	return c.ledgerWriter
}

// GetLedgerReader returns the ledger reader.
func (c *Container) GetLedgerReader() *ledger.Reader {
	return c.ledgerReader
}

// GetDiagnostics returns the diagnostics exporter.
func (c *Container) GetDiagnostics() *diagnostics.Exporter {
	return c.diagnostics
}

// GetReportGenerator returns the monthly summary generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
