// Package report aggregates a ledger into a monthly summary and renders it
// as JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"fjacquet/bill-merge/internal/currencyutils"
	"fjacquet/bill-merge/internal/dateutils"
	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Options controls the summary window and list sizes.
type Options struct {
	MonthsBack   int
	TopMerchants int
	BigTop       int
	// BigMin filters big expenses when positive.
	BigMin decimal.Decimal
}

// DefaultOptions covers the last twelve months with top-10 lists.
func DefaultOptions() Options {
	return Options{MonthsBack: 12, TopMerchants: 10, BigTop: 10}
}

// Generator builds and renders summaries.
type Generator struct {
	opts   Options
	logger logging.Logger
}

// NewGenerator creates a Generator. Non-positive sizes fall back to the
// defaults.
func NewGenerator(opts Options, logger logging.Logger) *Generator {
	def := DefaultOptions()
	if opts.MonthsBack <= 0 {
		opts.MonthsBack = def.MonthsBack
	}
	if opts.TopMerchants <= 0 {
		opts.TopMerchants = def.TopMerchants
	}
	if opts.BigTop <= 0 {
		opts.BigTop = def.BigTop
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{opts: opts, logger: logger}
}

// GenerateReport builds the summary of txs for the window ending with the
// month of now and renders it in format ("json" or "yaml").
func (g *Generator) GenerateReport(txs []models.Transaction, now time.Time, format string) ([]byte, error) {
	return g.Render(g.Build(txs, now), format)
}

// Build aggregates txs. Months without transactions are left out.
func (g *Generator) Build(txs []models.Transaction, now time.Time) *Summary {
	s := &Summary{
		GeneratedAt: now.Format(time.RFC3339),
		Totals:      totalsOf(txs),
		Months:      []MonthSummary{},
	}
	if len(txs) > 0 {
		first, last := txs[0].Date, txs[0].Date
		for _, tx := range txs[1:] {
			if tx.Date.Before(first) {
				first = tx.Date
			}
			if tx.Date.After(last) {
				last = tx.Date
			}
		}
		s.From = first.Format(dateutils.DateLayoutISO)
		s.To = last.Format(dateutils.DateLayoutISO)
	}

	byMonth := make(map[string][]models.Transaction)
	for _, tx := range txs {
		key := dateutils.MonthKey(tx.Date)
		byMonth[key] = append(byMonth[key], tx)
	}
	for _, month := range dateutils.LastMonths(now, g.opts.MonthsBack) {
		if monthTxs, ok := byMonth[month]; ok {
			s.Months = append(s.Months, g.month(month, monthTxs))
		}
	}

	g.logger.Debug("Summary built",
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
		logging.Field{Key: "months", Value: len(s.Months)})
	return s
}

func (g *Generator) month(key string, txs []models.Transaction) MonthSummary {
	var expenses []models.Transaction
	for _, tx := range txs {
		if tx.IsExpense() {
			expenses = append(expenses, tx)
		}
	}

	ms := MonthSummary{
		Month:        key,
		Totals:       totalsOf(txs),
		Categories:   sumBy(expenses, func(tx models.Transaction) string { return tx.Category }),
		TopMerchants: sumBy(expenses, func(tx models.Transaction) string { return tx.Merchant }),
		BigExpenses:  []BigExpense{},
	}
	if len(ms.TopMerchants) > g.opts.TopMerchants {
		ms.TopMerchants = ms.TopMerchants[:g.opts.TopMerchants]
	}

	big := make([]models.Transaction, 0, len(expenses))
	for _, tx := range expenses {
		if g.opts.BigMin.IsPositive() && tx.Amount.LessThan(g.opts.BigMin) {
			continue
		}
		big = append(big, tx)
	}
	sort.SliceStable(big, func(i, j int) bool {
		return big[i].Amount.GreaterThan(big[j].Amount)
	})
	if len(big) > g.opts.BigTop {
		big = big[:g.opts.BigTop]
	}
	for _, tx := range big {
		summary := tx.Item
		if summary == "" {
			summary = tx.Note
		}
		ms.BigExpenses = append(ms.BigExpenses, BigExpense{
			Date:     tx.Date.Format(dateutils.DateLayoutISO),
			Merchant: tx.Merchant,
			Summary:  summary,
			Amount:   currencyutils.FormatAmount(tx.Amount),
			Category: tx.Category,
		})
	}
	return ms
}

// Render encodes s as "json" or "yaml".
func (g *Generator) Render(s *Summary, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json", "":
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return append(out, '\n'), nil
	case "yaml", "yml":
		out, err := yaml.Marshal(s)
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func totalsOf(txs []models.Transaction) Totals {
	expense, income := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch {
		case tx.IsExpense():
			expense = expense.Add(tx.Amount)
		case tx.Type == models.TypeIncome:
			income = income.Add(tx.Amount)
		}
	}
	return Totals{
		Expense: currencyutils.FormatAmount(expense),
		Income:  currencyutils.FormatAmount(income),
		Net:     currencyutils.FormatAmount(income.Sub(expense)),
	}
}

// sumBy totals amounts per non-empty key, largest first.
func sumBy(txs []models.Transaction, key func(models.Transaction) string) []AmountLine {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		k := key(tx)
		if k == "" {
			continue
		}
		sums[k] = sums[k].Add(tx.Amount)
	}

	names := make([]string, 0, len(sums))
	for k := range sums {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if c := sums[names[i]].Cmp(sums[names[j]]); c != 0 {
			return c > 0
		}
		return names[i] < names[j]
	})

	lines := make([]AmountLine, len(names))
	for i, n := range names {
		lines[i] = AmountLine{Name: n, Amount: currencyutils.FormatAmount(sums[n])}
	}
	return lines
}
