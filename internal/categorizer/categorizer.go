// Package categorizer assigns a category and subcategory to transactions
// from an ordered rule table. The first rule whose conditions all match
// wins.
package categorizer

import (
	"context"
	"runtime"
	"strings"

	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/parsererror"
	"fjacquet/bill-merge/internal/textutils"

	"golang.org/x/sync/errgroup"
)

// DefaultParallelThreshold is the batch size from which ClassifyAll uses
// the worker pool.
const DefaultParallelThreshold = 500

// compiledRule is a rule with its patterns compiled once.
type compiledRule struct {
	rule     models.ClassificationRule
	merchant matcher
	keyword  matcher
	// broken rules have a pattern that failed to compile; they never match.
	broken bool
}

// Categorizer classifies transactions against a fixed rule table. It is
// safe for concurrent use.
type Categorizer struct {
	rules     []compiledRule
	workers   int
	threshold int
	logger    logging.Logger
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithWorkers bounds the worker pool of ClassifyAll.
func WithWorkers(n int) Option {
	return func(c *Categorizer) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithParallelThreshold sets the batch size from which ClassifyAll runs in
// parallel. Zero makes every batch parallel.
func WithParallelThreshold(n int) Option {
	return func(c *Categorizer) {
		if n >= 0 {
			c.threshold = n
		}
	}
}

// NewCategorizer compiles rules, which must already be in evaluation order.
// Rules with a malformed regular expression are logged and never match.
func NewCategorizer(rules []models.ClassificationRule, logger logging.Logger, opts ...Option) *Categorizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	c := &Categorizer{
		rules:     make([]compiledRule, 0, len(rules)),
		workers:   runtime.NumCPU(),
		threshold: DefaultParallelThreshold,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, r := range rules {
		cr, err := compile(r)
		if err != nil {
			c.logger.WithError(err).Warn("Rule disabled",
				logging.Field{Key: logging.FieldPriority, Value: r.Priority},
				logging.Field{Key: logging.FieldCategory, Value: r.Category})
		}
		c.rules = append(c.rules, cr)
	}

	for i, r := range rules {
		if r.IsCatchAll() && i < len(rules)-1 {
			c.logger.Warn("Catch-all rule shadows lower-priority rules",
				logging.Field{Key: logging.FieldPriority, Value: r.Priority},
				logging.Field{Key: logging.FieldCategory, Value: r.Category},
				logging.Field{Key: logging.FieldCount, Value: len(rules) - 1 - i})
			break
		}
	}
	return c
}

func compile(r models.ClassificationRule) (compiledRule, error) {
	cr := compiledRule{rule: r}
	var err error
	if r.HasMerchant() {
		if cr.merchant, err = newMatcher(r.MerchantPattern, r.IsRegex); err != nil {
			cr.broken = true
			return cr, &parsererror.CategorizationError{Priority: r.Priority, Pattern: r.MerchantPattern, Err: err}
		}
	}
	if r.HasKeyword() {
		if cr.keyword, err = newMatcher(r.KeywordPattern, r.IsRegex); err != nil {
			cr.broken = true
			return cr, &parsererror.CategorizationError{Priority: r.Priority, Pattern: r.KeywordPattern, Err: err}
		}
	}
	return cr, nil
}

// Rules returns the number of rules, broken ones included.
func (c *Categorizer) Rules() int {
	return len(c.rules)
}

// Usable returns the number of rules that compiled.
func (c *Categorizer) Usable() int {
	n := 0
	for _, r := range c.rules {
		if !r.broken {
			n++
		}
	}
	return n
}

// Classify returns the category and subcategory of the first matching
// rule, or two empty strings.
func (c *Categorizer) Classify(tx models.Transaction) (string, string) {
	merchant := textutils.Normalize(tx.Merchant)
	item := textutils.Normalize(tx.Item)
	note := textutils.Normalize(tx.Note)
	itemJoin := strings.TrimSpace(item + " " + note)
	fullText := strings.TrimSpace(merchant + " " + item + " " + note)

	for _, cr := range c.rules {
		if cr.broken {
			continue
		}
		if cr.merchant != nil {
			// Without a keyword condition the merchant pattern may match
			// anywhere in the transaction text.
			target := fullText
			if cr.keyword != nil {
				target = merchant
			}
			if !cr.merchant.Match(target) {
				continue
			}
		}
		if cr.keyword != nil && !cr.keyword.Match(itemJoin) {
			continue
		}
		return cr.rule.Category, cr.rule.Subcategory
	}
	return "", ""
}

// Classify classifies tx against rules without retaining compiled state.
func Classify(tx models.Transaction, rules []models.ClassificationRule) (string, string) {
	return NewCategorizer(rules, logging.NewLogrusAdapter("error", "text")).Classify(tx)
}

// ClassifyAll assigns Category and Subcategory on every element of txs.
// Each worker writes only its own slots, so the result equals a sequential
// pass. It stops early only when ctx is cancelled.
func (c *Categorizer) ClassifyAll(ctx context.Context, txs []models.Transaction) (models.CategorizationStats, error) {
	if len(txs) < c.threshold || c.workers <= 1 {
		for i := range txs {
			if err := ctx.Err(); err != nil {
				return models.CategorizationStats{}, err
			}
			txs[i].Category, txs[i].Subcategory = c.Classify(txs[i])
		}
		return summarize(txs), nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	chunk := (len(txs) + c.workers - 1) / c.workers
	for start := 0; start < len(txs); start += chunk {
		part := txs[start:min(start+chunk, len(txs))]
		g.Go(func() error {
			for i := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				part[i].Category, part[i].Subcategory = c.Classify(part[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.CategorizationStats{}, err
	}

	c.logger.Debug("Classified in parallel",
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
		logging.Field{Key: logging.FieldWorkers, Value: c.workers})
	return summarize(txs), nil
}

func summarize(txs []models.Transaction) models.CategorizationStats {
	var stats models.CategorizationStats
	for _, tx := range txs {
		stats.Record(tx.IsClassified())
	}
	return stats
}
