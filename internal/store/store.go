// Package store loads and saves the classification rule table.
package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"fjacquet/bill-merge/internal/fileutils"
	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/tabular"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// RuleLoader is implemented by anything that can supply classification rules.
type RuleLoader interface {
	LoadRules() ([]models.ClassificationRule, error)
}

// ruleRecord is one raw row of the rule table. Every field is kept as text
// so malformed cells can be coerced instead of failing the whole file.
type ruleRecord struct {
	Priority    string `csv:"priority" yaml:"priority"`
	Merchant    string `csv:"merchant" yaml:"merchant"`
	Keyword     string `csv:"keyword" yaml:"keyword"`
	Category    string `csv:"category" yaml:"category"`
	Subcategory string `csv:"subcategory" yaml:"subcategory"`
	Regex       string `csv:"regex" yaml:"regex"`
}

type ruleDocument struct {
	Rules []ruleRecord `yaml:"rules"`
}

// RuleStore reads the rule table from a CSV or YAML file.
type RuleStore struct {
	RulesFile string
	encodings []string
	logger    logging.Logger
}

// NewRuleStore creates a store for rulesFile. CSV bytes are decoded with the
// given encoding strategies, in order; nil uses the tabular defaults.
func NewRuleStore(rulesFile string, encodings []string, logger logging.Logger) *RuleStore {
	if len(encodings) == 0 {
		encodings = tabular.DefaultOptions().Encodings
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &RuleStore{
		RulesFile: rulesFile,
		encodings: encodings,
		logger:    logger,
	}
}

// FindConfigFile looks for a file in the standard locations: as given,
// under ./config, then under ~/.config/bill-merge.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "bill-merge", filename))
	}

	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadRules returns the rules sorted by descending priority. A missing file
// yields no rules and no error.
func (s *RuleStore) LoadRules() ([]models.ClassificationRule, error) {
	if s.RulesFile == "" {
		return []models.ClassificationRule{}, nil
	}

	path, err := s.FindConfigFile(s.RulesFile)
	if err != nil {
		s.logger.Warn("Rules file not found, transactions stay unclassified",
			logging.Field{Key: logging.FieldFile, Value: s.RulesFile})
		return []models.ClassificationRule{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var records []ruleRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		records, err = decodeYAML(data)
	default:
		records, err = s.decodeCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	rules := toRules(records)
	s.logger.Debug("Loaded classification rules",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(rules)})
	return rules, nil
}

func decodeYAML(data []byte) ([]ruleRecord, error) {
	var doc ruleDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Rules, nil
}

func (s *RuleStore) decodeCSV(data []byte) ([]ruleRecord, error) {
	text, enc, err := tabular.DecodeFirst(data, s.encodings, func(text string) error {
		r := csv.NewReader(strings.NewReader(text))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		_, err := r.ReadAll()
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Decoded rules file", logging.Field{Key: logging.FieldEncoding, Value: enc})

	var records []ruleRecord
	if strings.TrimSpace(text) == "" {
		return records, nil
	}
	if err := gocsv.UnmarshalCSV(tabular.NewHeaderNormalizingReader(strings.NewReader(text)), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// toRules coerces raw records, drops rows without a category and sorts by
// descending priority, keeping file order among equal priorities.
func toRules(records []ruleRecord) []models.ClassificationRule {
	rules := make([]models.ClassificationRule, 0, len(records))
	for _, rec := range records {
		category := strings.TrimSpace(rec.Category)
		if category == "" {
			continue
		}
		rules = append(rules, models.ClassificationRule{
			Priority:        ParsePriority(rec.Priority),
			MerchantPattern: strings.TrimSpace(rec.Merchant),
			KeywordPattern:  strings.TrimSpace(rec.Keyword),
			IsRegex:         ParseRegexFlag(rec.Regex),
			Category:        category,
			Subcategory:     strings.TrimSpace(rec.Subcategory),
		})
	}
	SortRules(rules)
	return rules
}

// ParsePriority reads a priority cell as a number truncated toward zero.
// Anything unparsable, NaN or infinite is 0.
func ParsePriority(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// ParseRegexFlag is true only for "1" and "true" in any case.
func ParseRegexFlag(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" || strings.EqualFold(s, "true")
}

// SortRules stable-sorts rules by descending priority.
func SortRules(rules []models.ClassificationRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
}

// WriteRules writes rules to path as YAML (.yaml, .yml) or as a CSV with a
// UTF-8 byte order mark.
func WriteRules(path string, rules []models.ClassificationRule) error {
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	records := make([]ruleRecord, len(rules))
	for i, r := range rules {
		regex := "0"
		if r.IsRegex {
			regex = "1"
		}
		records[i] = ruleRecord{
			Priority:    strconv.Itoa(r.Priority),
			Merchant:    r.MerchantPattern,
			Keyword:     r.KeywordPattern,
			Category:    r.Category,
			Subcategory: r.Subcategory,
			Regex:       regex,
		}
	}

	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(ruleDocument{Rules: records})
		if err != nil {
			return fmt.Errorf("error marshaling rules: %w", err)
		}
		buf.Write(data)
	default:
		w, err := tabular.NewBOMCSVWriter(&buf)
		if err != nil {
			return err
		}
		if err := gocsv.MarshalCSV(&records, w); err != nil {
			return fmt.Errorf("error marshaling rules: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing rules: %w", err)
	}
	return nil
}
