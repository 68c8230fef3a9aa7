package models

import (
	"fjacquet/bill-merge/internal/logging"
)

// CategorizationStats counts the outcome of a classification pass.
type CategorizationStats struct {
	Total        int `json:"total" yaml:"total"`
	Classified   int `json:"classified" yaml:"classified"`
	Unclassified int `json:"unclassified" yaml:"unclassified"`
}

// Record counts one classified or unclassified transaction.
func (cs *CategorizationStats) Record(classified bool) {
	cs.Total++
	if classified {
		cs.Classified++
	} else {
		cs.Unclassified++
	}
}

// GetSuccessRate returns the classified share as a percentage.
func (cs CategorizationStats) GetSuccessRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.Classified) / float64(cs.Total) * 100.0
}

// LogSummary logs the statistics at info level.
func (cs CategorizationStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: "total_transactions", Value: cs.Total},
		logging.Field{Key: "classified", Value: cs.Classified},
		logging.Field{Key: "unclassified", Value: cs.Unclassified},
		logging.Field{Key: "success_rate", Value: cs.GetSuccessRate()},
	)
}
