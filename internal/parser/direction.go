package parser

import (
	"strings"

	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/textutils"
)

// DirectionRule infers income versus expense for a row.
type DirectionRule struct {
	// ExpenseMarkers and IncomeMarkers are the values of the explicit
	// income/expense column, compared after normalization.
	ExpenseMarkers []string
	IncomeMarkers  []string
	// InflowKeywords are searched in the transaction-type text when the
	// indicator column gives no answer.
	InflowKeywords []string
}

// Infer returns the direction for an indicator cell and a type cell.
// Without a decisive indicator or inflow keyword the row is an expense.
func (d DirectionRule) Infer(indicator, typeText string) models.TransactionType {
	io := textutils.Normalize(indicator)
	if io != "" {
		if containsExact(d.ExpenseMarkers, io) {
			return models.TypeExpense
		}
		if containsExact(d.IncomeMarkers, io) {
			return models.TypeIncome
		}
	}

	kind := textutils.Normalize(typeText)
	if kind != "" {
		for _, kw := range d.InflowKeywords {
			if strings.Contains(kind, textutils.Normalize(kw)) {
				return models.TypeIncome
			}
		}
	}

	return models.TypeExpense
}

func containsExact(markers []string, normalized string) bool {
	for _, m := range markers {
		if textutils.Normalize(m) == normalized {
			return true
		}
	}
	return false
}
