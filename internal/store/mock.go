package store

import "fjacquet/bill-merge/internal/models"

// MockRuleStore is a RuleLoader for tests.
type MockRuleStore struct {
	Rules []models.ClassificationRule

	// LoadRulesError, when set, is returned by LoadRules.
	LoadRulesError error
}

// LoadRules returns a copy of the mock rules.
func (m *MockRuleStore) LoadRules() ([]models.ClassificationRule, error) {
	if m.LoadRulesError != nil {
		return nil, m.LoadRulesError
	}
	out := make([]models.ClassificationRule, len(m.Rules))
	copy(out, m.Rules)
	return out, nil
}
