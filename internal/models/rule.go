package models

// ClassificationRule maps merchant and keyword patterns to a category.
// Rules are evaluated by descending Priority; the first match wins.
type ClassificationRule struct {
	Priority        int    `yaml:"priority" json:"priority"`
	MerchantPattern string `yaml:"merchant,omitempty" json:"merchant,omitempty"`
	KeywordPattern  string `yaml:"keyword,omitempty" json:"keyword,omitempty"`
	IsRegex         bool   `yaml:"regex" json:"regex"`
	Category        string `yaml:"category" json:"category"`
	Subcategory     string `yaml:"subcategory,omitempty" json:"subcategory,omitempty"`
}

// HasMerchant reports whether the rule constrains the merchant.
func (r ClassificationRule) HasMerchant() bool {
	return r.MerchantPattern != ""
}

// HasKeyword reports whether the rule constrains item and note text.
func (r ClassificationRule) HasKeyword() bool {
	return r.KeywordPattern != ""
}

// IsCatchAll reports whether the rule matches every transaction.
func (r ClassificationRule) IsCatchAll() bool {
	return !r.HasMerchant() && !r.HasKeyword()
}
