package report

// Summary is the monthly overview of a ledger.
type Summary struct {
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	// From and To bound the ledger dates (YYYY-MM-DD).
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	// Totals cover the whole ledger.
	Totals Totals `json:"totals" yaml:"totals"`
	// Months holds the months of the window that have data, most recent
	// first.
	Months []MonthSummary `json:"months" yaml:"months"`
}

// Totals are expense, income and net (income minus expense) amounts.
type Totals struct {
	Expense string `json:"expense" yaml:"expense"`
	Income  string `json:"income" yaml:"income"`
	Net     string `json:"net" yaml:"net"`
}

// MonthSummary aggregates one calendar month.
type MonthSummary struct {
	Month        string       `json:"month" yaml:"month"`
	Totals       Totals       `json:"totals" yaml:"totals"`
	Categories   []AmountLine `json:"categories" yaml:"categories"`
	TopMerchants []AmountLine `json:"top_merchants" yaml:"top_merchants"`
	BigExpenses  []BigExpense `json:"big_expenses" yaml:"big_expenses"`
}

// AmountLine is a named expense total.
type AmountLine struct {
	Name   string `json:"name" yaml:"name"`
	Amount string `json:"amount" yaml:"amount"`
}

// BigExpense is a single large outflow.
type BigExpense struct {
	Date     string `json:"date" yaml:"date"`
	Merchant string `json:"merchant" yaml:"merchant"`
	Summary  string `json:"summary" yaml:"summary"`
	Amount   string `json:"amount" yaml:"amount"`
	Category string `json:"category" yaml:"category"`
}
