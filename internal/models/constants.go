package models

import "strings"

// TransactionType is the direction of a transaction. Amounts are always
// non-negative; the type carries the sign.
type TransactionType string

const (
	TypeExpense TransactionType = "支出"
	TypeIncome  TransactionType = "收入"
)

// Platform tags the export a transaction came from.
type Platform string

const (
	PlatformAlipay Platform = "Alipay"
	PlatformWeChat Platform = "WeChat"
)

// ParseTransactionType maps a ledger type cell back to a TransactionType.
// Cells are matched by substring, so "支出(退款)" is an expense.
func ParseTransactionType(s string) (TransactionType, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, string(TypeExpense)):
		return TypeExpense, true
	case strings.Contains(s, string(TypeIncome)):
		return TypeIncome, true
	}
	return "", false
}

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
	PermissionConfigFile = 0644
)
