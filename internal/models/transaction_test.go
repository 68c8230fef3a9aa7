package models

import (
	"errors"
	"testing"
	"time"

	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{Date: testDate, Type: TypeExpense, Amount: decimal.NewFromInt(5), Platform: PlatformWeChat}

	tests := []struct {
		name   string
		modify func(*Transaction)
		field  string
	}{
		{"valid", func(*Transaction) {}, ""},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, "date"},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }, "amount"},
		{"unknown type", func(tx *Transaction) { tx.Type = "refund" }, "type"},
		{"zero amount is fine", func(tx *Transaction) { tx.Amount = decimal.Zero }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.modify(&tx)
			err := tx.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *parsererror.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestTransaction_Key(t *testing.T) {
	a := Transaction{Date: testDate, Type: TypeExpense, Amount: decimal.RequireFromString("12.50"), Platform: PlatformAlipay, Merchant: "肯德基"}
	b := a
	b.Amount = decimal.RequireFromString("12.5")
	assert.NotEqual(t, a.Key(), Transaction{}.Key())

	c := a
	c.Note = "x"
	assert.NotEqual(t, a.Key(), c.Key())

	// Same value, different textual scale: decimal.String normalizes trailing zeros.
	assert.Equal(t, a.Key(), b.Key())
}

func TestParseTransactionType(t *testing.T) {
	tt, ok := ParseTransactionType("收入")
	assert.True(t, ok)
	assert.Equal(t, TypeIncome, tt)

	tt, ok = ParseTransactionType("支出(退款)")
	assert.True(t, ok)
	assert.Equal(t, TypeExpense, tt)

	tt, ok = ParseTransactionType(" 收入 ")
	assert.True(t, ok)
	assert.Equal(t, TypeIncome, tt)

	_, ok = ParseTransactionType("refund")
	assert.False(t, ok)
	_, ok = ParseTransactionType("转账")
	assert.False(t, ok)
}

func TestTransactionBuilder(t *testing.T) {
	tx, err := NewTransactionBuilder(PlatformWeChat).
		WithDate(testDate).
		WithAmount(decimal.RequireFromString("-30.00")).
		WithType(TypeIncome).
		WithMerchant("  张三 ").
		WithItem("转账").
		WithMethod("零钱").
		WithStatus("已收钱").
		WithNote("").
		Build()
	require.NoError(t, err)

	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(30)), "amount is stored as magnitude")
	assert.Equal(t, TypeIncome, tx.Type)
	assert.Equal(t, "张三", tx.Merchant)
	assert.Equal(t, PlatformWeChat, tx.Platform)
	assert.False(t, tx.IsExpense())
	assert.False(t, tx.IsClassified())
}

func TestTransactionBuilder_Errors(t *testing.T) {
	_, err := NewTransactionBuilder(PlatformAlipay).WithDate(time.Time{}).WithAmount(decimal.NewFromInt(1)).Build()
	assert.EqualError(t, err, "date cannot be zero")

	_, err = NewTransactionBuilder(PlatformAlipay).Build()
	var vErr *parsererror.ValidationError
	assert.True(t, errors.As(err, &vErr), "missing date fails validation")

	tx, err := NewTransactionBuilder(PlatformAlipay).WithDate(testDate).WithType("whatever").Build()
	require.NoError(t, err)
	assert.Equal(t, TypeExpense, tx.Type)
}

func TestClassificationRule(t *testing.T) {
	assert.True(t, ClassificationRule{Category: "其他"}.IsCatchAll())
	r := ClassificationRule{MerchantPattern: "kfc", Category: "餐饮"}
	assert.True(t, r.HasMerchant())
	assert.False(t, r.HasKeyword())
	assert.False(t, r.IsCatchAll())
}

func TestCategorizationStats(t *testing.T) {
	var stats CategorizationStats
	assert.Equal(t, 0.0, stats.GetSuccessRate())

	stats.Record(true)
	stats.Record(true)
	stats.Record(false)
	stats.Record(true)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Classified)
	assert.Equal(t, 1, stats.Unclassified)
	assert.InDelta(t, 75.0, stats.GetSuccessRate(), 0.001)

	logger := logging.NewMockLogger()
	stats.LogSummary(logger)
	assert.True(t, logger.HasEntry("INFO", "Categorization summary"))
	stats.LogSummary(nil)
}
