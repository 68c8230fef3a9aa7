package alipayparser

import (
	"testing"
	"time"

	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/parser"
	"fjacquet/bill-merge/internal/tabular"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alipayExport = "支付宝交易明细\n" +
	"起始时间：[2024-01-01 00:00:00]    终止时间：[2024-01-31 23:59:59]\n" +
	"交易时间,交易分类,交易对方,对方账号,商品说明,收/支,金额,收/付款方式,交易状态,交易订单号,商家订单号,备注\n" +
	"2024-01-02 09:15:00,餐饮美食,肯德基,kfc***@yum.com,早餐套餐,支出,25.50,花呗,交易成功,2024010200001,T1,\n" +
	"2024-01-03 18:00:00,转账红包,李四,li***@qq.com,转账,转入,100.00,余额,交易成功,2024010300002,,生日快乐\n" +
	"2024-01-04 10:00:00,退款,某商城,,退款-耳机,不计收支,99.00,,退款成功,2024010400003,,\n" +
	"2024-01-05,餐饮美食,喜茶,,,支出,(18.00),花呗,交易成功,2024010500004,,\n"

func readTable(t *testing.T, text string) *tabular.Table {
	t.Helper()
	table, err := tabular.NewReader(tabular.DefaultOptions(), logging.NewMockLogger()).ReadCSV("alipay.csv", []byte(text))
	require.NoError(t, err)
	return table
}

func TestAdapter_Adapt(t *testing.T) {
	adapter := NewAdapter(logging.NewMockLogger())
	assert.Equal(t, models.PlatformAlipay, adapter.Platform())

	txs, err := adapter.Adapt(readTable(t, alipayExport))
	require.NoError(t, err)
	require.Len(t, txs, 4)

	kfc := txs[0]
	assert.Equal(t, time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC), kfc.Date)
	assert.Equal(t, models.TypeExpense, kfc.Type)
	assert.True(t, decimal.RequireFromString("25.5").Equal(kfc.Amount))
	assert.Equal(t, "肯德基", kfc.Merchant)
	assert.Equal(t, "早餐套餐", kfc.Item)
	assert.Equal(t, "花呗", kfc.Method)
	assert.Equal(t, "交易成功", kfc.Status)
	assert.Equal(t, models.PlatformAlipay, kfc.Platform)

	transfer := txs[1]
	assert.Equal(t, models.TypeIncome, transfer.Type, "转入 is income")
	assert.Equal(t, "生日快乐", transfer.Note)

	refund := txs[2]
	assert.Equal(t, models.TypeExpense, refund.Type, "neutral indicator defaults to expense")

	tea := txs[3]
	assert.True(t, decimal.NewFromInt(18).Equal(tea.Amount), "parenthesized amount stored as magnitude")
	assert.Equal(t, models.TypeExpense, tea.Type)
}

func TestAdapter_OlderExport(t *testing.T) {
	text := "交易号,交易创建时间,交易对方,商品名称,金额（元）,收/支,交易状态\n" +
		"A1,2023/12/30 20:10:05,滴滴出行,打车,\"1,234.50\",支出,交易成功\n"

	txs, err := NewAdapter(nil).Adapt(readTable(t, text))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "打车", txs[0].Item)
	assert.True(t, decimal.RequireFromString("1234.5").Equal(txs[0].Amount))
}

func TestAdapter_RejectsWeChatExport(t *testing.T) {
	text := "交易时间,交易类型,交易对方,商品,收/支,金额(元),支付方式,当前状态,交易单号\n" +
		"2024-01-03 12:00:00,商户消费,肯德基,套餐,支出,¥35.50,零钱,支付成功,1001\n"

	_, err := NewAdapter(nil).Adapt(readTable(t, text))
	assert.ErrorIs(t, err, parser.ErrNotRecognized)
}

func TestAdapter_ImplementsSourceAdapter(t *testing.T) {
	var _ parser.SourceAdapter = NewAdapter(nil)
}
