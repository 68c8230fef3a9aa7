package wechatparser

import (
	"strings"
	"testing"
	"time"

	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/parser"
	"fjacquet/bill-merge/internal/tabular"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

const wechatExport = "微信支付账单明细,,,,,,,,,,\n" +
	"微信昵称：[小明],,,,,,,,,,\n" +
	"起始时间：[2024-01-01 00:00:00] 终止时间：[2024-01-31 23:59:59],,,,,,,,,,\n" +
	"----------------------微信支付账单明细列表--------------------,,,,,,,,,,\n" +
	"交易时间,交易类型,交易对方,商品,收/支,金额(元),支付方式,当前状态,交易单号,商户单号,备注\n" +
	"2024-01-03 12:00:00,商户消费,肯德基,\"香辣鸡腿堡\t\",支出,¥35.50,零钱,支付成功,4200001\t,1001\t,/\n" +
	"2024-01-04 08:30:00,微信红包,张三,/,收入,¥8.88,,已存入零钱,10000\t,/,/\n" +
	"2024-01-05 09:00:00,微信红包-退款,/,/,/,¥5.00,,已全额退款,10001\t,/,/\n" +
	"2024-01-06 10:00:00,零钱提现,招商银行,/,/,¥100.00,零钱,提现已到账,10002\t,/,服务费¥0.10\n"

func readTable(t *testing.T, data []byte) *tabular.Table {
	t.Helper()
	table, err := tabular.NewReader(tabular.DefaultOptions(), logging.NewMockLogger()).ReadCSV("wechat.csv", data)
	require.NoError(t, err)
	return table
}

func TestAdapter_Adapt(t *testing.T) {
	adapter := NewAdapter(logging.NewMockLogger())
	assert.Equal(t, models.PlatformWeChat, adapter.Platform())

	txs, err := adapter.Adapt(readTable(t, []byte(wechatExport)))
	require.NoError(t, err)
	require.Len(t, txs, 4)

	kfc := txs[0]
	assert.Equal(t, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC), kfc.Date)
	assert.Equal(t, models.TypeExpense, kfc.Type)
	assert.True(t, decimal.RequireFromString("35.5").Equal(kfc.Amount))
	assert.Equal(t, "香辣鸡腿堡", kfc.Item, "tab padding is trimmed")
	assert.Equal(t, "支付成功", kfc.Status)
	assert.Equal(t, models.PlatformWeChat, kfc.Platform)

	assert.Equal(t, models.TypeIncome, txs[1].Type, "explicit 收入")
	assert.Equal(t, models.TypeIncome, txs[2].Type, "refund keyword in type text")
	assert.Equal(t, models.TypeExpense, txs[3].Type, "neutral row without inflow keyword")
	assert.Equal(t, "服务费¥0.10", txs[3].Note)
}

func TestAdapter_GBKExport(t *testing.T) {
	// ¥ has no GBK code point; older exports omit it.
	data, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(strings.ReplaceAll(wechatExport, "¥", "")))
	require.NoError(t, err)

	table := readTable(t, data)
	assert.Equal(t, "gbk", table.Encoding)

	txs, err := NewAdapter(nil).Adapt(table)
	require.NoError(t, err)
	assert.Len(t, txs, 4)
	assert.Equal(t, "肯德基", txs[0].Merchant)
}

func TestAdapter_RejectsAlipayExport(t *testing.T) {
	text := "交易时间,交易分类,交易对方,商品说明,收/支,金额,交易状态,交易订单号\n" +
		"2024-01-02 09:15:00,餐饮美食,肯德基,早餐,支出,25.50,交易成功,1\n"

	_, err := NewAdapter(nil).Adapt(readTable(t, []byte(text)))
	assert.ErrorIs(t, err, parser.ErrNotRecognized)
}

func TestAdapter_ImplementsSourceAdapter(t *testing.T) {
	var _ parser.SourceAdapter = NewAdapter(nil)
}
