// Package alipayparser recognizes Alipay bill exports and maps them to
// canonical transactions.
package alipayparser

import (
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/parser"
)

// Schema is the column layout of Alipay exports, covering the current
// format and the older one with 交易创建时间.
var Schema = parser.Schema{
	Platform: models.PlatformAlipay,
	Aliases: map[parser.Field][]string{
		parser.FieldTime:      {"交易时间", "时间", "创建时间", "支付时间", "交易创建时间"},
		parser.FieldDirection: {"收/支", "收支", "收支类型"},
		parser.FieldAmount:    {"金额（元）", "金额(元)", "金额", "交易金额"},
		parser.FieldMerchant:  {"交易对方", "对方", "商家", "商户名称"},
		parser.FieldItem:      {"商品说明", "商品", "商品名称", "标题", "事由"},
		parser.FieldStatus:    {"交易状态", "状态"},
		parser.FieldMethod:    {"支付方式", "收/付款方式", "资金渠道"},
		parser.FieldNote:      {"备注", "用户备注", "附言"},
	},
	// WeChat-only columns; their presence means the export is not Alipay's.
	ForeignColumns: []string{"当前状态", "交易单号"},
	Direction: parser.DirectionRule{
		ExpenseMarkers: []string{"支出", "转出"},
		IncomeMarkers:  []string{"收入", "转入"},
	},
}
