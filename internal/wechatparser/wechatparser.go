// Package wechatparser recognizes WeChat Pay bill exports and maps them to
// canonical transactions.
package wechatparser

import (
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/parser"
)

// Schema is the column layout of WeChat Pay exports.
var Schema = parser.Schema{
	Platform: models.PlatformWeChat,
	Aliases: map[parser.Field][]string{
		parser.FieldTime:      {"交易时间", "时间", "支付时间"},
		parser.FieldType:      {"交易类型", "类型"},
		parser.FieldAmount:    {"金额(元)", "金额（元）", "金额", "交易金额(元)"},
		parser.FieldDirection: {"收/支", "收支"},
		parser.FieldMerchant:  {"交易对方", "商户名称", "收/付款方"},
		parser.FieldItem:      {"商品", "商品说明", "商品名称"},
		parser.FieldStatus:    {"当前状态", "交易状态", "状态"},
		parser.FieldMethod:    {"支付方式", "收/付款方式", "资金渠道"},
		parser.FieldNote:      {"备注", "用户备注", "附言"},
	},
	// Alipay order number column.
	ForeignColumns: []string{"交易订单号"},
	Direction: parser.DirectionRule{
		ExpenseMarkers: []string{"支出"},
		IncomeMarkers:  []string{"收入"},
		InflowKeywords: []string{"退款", "转入", "收入"},
	},
}
