package diagnostics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(merchant, item, note, category string) models.Transaction {
	return models.Transaction{
		Date:     time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
		Type:     models.TypeExpense,
		Amount:   decimal.RequireFromString("9.9"),
		Platform: models.PlatformWeChat,
		Merchant: merchant,
		Item:     item,
		Note:     note,
		Category: category,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "\ufeff"), "diagnostics carry a byte order mark")
	return strings.TrimPrefix(string(data), "\ufeff")
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")
	logger := logging.NewMockLogger()
	e := NewExporter(Options{Directory: dir}, logger)

	rules := []models.ClassificationRule{{Priority: 10, MerchantPattern: "肯德基", Category: "餐饮"}}
	txs := []models.Transaction{
		row("ＫＦＣ 人民广场", "套餐", "", "餐饮"),
		row("便利店", "饮料", "", ""),
		row("美团", "外卖", "Starbucks", ""),
	}

	written := e.Export(rules, txs)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, RulesFile),
		filepath.Join(dir, BrandHitsFile),
		filepath.Join(dir, UnmatchedFile),
	}, written)

	assert.Contains(t, readFile(t, filepath.Join(dir, RulesFile)), "10,肯德基,,餐饮,,0")

	hits := readFile(t, filepath.Join(dir, BrandHitsFile))
	assert.True(t, strings.HasPrefix(hits, "date,type,category,subcategory,amount,platform,merchant,item,method,status,note,merchant_norm,item_norm,note_norm\n"))
	assert.Contains(t, hits, ",kfc 人民广场,套餐,\n")
	assert.Contains(t, hits, ",美团,外卖,starbucks\n")
	assert.NotContains(t, hits, "便利店")

	unmatched := readFile(t, filepath.Join(dir, UnmatchedFile))
	assert.Equal(t, "date,platform,merchant,item,note,amount\n"+
		"2024-01-02 12:00:00,WeChat,便利店,饮料,,9.90\n"+
		"2024-01-02 12:00:00,WeChat,美团,外卖,Starbucks,9.90\n", unmatched)
}

func TestExport_SkipsEmptyExports(t *testing.T) {
	dir := t.TempDir()
	written := NewExporter(Options{Directory: dir}, nil).Export(nil, []models.Transaction{row("便利店", "", "", "购物")})

	assert.Equal(t, []string{filepath.Join(dir, RulesFile)}, written)
	_, err := os.Stat(filepath.Join(dir, UnmatchedFile))
	assert.True(t, os.IsNotExist(err))
}

func TestExport_FailuresAreWarned(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the directory should be.
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, nil, 0600))

	logger := logging.NewMockLogger()
	written := NewExporter(Options{Directory: blocked}, logger).Export(nil, []models.Transaction{row("kfc", "", "", "")})

	assert.Empty(t, written)
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 3)
}

func TestUnmatched_Limit(t *testing.T) {
	txs := make([]models.Transaction, 10)
	for i := range txs {
		txs[i] = row("店", "", "", "")
	}
	e := NewExporter(Options{UnmatchedLimit: 3}, nil)
	assert.Len(t, e.Unmatched(txs), 3)
}

func TestBrandHits_CustomBrands(t *testing.T) {
	e := NewExporter(Options{Brands: []string{" Luckin ", ""}}, nil)
	hits := e.BrandHits([]models.Transaction{
		row("瑞幸", "LUCKIN coffee", "", ""),
		row("肯德基", "", "", ""),
	})
	require.Len(t, hits, 1)
	assert.Equal(t, "瑞幸", hits[0].Merchant)
}
