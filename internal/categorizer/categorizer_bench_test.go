package categorizer

import (
	"context"
	"fmt"
	"testing"

	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/models"
)

func benchmarkRules(n int) []models.ClassificationRule {
	rules := make([]models.ClassificationRule, n)
	for i := range rules {
		rules[i] = models.ClassificationRule{
			Priority:        n - i,
			MerchantPattern: fmt.Sprintf("商户%d|merchant%d", i, i),
			Category:        fmt.Sprintf("类别%d", i%10),
		}
	}
	return rules
}

func BenchmarkClassify(b *testing.B) {
	c := NewCategorizer(benchmarkRules(200), logging.NewMockLogger())
	row := tx("merchant199", "商品", "")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Classify(row)
	}
}

func BenchmarkClassifyAll(b *testing.B) {
	c := NewCategorizer(benchmarkRules(200), logging.NewMockLogger())
	txs := make([]models.Transaction, 5000)
	for i := range txs {
		txs[i] = tx(fmt.Sprintf("merchant%d", i%300), "", "")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.ClassifyAll(context.Background(), txs)
	}
}
