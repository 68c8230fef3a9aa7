package merge

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/bill-merge/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alipayCSV = "交易时间,交易分类,交易对方,商品说明,收/支,金额,收/付款方式,交易状态,交易订单号\n" +
	"2024-01-05 09:00:00,交通出行,滴滴出行,滴滴快车,支出,23.00,花呗,交易成功,A1\n" +
	"2024-01-02 12:00:00,餐饮美食,肯德基,午餐,支出,35.50,花呗,交易成功,A2\n"

const rulesCSV = "priority,merchant,keyword,category,subcategory,regex\n" +
	"10,肯德基,,餐饮,快餐,0\n"

func TestMergeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "merge [files...]", Cmd.Use)
	assert.Contains(t, Cmd.Short, "classified ledger")
	assert.NotEmpty(t, Cmd.Long)
	assert.NotNil(t, Cmd.RunE)
}

func TestMergeCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		defValue  string
		configKey string
	}{
		{"input", "i", "", "input.directory"},
		{"output", "o", "", "output.file"},
		{"rules", "r", "", "rules.file"},
		{"format", "", "", "output.format"},
		{"dedup", "", "false", "merge.deduplicate"},
		{"debug", "", "false", "debug.enabled"},
		{"debug-dir", "", "", "debug.directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := Cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
			assert.NotEmpty(t, flag.Usage)
			assert.Equal(t, []string{tt.configKey}, flag.Annotations[root.ConfigKeyAnnotation])
		})
	}
}

func TestMergeCommand_Execute(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("alipay.csv", []byte(alipayCSV), 0600))
	require.NoError(t, os.WriteFile("rules.csv", []byte(rulesCSV), 0600))

	root.Cmd.AddCommand(Cmd)
	t.Cleanup(func() { root.Cmd.RemoveCommand(Cmd) })

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetArgs([]string{"merge", "alipay.csv", "-r", "rules.csv", "-o", "merged.csv", "--debug"})
	require.NoError(t, root.Cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "merged.csv"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "date,type,category,subcategory")
	assert.Contains(t, text, "支出,餐饮,快餐")
	assert.Less(t, bytes.Index(data, []byte("肯德基")), bytes.Index(data, []byte("滴滴出行")), "ledger is chronological")

	assert.Contains(t, out.String(), "2 transactions, 1 classified, 1 unclassified")
	assert.Contains(t, out.String(), "written merged.csv")
	assert.FileExists(t, filepath.Join(dir, "rules_loaded.csv"))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
