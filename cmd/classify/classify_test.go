package classify

import (
	"bytes"
	"os"
	"testing"

	"fjacquet/bill-merge/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCommand_Metadata(t *testing.T) {
	assert.Equal(t, "classify", Cmd.Use)
	assert.NotEmpty(t, Cmd.Short)
	assert.Contains(t, Cmd.Example, "--merchant")
}

func TestClassifyCommand_Flags(t *testing.T) {
	merchant := Cmd.Flags().Lookup("merchant")
	require.NotNil(t, merchant)
	assert.Equal(t, "m", merchant.Shorthand)

	note := Cmd.Flags().Lookup("note")
	require.NotNil(t, note)
	assert.Equal(t, "n", note.Shorthand)

	rules := Cmd.Flags().Lookup("rules")
	require.NotNil(t, rules)
	assert.Equal(t, []string{"rules.file"}, rules.Annotations[root.ConfigKeyAnnotation])
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root.Cmd.AddCommand(Cmd)
	t.Cleanup(func() { root.Cmd.RemoveCommand(Cmd) })

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(&out)
	root.Cmd.SetArgs(append([]string{"classify"}, args...))
	err := root.Cmd.Execute()
	return out.String(), err
}

func TestClassifyCommand_Execute(t *testing.T) {
	chdir(t, t.TempDir())
	rules := "priority,merchant,keyword,category,subcategory,regex\n" +
		"10,星巴克|starbucks,,餐饮,咖啡,0\n" +
		"1,,打车,交通,,0\n"
	require.NoError(t, os.WriteFile("rules.csv", []byte(rules), 0600))

	out, err := run(t, "-r", "rules.csv", "-m", "STARBUCKS 静安店", "--item", "", "-n", "")
	require.NoError(t, err)
	assert.Contains(t, out, "category: 餐饮")
	assert.Contains(t, out, "subcategory: 咖啡")

	out, err = run(t, "-r", "rules.csv", "-m", "便利店", "--item", "矿泉水", "-n", "")
	require.NoError(t, err)
	assert.Contains(t, out, "unclassified")
}

func TestClassifyCommand_RequiresInput(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := run(t, "-m", "", "--item", "", "-n", "")
	assert.Error(t, err)
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
