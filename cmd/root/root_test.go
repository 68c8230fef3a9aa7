package root

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "bill-merge", Cmd.Use)
	assert.Contains(t, Cmd.Short, "Alipay and WeChat Pay")
	assert.Contains(t, Cmd.Long, "rule table")
	assert.NotNil(t, Cmd.PersistentPreRunE)
	assert.True(t, Cmd.SilenceUsage)
}

func TestRootCommand_Flags(t *testing.T) {
	for _, name := range []string{"config", "log-level", "log-format"} {
		flag := Cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}

	level := Cmd.PersistentFlags().Lookup("log-level")
	assert.Equal(t, []string{"log.level"}, level.Annotations[ConfigKeyAnnotation])
}

func TestBoundFlags(t *testing.T) {
	parent := &cobra.Command{Use: "parent"}
	parent.PersistentFlags().String("level", "", "")
	BindConfigKey(parent.PersistentFlags(), "level", "log.level")

	child := &cobra.Command{Use: "child", Run: func(*cobra.Command, []string) {}}
	child.Flags().String("rules", "", "")
	child.Flags().String("plain", "", "")
	BindConfigKey(child.Flags(), "rules", "rules.file")
	parent.AddCommand(child)

	bound := boundFlags(child)
	assert.Len(t, bound, 2)
	assert.Equal(t, "rules", bound["rules.file"].Name)
	assert.Equal(t, "level", bound["log.level"].Name)
}

func TestBindConfigKey_UnknownFlagPanics(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	assert.Panics(t, func() { BindConfigKey(cmd.Flags(), "missing", "a.b") })
}

func TestGetContainer_BeforeInit(t *testing.T) {
	saved := AppContainer
	AppContainer = nil
	t.Cleanup(func() { AppContainer = saved })

	_, err := GetContainer()
	assert.Error(t, err)
	assert.NotNil(t, GetLogger())
}
