// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/bill-merge/internal/config"
	"fjacquet/bill-merge/internal/container"
	"fjacquet/bill-merge/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ConfigKeyAnnotation marks a flag with the configuration key it overrides.
const ConfigKeyAnnotation = "bill-merge/config-key"

var (
	// ConfigFile is the explicit configuration file, if any.
	ConfigFile string

	// AppContainer is built before any subcommand runs.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bill-merge",
		Short: "Merge Alipay and WeChat Pay bill exports into one classified ledger.",
		Long: `bill-merge reads bill exports downloaded from Alipay and WeChat Pay (CSV or XLSX,
UTF-8 or GBK), merges them into a single chronological ledger and assigns a category
and subcategory to each transaction from a user-maintained rule table.`,
		SilenceUsage:      true,
		PersistentPreRunE: initialize,
	}
)

func init() {
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default: config.yaml in ., .bill-merge or $HOME/.bill-merge)")
	Cmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().String("log-format", "", "Log format (text or json)")
	BindConfigKey(Cmd.PersistentFlags(), "log-level", "log.level")
	BindConfigKey(Cmd.PersistentFlags(), "log-format", "log.format")
}

// BindConfigKey declares that flag name of flags overrides configuration
// key when it is set on the command line.
func BindConfigKey(flags *pflag.FlagSet, name, key string) {
	if err := flags.SetAnnotation(name, ConfigKeyAnnotation, []string{key}); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", name, err))
	}
}

// boundFlags collects the flags of cmd, inherited ones included, that are
// bound to a configuration key.
func boundFlags(cmd *cobra.Command) map[string]*pflag.Flag {
	bound := make(map[string]*pflag.Flag)
	visit := func(f *pflag.Flag) {
		if keys, ok := f.Annotations[ConfigKeyAnnotation]; ok && len(keys) > 0 {
			bound[keys[0]] = f
		}
	}
	cmd.InheritedFlags().VisitAll(visit)
	cmd.Flags().VisitAll(visit)
	return bound
}

func initialize(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithFlags(ConfigFile, boundFlags(cmd))
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppContainer = c
	return nil
}

// GetContainer returns the container built for the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return AppContainer, nil
}

// GetLogger returns the application logger, or the logrus standard logger
// before initialization.
func GetLogger() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return logging.NewLogrusAdapterFromLogger(logrus.StandardLogger())
}
