// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"fjacquet/bill-merge/internal/tabular"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Input  InputConfig  `mapstructure:"input" yaml:"input"`
	Rules  RulesConfig  `mapstructure:"rules" yaml:"rules"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Merge  MergeConfig  `mapstructure:"merge" yaml:"merge"`
	Debug  DebugConfig  `mapstructure:"debug" yaml:"debug"`
	Report ReportConfig `mapstructure:"report" yaml:"report"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// InputConfig controls how raw platform exports are located and decoded.
type InputConfig struct {
	Directory      string   `mapstructure:"directory" yaml:"directory"`
	Encodings      []string `mapstructure:"encodings" yaml:"encodings"`
	HeaderMarkers  []string `mapstructure:"header_markers" yaml:"header_markers"`
	HeaderScanRows int      `mapstructure:"header_scan_rows" yaml:"header_scan_rows"`
}

type RulesConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

type OutputConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	Format     string `mapstructure:"format" yaml:"format"`
	DateLayout string `mapstructure:"date_layout" yaml:"date_layout"`
}

// MergeConfig tunes the merge stage. Workers <= 0 means one per CPU.
type MergeConfig struct {
	Deduplicate       bool `mapstructure:"deduplicate" yaml:"deduplicate"`
	Workers           int  `mapstructure:"workers" yaml:"workers"`
	ParallelThreshold int  `mapstructure:"parallel_threshold" yaml:"parallel_threshold"`
}

type DebugConfig struct {
	Enabled        bool     `mapstructure:"enabled" yaml:"enabled"`
	Directory      string   `mapstructure:"directory" yaml:"directory"`
	Brands         []string `mapstructure:"brands" yaml:"brands"`
	UnmatchedLimit int      `mapstructure:"unmatched_limit" yaml:"unmatched_limit"`
}

type ReportConfig struct {
	MonthsBack   int     `mapstructure:"months_back" yaml:"months_back"`
	TopMerchants int     `mapstructure:"top_merchants" yaml:"top_merchants"`
	BigTop       int     `mapstructure:"big_top" yaml:"big_top"`
	BigMin       float64 `mapstructure:"big_min" yaml:"big_min"`
	Format       string  `mapstructure:"format" yaml:"format"`
}

// SupportedEncodings lists the decoding strategy names accepted in
// input.encodings.
var SupportedEncodings = []string{"utf-8-sig", "utf-8", "gbk", "gb18030", "latin1"}

// InitializeConfig loads configuration from the default locations.
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load builds the configuration from defaults, an optional config file,
// and BILLS_* environment variables, in increasing order of precedence.
// When configFile is empty the file is searched in $HOME/.bill-merge,
// .bill-merge and the working directory.
func Load(configFile string) (*Config, error) {
	return LoadWithFlags(configFile, nil)
}

// LoadWithFlags is Load with command-line flags bound to config keys, for
// example "rules.file" to --rules. A flag takes precedence over every other
// source, but only when it was set on the command line.
func LoadWithFlags(configFile string, flags map[string]*pflag.Flag) (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	v := viper.New()

	for key, flag := range flags {
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}

	// 1. Defaults
	setDefaults(v)

	// 2. Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.bill-merge")
		v.AddConfigPath(".bill-merge")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("BILLS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration made of defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("input.directory", "bills")
	v.SetDefault("input.encodings", SupportedEncodings)
	v.SetDefault("input.header_markers", []string{"交易", "时间"})
	v.SetDefault("input.header_scan_rows", 30)

	v.SetDefault("rules.file", "category_map.csv")

	v.SetDefault("output.file", "merged_bills.csv")
	v.SetDefault("output.format", "csv")
	v.SetDefault("output.date_layout", "2006-01-02 15:04:05")

	v.SetDefault("merge.deduplicate", false)
	v.SetDefault("merge.workers", runtime.NumCPU())
	v.SetDefault("merge.parallel_threshold", 500)

	v.SetDefault("debug.enabled", false)
	v.SetDefault("debug.directory", ".")
	v.SetDefault("debug.brands", []string{"肯德基", "kfc", "麦当劳", "mcdonald", "星巴克", "starbucks", "喜茶", "heytea"})
	v.SetDefault("debug.unmatched_limit", 200)

	v.SetDefault("report.months_back", 12)
	v.SetDefault("report.top_merchants", 10)
	v.SetDefault("report.big_top", 10)
	v.SetDefault("report.big_min", 0.0)
	v.SetDefault("report.format", "json")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.Input.Encodings) == 0 {
		return fmt.Errorf("input.encodings must list at least one encoding")
	}
	for _, enc := range config.Input.Encodings {
		if !tabular.KnownEncoding(enc) {
			return fmt.Errorf("unsupported encoding: %s (supported: %s)", enc, strings.Join(SupportedEncodings, ", "))
		}
	}

	if config.Input.HeaderScanRows < 1 {
		return fmt.Errorf("input.header_scan_rows must be positive, got: %d", config.Input.HeaderScanRows)
	}

	if config.Output.Format != "csv" && config.Output.Format != "xlsx" {
		return fmt.Errorf("invalid output format: %s (must be 'csv' or 'xlsx')", config.Output.Format)
	}

	if config.Output.DateLayout == "" {
		return fmt.Errorf("output.date_layout must not be empty")
	}

	if config.Merge.ParallelThreshold < 0 {
		return fmt.Errorf("merge.parallel_threshold must not be negative, got: %d", config.Merge.ParallelThreshold)
	}

	if config.Debug.UnmatchedLimit < 0 {
		return fmt.Errorf("debug.unmatched_limit must not be negative, got: %d", config.Debug.UnmatchedLimit)
	}

	if config.Report.MonthsBack < 1 {
		return fmt.Errorf("report.months_back must be positive, got: %d", config.Report.MonthsBack)
	}
	if config.Report.TopMerchants < 0 || config.Report.BigTop < 0 {
		return fmt.Errorf("report limits must not be negative")
	}
	if config.Report.Format != "json" && config.Report.Format != "yaml" {
		return fmt.Errorf("invalid report format: %s (must be 'json' or 'yaml')", config.Report.Format)
	}

	return nil
}
