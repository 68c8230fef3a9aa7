// Package merge provides the command that builds the classified ledger.
package merge

import (
	"fmt"

	"fjacquet/bill-merge/cmd/root"
	"fjacquet/bill-merge/internal/ledger"
	"fjacquet/bill-merge/internal/logging"
	"fjacquet/bill-merge/internal/merger"

	"github.com/spf13/cobra"
)

// Cmd represents the merge command
var Cmd = &cobra.Command{
	Use:   "merge [files...]",
	Short: "Merge Alipay and WeChat Pay exports into one classified ledger",
	Long: `Merge reads every .csv and .xlsx export in the input directory (or the files
given as arguments), recognizes the platform of each one, classifies every
transaction against the rule table and writes a single chronological ledger.

With --debug the brand hits, the first unclassified rows and the loaded rules
are exported next to the ledger for troubleshooting the rule table.`,
	RunE: mergeFunc,
}

func init() {
	Cmd.Flags().StringP("input", "i", "", "Directory holding the bill exports")
	Cmd.Flags().StringP("output", "o", "", "Ledger file to write")
	Cmd.Flags().StringP("rules", "r", "", "Rule table (CSV or YAML)")
	Cmd.Flags().String("format", "", "Ledger format: csv or xlsx (default: from the output extension)")
	Cmd.Flags().Bool("dedup", false, "Drop rows that repeat an earlier row exactly")
	Cmd.Flags().Bool("debug", false, "Export rule-debugging files")
	Cmd.Flags().String("debug-dir", "", "Directory for the rule-debugging files")

	root.BindConfigKey(Cmd.Flags(), "input", "input.directory")
	root.BindConfigKey(Cmd.Flags(), "output", "output.file")
	root.BindConfigKey(Cmd.Flags(), "rules", "rules.file")
	root.BindConfigKey(Cmd.Flags(), "format", "output.format")
	root.BindConfigKey(Cmd.Flags(), "dedup", "merge.deduplicate")
	root.BindConfigKey(Cmd.Flags(), "debug", "debug.enabled")
	root.BindConfigKey(Cmd.Flags(), "debug-dir", "debug.directory")
}

func mergeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	cfg := c.GetConfig()
	logger := c.GetLogger()

	var res *merger.Result
	if len(args) > 0 {
		res, err = c.GetMerger().MergeFiles(cmd.Context(), args)
	} else {
		logger.Info("Merging exports from directory",
			logging.Field{Key: logging.FieldDirectory, Value: cfg.Input.Directory})
		res, err = c.GetMerger().MergeDirectory(cmd.Context(), cfg.Input.Directory)
	}
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if !cmd.Flags().Changed("format") {
		format = ledger.FormatForPath(cfg.Output.File, format)
	}
	if err := c.GetLedgerWriter().WriteFile(cfg.Output.File, format, res.Transactions); err != nil {
		return err
	}

	if cfg.Debug.Enabled {
		for _, path := range c.GetDiagnostics().Export(c.GetRules(), res.Transactions) {
			fmt.Fprintf(cmd.OutOrStdout(), "debug: %s\n", path)
		}
	}

	printResult(cmd, res, cfg.Output.File)
	return nil
}

func printResult(cmd *cobra.Command, res *merger.Result, output string) {
	out := cmd.OutOrStdout()
	for _, f := range res.Files {
		if f.Skipped() {
			fmt.Fprintf(out, "skipped %s: %s\n", f.File, f.Reason)
			continue
		}
		fmt.Fprintf(out, "read %s (%s, %s): %d rows\n", f.File, f.Platform, f.Encoding, f.Rows)
	}
	fmt.Fprintf(out, "%d transactions, %d classified, %d unclassified, %s\n",
		res.Stats.Total, res.Stats.Classified, res.Stats.Unclassified, res.DateRange)
	fmt.Fprintf(out, "written %s\n", output)
}
