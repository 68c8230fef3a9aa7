// Package summary provides the command that reports monthly totals from a
// merged ledger.
package summary

import (
	"fmt"
	"time"

	"fjacquet/bill-merge/cmd/root"
	"fjacquet/bill-merge/internal/fileutils"
	"fjacquet/bill-merge/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize a merged ledger month by month",
	Long: `Summary reads a ledger written by merge and reports, for each of the most
recent months (newest first), the expense, income and net totals, the expense
categories, the top merchants and the biggest expenses. The report is written
as JSON or YAML to stdout or to --output.`,
	RunE: summaryFunc,
}

func init() {
	Cmd.Flags().StringP("ledger", "l", "", "Ledger to summarize (default: output.file)")
	Cmd.Flags().StringP("output", "o", "", "Report file (default: stdout)")
	Cmd.Flags().String("format", "", "Report format: json or yaml")
	Cmd.Flags().Int("months", 0, "Number of months to report, current month included")
	Cmd.Flags().String("as-of", "", "Reference month as YYYY-MM (default: current month)")
	root.BindConfigKey(Cmd.Flags(), "format", "report.format")
	root.BindConfigKey(Cmd.Flags(), "months", "report.months_back")
}

func summaryFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	cfg := c.GetConfig()

	ledgerPath, _ := cmd.Flags().GetString("ledger")
	if ledgerPath == "" {
		ledgerPath = cfg.Output.File
	}

	now := time.Now()
	if asOf, _ := cmd.Flags().GetString("as-of"); asOf != "" {
		if now, err = time.Parse("2006-01", asOf); err != nil {
			return fmt.Errorf("invalid --as-of %q, expected YYYY-MM", asOf)
		}
	}

	txs, err := c.GetLedgerReader().ReadFile(ledgerPath)
	if err != nil {
		return err
	}

	data, err := c.GetReportGenerator().GenerateReport(txs, now, cfg.Report.Format)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	f, err := fileutils.CreateFile(output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			c.GetLogger().WithError(cerr).Warn("Failed to close report file")
		}
	}()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	c.GetLogger().Info("Report written",
		logging.Field{Key: logging.FieldOutputFile, Value: output},
		logging.Field{Key: logging.FieldFormat, Value: cfg.Report.Format})
	return nil
}
