// Package rules provides the command that shows the loaded rule table.
package rules

import (
	"fmt"

	"fjacquet/bill-merge/cmd/root"
	"fjacquet/bill-merge/internal/models"
	"fjacquet/bill-merge/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the rule table in evaluation order",
	Long: `Rules loads the rule table the same way merge does and prints it as YAML,
highest priority first. With --export the table is also written to a CSV or
YAML file, which converts between the two formats.`,
	RunE: rulesFunc,
}

func init() {
	Cmd.Flags().StringP("rules", "r", "", "Rule table (CSV or YAML)")
	Cmd.Flags().StringP("export", "e", "", "Write the loaded rules to this .csv or .yaml file")
	root.BindConfigKey(Cmd.Flags(), "rules", "rules.file")
}

type ruleTable struct {
	Rules []models.ClassificationRule `yaml:"rules"`
}

func rulesFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	loaded := c.GetRules()

	data, err := yaml.Marshal(ruleTable{Rules: loaded})
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}

	source := "(no rules file)"
	if rs := c.GetStore(); rs.RulesFile != "" {
		source = rs.RulesFile + " (not found)"
		if path, err := rs.FindConfigFile(rs.RulesFile); err == nil {
			source = path
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s: %d rules, %d usable\n", source, len(loaded), c.GetCategorizer().Usable())
	if _, err := out.Write(data); err != nil {
		return err
	}

	export, _ := cmd.Flags().GetString("export")
	if export == "" {
		return nil
	}
	if err := store.WriteRules(export, loaded); err != nil {
		return err
	}
	fmt.Fprintf(out, "# exported to %s\n", export)
	return nil
}
