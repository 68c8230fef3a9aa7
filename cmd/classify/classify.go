// Package classify provides a command that runs the rule table on a single
// merchant/item/note triple.
package classify

import (
	"fmt"
	"strings"

	"fjacquet/bill-merge/cmd/root"
	"fjacquet/bill-merge/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Show which category the rule table assigns to a transaction",
	Long: `Classify evaluates the rule table against one merchant, item and note, the
same way merge does for every ledger row, and prints the resulting category
and subcategory. Useful when adjusting rule priorities.`,
	Example: `  bill-merge classify --merchant 肯德基 --item 早餐套餐`,
	RunE:    classifyFunc,
}

func init() {
	Cmd.Flags().StringP("merchant", "m", "", "Merchant (counterparty) name")
	Cmd.Flags().String("item", "", "Item or product description")
	Cmd.Flags().StringP("note", "n", "", "Free-text note")
	Cmd.Flags().StringP("rules", "r", "", "Rule table (CSV or YAML)")
	root.BindConfigKey(Cmd.Flags(), "rules", "rules.file")
}

func classifyFunc(cmd *cobra.Command, _ []string) error {
	merchant, _ := cmd.Flags().GetString("merchant")
	item, _ := cmd.Flags().GetString("item")
	note, _ := cmd.Flags().GetString("note")
	if strings.TrimSpace(merchant+item+note) == "" {
		return fmt.Errorf("at least one of --merchant, --item or --note is required")
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	category, subcategory := c.GetCategorizer().Classify(models.Transaction{
		Merchant: merchant,
		Item:     item,
		Note:     note,
	})

	out := cmd.OutOrStdout()
	if category == "" {
		fmt.Fprintln(out, "unclassified")
		return nil
	}
	fmt.Fprintf(out, "category: %s\n", category)
	fmt.Fprintf(out, "subcategory: %s\n", subcategory)
	return nil
}
