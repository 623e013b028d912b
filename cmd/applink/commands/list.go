package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/applink/internal/integration"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the modules that can be linked",
	Long: `List the modules in the integration table: the built-in modules plus
any added or overridden by the configured integrations file.`,
	Example: `  # List modules
  applink list

  # Output as JSON
  applink list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		table, err := loadTable(root)
		if err != nil {
			return err
		}
		if listJSON {
			return writeModulesJSON(cmd.OutOrStdout(), table)
		}
		return writeModulesTable(cmd.OutOrStdout(), table)
	},
}

func writeModulesJSON(w io.Writer, table *integration.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(table.All())
}

func writeModulesTable(w io.Writer, table *integration.Table) error {
	if table.Len() == 0 {
		fmt.Fprintln(w, "No modules available.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPLATFORMS\tDESCRIPTION")
	for _, r := range table.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, strings.Join(r.Platforms(), ","), r.Description)
	}
	return tw.Flush()
}
