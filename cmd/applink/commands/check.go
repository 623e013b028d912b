package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/applink/internal/link"
	"github.com/thoreinstein/applink/internal/logging"
	"github.com/thoreinstein/applink/internal/platform"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [module...]",
	Short: "Report which link changes are present",
	Long: `Check runs the link patches without writing anything and reports, for
each platform, which changes are present, which are missing, and which
could not be placed because their anchor was not found.

Without arguments on a terminal, an interactive picker lists the available
modules.`,
	Example: `  # Check one module
  applink check analytics

  # Check iOS only
  applink check analytics crashes --platform ios

  See Also: applink link`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	table, err := loadTable(root)
	if err != nil {
		return err
	}

	interactive := logging.IsInteractive(cmd.InOrStdin(), cmd.OutOrStdout())
	reqs, err := resolveModules(table, args, interactive)
	if err != nil || len(reqs) == 0 {
		return err
	}

	secrets, err := resolveSecrets(root, false)
	if err != nil {
		return err
	}
	adapters, err := newAdapters(adapterOptions{secrets: secrets})
	if err != nil {
		return err
	}

	w := outputWriter(cmd)
	printDetected(w, root)

	orch := link.New(adapters, link.WithDryRun(true), link.WithDedupe(false))
	sum := &summary{w: w, check: true, dryRun: true}
	sum.attach(orch)

	reports, err := linkAll(cmd, orch, sum, root, reqs)
	if err != nil {
		return err
	}
	return reportsError(reports)
}

// printDetected lists the native projects found under root with the file
// that identified each one.
func printDetected(w io.Writer, root string) {
	for _, r := range platform.DetectAll(root) {
		if r.Status != platform.StatusDetected {
			fmt.Fprintf(w, "%s %s\n", styleMuted.Sprintf("%-8s", r.Name), styleMuted.Sprint("not found"))
			continue
		}
		marker, err := filepath.Rel(root, r.Marker)
		if err != nil {
			marker = r.Marker
		}
		fmt.Fprintf(w, "%s %s\n", styleHeader.Sprintf("%-8s", r.Name), marker)
	}
}
