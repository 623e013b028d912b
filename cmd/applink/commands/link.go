package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/applink/internal/backup"
	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/integration"
	"github.com/thoreinstein/applink/internal/link"
	"github.com/thoreinstein/applink/internal/logging"
	"github.com/thoreinstein/applink/internal/platform"
)

var (
	linkDryRun   bool
	linkNoDedupe bool
	linkNoBackup bool
)

func init() {
	linkCmd.Flags().BoolVar(&linkDryRun, "dry-run", false, "show what would change without writing")
	linkCmd.Flags().BoolVar(&linkNoDedupe, "no-dedupe", false, "keep duplicate link lines left by other tools")
	linkCmd.Flags().BoolVar(&linkNoBackup, "no-backup", false, "do not back up files before rewriting them")
	rootCmd.AddCommand(linkCmd)
}

var linkCmd = &cobra.Command{
	Use:   "link [module...]",
	Short: "Link SDK modules into the native projects",
	Long: `Link one or more SDK modules into the project's iOS and Android apps.

Android is linked first, then iOS. A failure on one platform does not stop
the other. Every change is detected before it is applied, so linking a
module again only reports what is already present.

Without arguments on a terminal, an interactive picker lists the available
modules. When a platform has no SDK configuration file and no app secret is
configured, you are asked for one.`,
	Example: `  # Link a module
  applink link analytics

  # Link several modules into Android only
  applink link analytics crashes --platform android

  # Preview without writing
  applink link push --dry-run

  See Also: applink check, applink list, applink backup restore`,
	RunE: runLink,
}

func runLink(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return errors.NewUserError(err, "Pass the React Native project root with --project")
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

	secrets, err := resolveSecrets(root, interactive && !linkDryRun)
	if err != nil {
		return err
	}

	var snap *backup.Snapshot
	var mgr *backup.Manager
	if !linkDryRun && !linkNoBackup && backupsEnabled() {
		mgr = newBackupManager()
		snap = mgr.Begin(root)
	}
	opts := adapterOptions{secrets: secrets}
	if snap != nil {
		opts.hook = snap
	}
	adapters, err := newAdapters(opts)
	if err != nil {
		return err
	}

	orch := link.New(adapters, link.WithDryRun(linkDryRun), link.WithDedupe(!linkNoDedupe))
	out := outputWriter(cmd)
	sum := &summary{w: out, dryRun: linkDryRun}
	sum.attach(orch)

	reports, err := linkAll(cmd, orch, sum, root, reqs)

	if snap != nil {
		if m := snap.Manifest(); m != nil {
			fmt.Fprintf(out, "\nBacked up %d file(s) as %s. Undo with: applink backup restore %s\n", len(m.Files), m.ID, m.ID)
			if _, pruneErr := mgr.Prune(root, mgr.RetentionCount()); pruneErr != nil {
				logging.FromContext(cmd.Context()).Warn("pruning backups failed", "error", pruneErr)
			}
		}
	}
	if err != nil {
		return err
	}
	return reportsError(reports)
}

// linkAll links each request in order and stops only on cancellation.
func linkAll(cmd *cobra.Command, orch *link.Orchestrator, sum *summary, root string, reqs []*integration.Request) ([]*link.Report, error) {
	reports := make([]*link.Report, 0, len(reqs))
	for _, req := range reqs {
		sum.module(req.Name)
		report, err := orch.Link(cmd.Context(), root, req)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			return reports, errors.Wrapf(err, "linking %s", req.Name)
		}
	}
	return reports, nil
}

// resolveModules looks up the named modules, or asks for them when none
// are given on an interactive terminal.
func resolveModules(table *integration.Table, names []string, interactive bool) ([]*integration.Request, error) {
	if len(names) == 0 {
		if !interactive {
			return nil, errors.NewUserError(errors.ErrMissingName, "Name a module to link. Run 'applink list' to see available modules")
		}
		picked, err := pickModules(table)
		if err != nil {
			return nil, err
		}
		names = picked
	}

	reqs := make([]*integration.Request, 0, len(names))
	for _, name := range names {
		req, err := table.Lookup(name)
		if err != nil {
			return nil, errors.NewUserError(err, "Run 'applink list' to see available modules")
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// resolveSecrets returns the app secret per selected platform. With prompt
// set, a detected platform without a configured secret or an existing SDK
// configuration file asks for one.
func resolveSecrets(root string, prompt bool) (map[string]string, error) {
	candidates, err := newAdapters(adapterOptions{})
	if err != nil {
		return nil, err
	}

	secrets := make(map[string]string, len(candidates))
	for _, a := range candidates {
		if cfg != nil {
			secrets[a.Name()] = cfg.Secret(a.Name())
		}
		if secrets[a.Name()] != "" || !prompt || !a.Detect(root) {
			continue
		}
		store, ok := a.(platform.SecretStore)
		if !ok || store.HasSecretConfig(root) {
			continue
		}
		secret, err := promptSecret(a.DisplayName())
		if err != nil {
			return nil, err
		}
		secrets[a.Name()] = secret
	}
	return secrets, nil
}

// reportsError maps the worst report to an exit error: a module where every
// detected platform failed is a system error, one with nothing detected is
// a user error.
func reportsError(reports []*link.Report) error {
	var userErr error
	for _, r := range reports {
		err := r.Err()
		switch {
		case err == nil:
		case errors.Is(err, link.ErrNoPlatformLinked):
			return errors.NewSystemError(err, "Fix the errors above, or undo partial changes with 'applink backup restore'")
		case userErr == nil:
			userErr = err
		}
	}
	if userErr != nil {
		return errors.NewUserError(userErr, "Run applink from the React Native project root or pass --project")
	}
	return nil
}

// outputWriter returns the command's stdout, or a discarding writer with
// --quiet.
func outputWriter(cmd *cobra.Command) io.Writer {
	if quiet {
		return io.Discard
	}
	return cmd.OutOrStdout()
}
