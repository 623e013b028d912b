package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/applink/internal/backup"
	"github.com/thoreinstein/applink/internal/errors"
)

var (
	backupListJSON bool
	backupKeep     int
)

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "output in JSON format")
	backupPruneCmd.Flags().IntVar(&backupKeep, "keep", -1, "number of backups to keep (default: configured retention)")

	backupCmd.AddCommand(backupListCmd, backupRestoreCmd, backupPruneCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage backups of rewritten build files",
	Long: `Before applink rewrites a build file it copies the original into a
backup. One backup is created per link run and covers every file that run
changed. Backups are kept per project under the XDG data directory.`,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the project's backups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		manifests, err := newBackupManager().List(root)
		if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.Wrap(err, "listing backups")
		}
		if backupListJSON {
			return writeBackupsJSON(cmd.OutOrStdout(), manifests)
		}
		return writeBackupsTable(cmd.OutOrStdout(), manifests)
	},
}

// backupInfo is a backup in JSON output.
type backupInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	FileCount int       `json:"file_count"`
	Version   string    `json:"applink_version"`
}

func writeBackupsJSON(w io.Writer, manifests []backup.Manifest) error {
	out := make([]backupInfo, len(manifests))
	for i, m := range manifests {
		out[i] = backupInfo{ID: m.ID, CreatedAt: m.CreatedAt, FileCount: len(m.Files), Version: m.ToolVersion}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeBackupsTable(w io.Writer, manifests []backup.Manifest) error {
	if len(manifests) == 0 {
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created automatically before applink rewrites a build file.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tFILES\tVERSION")
	for _, m := range manifests {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			m.ID,
			m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			len(m.Files),
			m.ToolVersion)
	}
	return tw.Flush()
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore build files from a backup",
	Long: `Restore every file in a backup to its original location. Files that a
link run created are removed. Without a backup ID the most recent backup is
used.

All stored files are verified against their recorded hashes before anything
is written.`,
	Example: `  # Undo the last link run
  applink backup restore

  # Restore a specific backup
  applink backup restore 20261015T100712-1a2b3c4d`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		mgr := newBackupManager()
		out := outputWriter(cmd)

		var id string
		if len(args) > 0 {
			id = args[0]
		} else {
			latest, err := mgr.Latest(root)
			if err != nil {
				if errors.Is(err, backup.ErrNoBackupsFound) {
					return errors.NewUserError(err, "Run 'applink backup list' to see backups")
				}
				return errors.Wrap(err, "listing backups")
			}
			id = latest.ID
			fmt.Fprintf(out, "Using most recent backup: %s\n", id)
		}

		manifest, err := mgr.Restore(root, id)
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				return errors.NewUserError(err, "Run 'applink backup list' to see backups")
			}
			return errors.NewSystemError(errors.Wrap(err, "restoring backup"), "")
		}
		fmt.Fprintf(out, "%s Restored %d file(s) from backup %s\n", styleSuccess.Sprint("✓"), len(manifest.Files), id)
		return nil
	},
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		mgr := newBackupManager()
		keep := backupKeep
		if keep < 0 {
			keep = mgr.RetentionCount()
		}
		removed, err := mgr.Prune(root, keep)
		if err != nil {
			return errors.Wrap(err, "pruning backups")
		}
		fmt.Fprintf(outputWriter(cmd), "Removed %d backup(s)\n", removed)
		return nil
	},
}
