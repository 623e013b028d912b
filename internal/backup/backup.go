package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/thoreinstein/applink/internal/paths"
	"github.com/thoreinstein/applink/pkg/fileutil"
)

// Version is recorded in each manifest. The CLI sets it from its build info.
var Version = "dev"

// Manager creates, lists, restores and prunes backups.
type Manager struct {
	rootDir        string
	retentionCount int
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory. A leading ~/ is expanded.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.rootDir = expandHome(dir)
		}
	}
}

// WithRetentionCount sets the number of backups to retain per project.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager creates a Manager rooted at paths.BackupDir unless overridden.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RetentionCount returns the configured number of backups to keep.
func (m *Manager) RetentionCount() int {
	return m.retentionCount
}

// newID returns a sortable backup ID that is unique even for backups
// created within the same second.
func newID(now time.Time) string {
	return now.UTC().Format("20060102T150405") + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// Restore copies every file of backup id back to its original location.
// All hashes are verified before anything is written.
func (m *Manager) Restore(root, id string) (*Manifest, error) {
	manifest, err := m.Get(root, id)
	if err != nil {
		return nil, err
	}
	dir := m.backupPath(root, id)

	for _, f := range manifest.Files {
		if f.Created {
			continue
		}
		hash, err := hashFile(filepath.Join(dir, "files", f.RelPath))
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", f.RelPath)
		}
		if hash != f.SHA256Hash {
			return nil, errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", f.RelPath)
		}
	}

	for _, f := range manifest.Files {
		if f.Created {
			if err := os.Remove(f.OriginalPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, errors.Wrapf(err, "removing %s", f.OriginalPath)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.OriginalPath), 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", f.OriginalPath)
		}
		if _, _, err := copyFile(filepath.Join(dir, "files", f.RelPath), f.OriginalPath); err != nil {
			return nil, errors.Wrapf(err, "restoring %s", f.OriginalPath)
		}
		if err := os.Chmod(f.OriginalPath, f.Mode); err != nil {
			return nil, errors.Wrapf(err, "setting permissions for %s", f.OriginalPath)
		}
	}
	return manifest, nil
}

// List returns the project's backups, newest first.
func (m *Manager) List(root string) ([]Manifest, error) {
	entries, err := os.ReadDir(m.projectDir(root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(root, entry.Name())
		if err != nil {
			// Skip directories without a readable manifest.
			continue
		}
		manifests = append(manifests, *manifest)
	}
	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return manifests, nil
}

// Latest returns the newest backup of the project.
func (m *Manager) Latest(root string) (*Manifest, error) {
	manifests, err := m.List(root)
	if err != nil {
		return nil, err
	}
	return &manifests[0], nil
}

// Prune removes all but the newest keep backups and returns how many were
// removed.
func (m *Manager) Prune(root string, keep int) (int, error) {
	if keep < 0 {
		return 0, errors.New("keep must be non-negative")
	}

	manifests, err := m.List(root)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(m.backupPath(root, manifests[i].ID)); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
		removed++
	}
	return removed, nil
}

// Get returns the manifest of backup id.
func (m *Manager) Get(root, id string) (*Manifest, error) {
	if id == "" {
		return nil, errors.New("backup ID is required")
	}

	data, err := os.ReadFile(filepath.Join(m.backupPath(root, id), manifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = id
	return &manifest, nil
}

func (m *Manager) writeManifest(root string, manifest *Manifest) error {
	path := filepath.Join(m.backupPath(root, manifest.ID), manifestName)
	return errors.Wrap(fileutil.AtomicWriteJSONWithPerm(path, manifest, 0o600), "writing manifest")
}

func (m *Manager) projectDir(root string) string {
	return filepath.Join(m.rootDir, paths.ProjectKey(root))
}

func (m *Manager) backupPath(root, id string) string {
	return filepath.Join(m.projectDir(root), id)
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst and returns the content hash and source mode.
// dst gets the source permissions.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode().Perm()

	// A read-only destination from an earlier restore must be replaced.
	_ = os.Chmod(dst, 0o600)

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dstFile, h), srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}
	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}
	if err := os.Chmod(dst, mode); err != nil {
		return "", 0, errors.Wrap(err, "setting permissions")
	}
	return hex.EncodeToString(h.Sum(nil)), mode, nil
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := paths.ResolveHome()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// generateRelPath maps an absolute path to a relative storage path with
// no volume colon.
func generateRelPath(absPath string) string {
	clean := filepath.Clean(absPath)
	clean = strings.ReplaceAll(clean, ":", "")
	return strings.TrimLeft(clean, string(filepath.Separator))
}
