package backup

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/applink/internal/descriptor"
	"github.com/thoreinstein/applink/internal/paths"
)

// Snapshot collects the pre-write state of every descriptor written during
// one run into a single backup. It implements platform.WriteHook and is
// safe for concurrent use.
type Snapshot struct {
	mgr  *Manager
	root string

	mu       sync.Mutex
	manifest *Manifest
	seen     map[string]bool
}

// Begin starts a snapshot for the project at root. Nothing is written
// until the first descriptor is about to change.
func (m *Manager) Begin(root string) *Snapshot {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &Snapshot{mgr: m, root: abs, seen: make(map[string]bool)}
}

// BeforeWrite records d's current file before it is overwritten. Each
// path is recorded once per snapshot.
func (s *Snapshot) BeforeWrite(ctx context.Context, d *descriptor.Descriptor) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := filepath.Abs(d.Path())
	if err != nil {
		return errors.Wrapf(err, "resolving %s", d.Path())
	}
	if s.seen[path] {
		return nil
	}

	if s.manifest == nil {
		s.manifest = &Manifest{
			Version:     ManifestVersion,
			ID:          newID(time.Now()),
			CreatedAt:   time.Now().UTC(),
			Project:     s.root,
			ToolVersion: Version,
		}
	}
	dir := s.mgr.backupPath(s.root, s.manifest.ID)

	file := File{OriginalPath: path}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		file.Created = true
	} else {
		file.RelPath = generateRelPath(path)
		dst := filepath.Join(dir, "files", file.RelPath)
		if err := paths.EnsureDir(filepath.Dir(dst), paths.DefaultDirPerm); err != nil {
			return errors.Wrap(err, "creating backup directory")
		}
		hash, mode, err := copyFile(path, dst)
		if err != nil {
			return errors.Wrapf(err, "backing up %s", path)
		}
		file.SHA256Hash = hash
		file.Mode = mode
	}

	if err := paths.EnsureDir(dir, paths.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating backup directory")
	}
	s.manifest.Files = append(s.manifest.Files, file)
	if err := s.mgr.writeManifest(s.root, s.manifest); err != nil {
		s.manifest.Files = s.manifest.Files[:len(s.manifest.Files)-1]
		return err
	}
	s.seen[path] = true
	return nil
}

// Manifest returns a copy of the backup manifest, or nil when nothing has
// been backed up.
func (s *Snapshot) Manifest() *Manifest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.manifest == nil {
		return nil
	}
	m := *s.manifest
	m.Files = append([]File(nil), s.manifest.Files...)
	return &m
}
