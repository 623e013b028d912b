// Package descriptor holds build descriptor files (project.pbxproj, Podfile,
// settings.gradle, AndroidManifest.xml, ...) as raw text.
//
// A Descriptor is never parsed into a tree. Adapters load it, run patch
// specs over its content, and save it once. Save replaces the whole file
// atomically, so readers never observe a partially written descriptor.
package descriptor

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/pkg/fileutil"
)

// defaultPerm applies to descriptors created from scratch.
const defaultPerm fs.FileMode = 0o644

// ErrIO marks every failure to read or write a descriptor file.
// Callers check it with errors.Is; the original cause stays in the chain.
var ErrIO = errors.New("descriptor I/O error")

// ErrReadOnly is returned by Save when the descriptor file is not writable
// by its owner. Read-only descriptors are usually locked by source control.
var ErrReadOnly = errors.New("descriptor is read-only")

// Descriptor is the text content of one build descriptor file.
type Descriptor struct {
	path     string
	content  string
	original string
	mode     fs.FileMode
	exists   bool
}

// Load reads the descriptor at path.
func Load(path string) (*Descriptor, error) {
	data, mode, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, ioError(err, "loading %s", path)
	}
	return &Descriptor{
		path:     path,
		content:  string(data),
		original: string(data),
		mode:     mode,
		exists:   true,
	}, nil
}

// New returns an unsaved descriptor for a file that does not exist yet.
// It is dirty from the start so the first Save creates the file.
func New(path, content string) *Descriptor {
	return &Descriptor{
		path:    path,
		content: content,
		mode:    defaultPerm,
	}
}

// Path returns the file path of the descriptor.
func (d *Descriptor) Path() string { return d.path }

// Name returns the base name of the descriptor file.
func (d *Descriptor) Name() string { return filepath.Base(d.path) }

// Content returns the current, possibly unsaved, content.
func (d *Descriptor) Content() string { return d.content }

// SetContent replaces the in-memory content. Nothing is written until Save.
func (d *Descriptor) SetContent(content string) { d.content = content }

// Exists reports whether the descriptor was loaded from disk.
func (d *Descriptor) Exists() bool { return d.exists }

// Dirty reports whether Save would change the file on disk.
func (d *Descriptor) Dirty() bool {
	return !d.exists || d.content != d.original
}

// Save overwrites the file with the current content.
// Missing parent directories are created for new descriptors.
func (d *Descriptor) Save() error {
	if d.exists {
		info, err := os.Stat(d.path)
		if err != nil {
			return ioError(err, "saving %s", d.path)
		}
		if info.Mode().Perm()&0o200 == 0 {
			return ioError(ErrReadOnly, "saving %s", d.path)
		}
		d.mode = info.Mode().Perm()
	} else if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return ioError(err, "creating directory for %s", d.path)
	}

	if err := fileutil.AtomicWriteFile(d.path, []byte(d.content), d.mode); err != nil {
		return ioError(err, "saving %s", d.path)
	}

	d.original = d.content
	d.exists = true
	return nil
}

func ioError(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrIO)
}
