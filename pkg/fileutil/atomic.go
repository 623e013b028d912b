// Package fileutil provides the file writes applink relies on: every build
// file and backup manifest is replaced whole, never written in place.
package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/thoreinstein/applink/internal/errors"
)

// AtomicWriteFile replaces path with data. The bytes go to a temp file in
// the same directory, which is synced and renamed over path, so a reader
// sees either the old or the new content.
//
// The parent directory must exist. perm is applied to the new file.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".applink-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	renamed := false
	defer func() {
		if !renamed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	renamed = true
	return nil
}

// AtomicWriteJSONWithPerm writes v as 2-space indented JSON with a trailing
// newline.
func AtomicWriteJSONWithPerm(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return AtomicWriteFile(path, append(data, '\n'), perm)
}
