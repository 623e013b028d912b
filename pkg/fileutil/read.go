package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/applink/internal/errors"
)

// MaxFileSize is the largest descriptor we read (16MB).
// Generated project.pbxproj files of large apps run to several megabytes.
const MaxFileSize = 16 * 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads a file up to MaxFileSize.
// It also returns the file's mode so rewrites can preserve it.
func ReadFileWithLimit(path string) ([]byte, os.FileMode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, errors.Wrap(err, "stat file")
	}
	if info.IsDir() {
		return nil, 0, errors.Newf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return nil, 0, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, 0, errors.Wrap(err, "reading file")
	}
	if len(data) > MaxFileSize {
		return nil, 0, ErrFileTooLarge
	}

	return data, info.Mode().Perm(), nil
}
