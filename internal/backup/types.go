package backup

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// DefaultRetentionCount is the number of backups kept per project.
const DefaultRetentionCount = 5

// manifestName is the manifest file inside each backup directory.
const manifestName = "manifest.json"

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the project.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a stored file no longer matches its hash.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Manifest describes one backup. It is stored as manifest.json.
type Manifest struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Project is the absolute project root the files belong to.
	Project string `json:"project"`

	Files []File `json:"files"`

	// ToolVersion is the applink version that wrote the backup.
	ToolVersion string `json:"applink_version"`
}

// File is one descriptor in a backup.
type File struct {
	// OriginalPath is the absolute path of the descriptor.
	OriginalPath string `json:"original_path"`

	// RelPath is the copy's path inside the backup's files/ directory.
	// Empty for created files.
	RelPath string `json:"rel_path,omitempty"`

	SHA256Hash string      `json:"sha256_hash,omitempty"`
	Mode       fs.FileMode `json:"mode,omitempty"`

	// Created is true when the descriptor did not exist before the run.
	Created bool `json:"created,omitempty"`
}
