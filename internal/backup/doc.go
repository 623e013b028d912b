// Package backup snapshots build descriptors before applink rewrites them
// and restores them on request.
//
// Every link run that writes at least one file creates one backup. The
// [Snapshot] returned by [Manager.Begin] implements platform.WriteHook: the
// first time a descriptor is about to be written, its current bytes are
// copied into the backup and recorded in the manifest.
//
// Backups are grouped per project:
//
//	<DataHome>/applink/backups/
//	└── {project-key}/
//	    └── {timestamp}-{suffix}/
//	        ├── manifest.json
//	        └── files/...
//
// The manifest stores a SHA256 hash of each copied file. [Manager.Restore]
// verifies every hash before copying anything back and returns
// [ErrBackupCorrupted] on a mismatch. Files that did not exist before the
// run are recorded as created and removed on restore.
//
// [Manager.Prune] keeps the newest N backups of a project.
package backup
