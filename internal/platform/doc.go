// Package platform defines the adapter contract shared by the native
// platform drivers and the helpers they use to patch descriptors.
//
// # Adapters
//
// An [Adapter] owns one native project (android/ or ios/) under the host
// project root. [Adapter.Detect] checks marker files and [Adapter.Link]
// ensures every dependency, code snippet and build setting of one
// integration request, returning an [Outcome] with one [PatchOutcome] per
// patch spec.
//
// Optional capabilities are separate interfaces resolved by type assertion:
//
//	if d, ok := adapter.(platform.Deduplicator); ok {
//	    outcome, err := d.Deduplicate(ctx, req)
//	}
//
// # Sessions
//
// [Session] loads each descriptor once, applies specs, records results and
// saves every descriptor that received at least one Applied result exactly
// once on [Session.Commit]. Descriptors whose specs all reported
// AlreadyPresent are never rewritten. A [WriteHook] runs before each write;
// the backup manager uses it to snapshot files.
//
// # Detection
//
// [DetectPlatform] and [DetectAll] report which native projects exist under
// a root using the markers documented in the paths package.
package platform
