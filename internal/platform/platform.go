package platform

import (
	"context"

	"github.com/thoreinstein/applink/internal/descriptor"
	"github.com/thoreinstein/applink/internal/integration"
)

// Adapter drives one native platform of a host project.
//
// Implementations keep no state between Link calls; every call loads its
// descriptors fresh.
type Adapter interface {
	// Name returns the platform identifier (android, ios).
	Name() string

	// DisplayName returns a human-readable platform name.
	DisplayName() string

	// Detect reports whether the platform's native project exists under root.
	Detect(root string) bool

	// Link applies every change req.Integration needs on this platform.
	// Missing anchors are reported in the outcome, not as errors. Errors mean
	// a descriptor could not be read or written.
	Link(ctx context.Context, req *Request) (*Outcome, error)
}

// Deduplicator is implemented by adapters that can remove repeated link
// lines left by earlier tooling. It runs before Link.
type Deduplicator interface {
	Deduplicate(ctx context.Context, req *Request) (*Outcome, error)
}

// SecretStore is implemented by adapters that write an SDK configuration
// file holding the app secret.
type SecretStore interface {
	// HasSecretConfig reports whether root already has the platform's
	// configuration file.
	HasSecretConfig(root string) bool
}

// Request is the per-platform input of one link run.
type Request struct {
	// Root is the host project root.
	Root string

	// Integration is the module being linked.
	Integration *integration.Request

	// DryRun computes results without writing any descriptor.
	DryRun bool
}

// WriteHook is called with each descriptor right before it is saved.
// Returning an error aborts the save.
type WriteHook interface {
	BeforeWrite(ctx context.Context, d *descriptor.Descriptor) error
}

// WriteHookFunc adapts a function to WriteHook.
type WriteHookFunc func(ctx context.Context, d *descriptor.Descriptor) error

// BeforeWrite calls f.
func (f WriteHookFunc) BeforeWrite(ctx context.Context, d *descriptor.Descriptor) error {
	return f(ctx, d)
}

// NoopHook is a WriteHook that does nothing.
type NoopHook struct{}

// BeforeWrite does nothing.
func (NoopHook) BeforeWrite(context.Context, *descriptor.Descriptor) error { return nil }
