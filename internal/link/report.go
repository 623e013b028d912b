package link

import (
	"strings"

	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/platform"
)

// State is the lifecycle state of one platform within a link run.
type State string

const (
	// StateNotDetected means the platform's native project was not found.
	StateNotDetected State = "not_detected"

	// StateDetected means the project was found and the adapter has not
	// finished yet.
	StateDetected State = "detected"

	// StateLinked means the adapter finished without error.
	StateLinked State = "linked"

	// StateFailed means the adapter returned an error or panicked.
	StateFailed State = "failed"
)

// Sentinel errors returned by Report.Err.
var (
	// ErrNoPlatformDetected means no adapter found its native project.
	ErrNoPlatformDetected = errors.New("no platform detected")

	// ErrNoPlatformLinked means every detected platform failed.
	ErrNoPlatformLinked = errors.New("no platform linked")
)

// PlatformReport is the final state of one platform.
type PlatformReport struct {
	Platform    string            `json:"platform"`
	DisplayName string            `json:"display_name"`
	State       State             `json:"state"`
	Outcome     *platform.Outcome `json:"outcome,omitempty"`
	Err         error             `json:"-"`
}

// Report is the result of linking one module.
type Report struct {
	Module    string           `json:"module"`
	DryRun    bool             `json:"dry_run,omitempty"`
	Platforms []PlatformReport `json:"platforms"`
}

// Platform returns the report for name, or nil.
func (r *Report) Platform(name string) *PlatformReport {
	for i := range r.Platforms {
		if r.Platforms[i].Platform == name {
			return &r.Platforms[i]
		}
	}
	return nil
}

// InState returns the platform names in state s, in link order.
func (r *Report) InState(s State) []string {
	var out []string
	for _, p := range r.Platforms {
		if p.State == s {
			out = append(out, p.Platform)
		}
	}
	return out
}

// Err summarizes the report: nil when at least one platform linked,
// ErrNoPlatformDetected when nothing was detected, and ErrNoPlatformLinked
// when every detected platform failed.
func (r *Report) Err() error {
	if len(r.InState(StateLinked)) > 0 {
		return nil
	}

	var failures []string
	for _, p := range r.Platforms {
		if p.State == StateFailed && p.Err != nil {
			failures = append(failures, p.Platform+": "+p.Err.Error())
		}
	}
	if len(failures) == 0 {
		return errors.Wrapf(ErrNoPlatformDetected, "module %s", r.Module)
	}
	return errors.Wrapf(ErrNoPlatformLinked, "module %s (%s)", r.Module, strings.Join(failures, "; "))
}
