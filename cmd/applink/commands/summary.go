package commands

import (
	"fmt"
	"io"

	"github.com/thoreinstein/applink/internal/link"
	"github.com/thoreinstein/applink/internal/patch"
	"github.com/thoreinstein/applink/internal/paths"
	"github.com/thoreinstein/applink/internal/platform"
)

// summary prints per-platform results as the orchestrator reports them.
type summary struct {
	w      io.Writer
	check  bool
	dryRun bool

	patches []platform.PatchOutcome
}

// attach subscribes s to the events it prints.
func (s *summary) attach(o *link.Orchestrator) {
	o.Subscribe(link.EventPlatformSkipped, s.skipped)
	o.Subscribe(link.EventPatchResult, func(e link.Event) {
		s.patches = append(s.patches, *e.Patch)
	})
	o.Subscribe(link.EventPlatformLinked, s.linked)
	o.Subscribe(link.EventPlatformFailed, s.failed)
}

func (s *summary) module(name string) {
	fmt.Fprintln(s.w, styleHeader.Sprint(name))
}

func (s *summary) skipped(e link.Event) {
	fmt.Fprintf(s.w, "  %s %-8s %s\n", styleMuted.Sprint("-"), paths.DisplayName(e.Platform), styleMuted.Sprint("not detected"))
}

func (s *summary) linked(e link.Event) {
	applied := countResult(s.patches, patch.Applied)
	present := countResult(s.patches, patch.AlreadyPresent)
	missing := countResult(s.patches, patch.AnchorNotFound)

	var status string
	switch {
	case s.check && applied+missing == 0:
		status = styleSuccess.Sprint("linked")
	case s.check:
		status = styleWarn.Sprintf("%d missing", applied+missing)
	case s.dryRun:
		status = fmt.Sprintf("would apply %d, %d already present", applied, present)
	default:
		status = fmt.Sprintf("%d applied, %d already present", applied, present)
	}

	mark := styleSuccess.Sprint("✓")
	if missing > 0 || (s.check && applied > 0) {
		mark = styleWarn.Sprint("!")
	}
	fmt.Fprintf(s.w, "  %s %-8s %s\n", mark, paths.DisplayName(e.Platform), status)
	s.details()
}

func (s *summary) failed(e link.Event) {
	fmt.Fprintf(s.w, "  %s %-8s %s\n", styleError.Sprint("✗"), paths.DisplayName(e.Platform), styleError.Sprint(e.Err))
	s.details()
}

// details lists the patches of the platform just finished and resets them.
func (s *summary) details() {
	for _, p := range s.patches {
		switch p.Result {
		case patch.Applied:
			if s.check {
				fmt.Fprintf(s.w, "      %s %s %s\n", styleWarn.Sprint("missing"), p.File, styleMuted.Sprint(p.Spec))
			} else {
				fmt.Fprintf(s.w, "      %s %s %s\n", styleSuccess.Sprint("+"), p.File, styleMuted.Sprint(p.Spec))
			}
		case patch.AnchorNotFound:
			fmt.Fprintf(s.w, "      %s %s %s\n", styleWarn.Sprint("anchor not found"), p.File, styleMuted.Sprint(p.Spec))
		case patch.AlreadyPresent:
			if s.check {
				fmt.Fprintf(s.w, "      %s %s %s\n", styleSuccess.Sprint("present"), p.File, styleMuted.Sprint(p.Spec))
			}
		}
	}
	s.patches = s.patches[:0]
}

func countResult(patches []platform.PatchOutcome, r patch.Result) int {
	n := 0
	for _, p := range patches {
		if p.Result == r {
			n++
		}
	}
	return n
}
