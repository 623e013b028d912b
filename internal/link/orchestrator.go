package link

import (
	"context"
	"log/slog"
	"runtime/debug"
	"slices"

	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/integration"
	"github.com/thoreinstein/applink/internal/logging"
	"github.com/thoreinstein/applink/internal/paths"
	"github.com/thoreinstein/applink/internal/platform"
)

// ErrAdapterPanic marks a platform failure caused by a panicking adapter.
var ErrAdapterPanic = errors.New("adapter panicked")

// Orchestrator links integration requests through a fixed set of adapters.
type Orchestrator struct {
	adapters []entry
	dryRun   bool
	dedupe   bool
	events   *bus
}

// entry pairs an adapter with its optional capabilities, resolved once.
type entry struct {
	adapter platform.Adapter
	deduper platform.Deduplicator
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDryRun computes every patch without writing.
func WithDryRun(dryRun bool) Option {
	return func(o *Orchestrator) {
		o.dryRun = dryRun
	}
}

// WithDedupe controls whether adapters that can remove duplicate link
// lines do so before linking. It is on by default.
func WithDedupe(enabled bool) Option {
	return func(o *Orchestrator) {
		o.dedupe = enabled
	}
}

// New creates an Orchestrator. Adapters run in platform link order
// regardless of the order given.
func New(adapters []platform.Adapter, opts ...Option) *Orchestrator {
	o := &Orchestrator{dedupe: true, events: newBus()}
	for _, opt := range opts {
		opt(o)
	}

	order := paths.Platforms()
	sorted := slices.Clone(adapters)
	slices.SortStableFunc(sorted, func(a, b platform.Adapter) int {
		return rank(order, a.Name()) - rank(order, b.Name())
	})
	for _, a := range sorted {
		e := entry{adapter: a}
		if d, ok := a.(platform.Deduplicator); ok {
			e.deduper = d
		}
		o.adapters = append(o.adapters, e)
	}
	return o
}

func rank(order []string, name string) int {
	if i := slices.Index(order, name); i >= 0 {
		return i
	}
	return len(order)
}

// Subscribe registers h for events of kind.
func (o *Orchestrator) Subscribe(kind EventKind, h Handler) *Subscription {
	return o.events.add(kind, h)
}

// Link applies req to every adapter whose platform is detected under root.
// Platform failures are recorded in the report, not returned. The error is
// non-nil only for an invalid request or a cancelled context, in which
// case the report covers the platforms handled so far.
func (o *Orchestrator) Link(ctx context.Context, root string, req *integration.Request) (*Report, error) {
	if req == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "nil integration request")
	}
	logger := logging.FromContext(ctx).With("module", req.Name)
	report := &Report{Module: req.Name, DryRun: o.dryRun}

	for _, e := range o.adapters {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		pr := o.linkPlatform(ctx, logger, root, req, e)
		report.Platforms = append(report.Platforms, pr)
	}
	return report, nil
}

func (o *Orchestrator) linkPlatform(ctx context.Context, logger *slog.Logger, root string, req *integration.Request, e entry) PlatformReport {
	a := e.adapter
	logger = logger.With("platform", a.Name())
	pr := PlatformReport{Platform: a.Name(), DisplayName: a.DisplayName(), State: StateNotDetected}
	base := Event{Module: req.Name, Platform: a.Name()}

	if !a.Detect(root) {
		logger.Info("platform not detected")
		o.publish(base, EventPlatformSkipped, nil, nil)
		return pr
	}
	pr.State = StateDetected
	o.publish(base, EventPlatformDetected, nil, nil)
	logger.Info("linking")

	preq := &platform.Request{Root: root, Integration: req, DryRun: o.dryRun}
	outcome, err := o.run(ctx, e, preq)
	pr.Outcome = outcome
	if outcome != nil {
		for i := range outcome.Patches {
			o.publish(base, EventPatchResult, &outcome.Patches[i], nil)
		}
	}

	if err != nil {
		pr.State = StateFailed
		pr.Err = err
		logger.Error("platform failed", "error", err)
		o.publish(base, EventPlatformFailed, nil, err)
		return pr
	}

	pr.State = StateLinked
	logger.Info("platform linked", "changed", outcome.Changed(), "saved", len(outcome.Saved))
	o.publish(base, EventPlatformLinked, nil, nil)
	return pr
}

// run calls the adapter's optional dedupe pass and then Link, turning a
// panic into an error.
func (o *Orchestrator) run(ctx context.Context, e entry, req *platform.Request) (outcome *platform.Outcome, err error) {
	outcome = &platform.Outcome{Platform: e.adapter.Name()}
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Debug("adapter panic", "stack", string(debug.Stack()))
			err = errors.Mark(errors.Newf("%s adapter: %v", e.adapter.Name(), r), ErrAdapterPanic)
		}
	}()

	if o.dedupe && e.deduper != nil {
		deduped, dedupeErr := e.deduper.Deduplicate(ctx, req)
		outcome.Merge(deduped)
		if dedupeErr != nil {
			return outcome, errors.Wrap(dedupeErr, "removing duplicate links")
		}
	}

	linked, err := e.adapter.Link(ctx, req)
	outcome.Merge(linked)
	if err != nil {
		return outcome, errors.Wrapf(err, "linking %s", req.Integration.Name)
	}
	return outcome, nil
}

func (o *Orchestrator) publish(base Event, kind EventKind, p *platform.PatchOutcome, err error) {
	base.Kind = kind
	base.Patch = p
	base.Err = err
	o.events.publish(base)
}
