package platform

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/thoreinstein/applink/internal/descriptor"
	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/logging"
	"github.com/thoreinstein/applink/internal/patch"
)

// Session tracks the descriptors touched by one adapter call.
type Session struct {
	req     *Request
	hook    WriteHook
	logger  *slog.Logger
	outcome *Outcome

	files   map[string]*descriptor.Descriptor
	order   []string
	applied map[string]bool
}

// NewSession starts a session for platform. A nil hook means NoopHook.
func NewSession(ctx context.Context, platform string, req *Request, hook WriteHook) *Session {
	if hook == nil {
		hook = NoopHook{}
	}
	return &Session{
		req:     req,
		hook:    hook,
		logger:  logging.FromContext(ctx).With("platform", platform),
		outcome: &Outcome{Platform: platform},
		files:   make(map[string]*descriptor.Descriptor),
		applied: make(map[string]bool),
	}
}

// Root returns the host project root.
func (s *Session) Root() string {
	return s.req.Root
}

// Outcome returns the results recorded so far.
func (s *Session) Outcome() *Outcome {
	return s.outcome
}

// Path resolves rel against the project root.
func (s *Session) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(s.req.Root, rel)
}

// Load returns the descriptor at rel, reading it on first use.
func (s *Session) Load(rel string) (*descriptor.Descriptor, error) {
	path := s.Path(rel)
	if d, ok := s.files[path]; ok {
		return d, nil
	}
	d, err := descriptor.Load(path)
	if err != nil {
		return nil, err
	}
	s.track(d)
	return d, nil
}

// LoadOrCreate returns the descriptor at rel, or a new one holding
// template when the file does not exist.
func (s *Session) LoadOrCreate(rel, template string) (*descriptor.Descriptor, error) {
	d, err := s.Load(rel)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	d = descriptor.New(s.Path(rel), template)
	s.track(d)
	s.logger.Debug("creating descriptor", "file", s.rel(d))
	return d, nil
}

func (s *Session) track(d *descriptor.Descriptor) {
	s.files[d.Path()] = d
	s.order = append(s.order, d.Path())
}

// Apply runs specs against d in order and records each result.
func (s *Session) Apply(d *descriptor.Descriptor, specs ...patch.Spec) {
	content, results := patch.ApplyAll(d.Content(), specs)
	d.SetContent(content)
	for i, spec := range specs {
		s.Record(d, spec.Name, results[i])
	}
}

// Record adds a result computed outside Apply, such as a dedupe pass.
func (s *Session) Record(d *descriptor.Descriptor, spec string, result patch.Result) {
	file := s.rel(d)
	s.outcome.Add(file, spec, result)
	if result == patch.Applied {
		s.applied[d.Path()] = true
	}

	switch result {
	case patch.AnchorNotFound:
		s.logger.Warn("anchor not found", "file", file, "spec", spec)
	default:
		s.logger.Log(context.Background(), logging.LevelTrace, "patch", "file", file, "spec", spec, "result", string(result))
	}
}

// Commit saves every descriptor with at least one applied patch, once, in
// load order. In dry-run mode nothing is written.
func (s *Session) Commit(ctx context.Context) (*Outcome, error) {
	for _, path := range s.order {
		if !s.applied[path] {
			continue
		}
		d := s.files[path]
		if !d.Dirty() {
			continue
		}
		if s.req.DryRun {
			if d.Exists() {
				s.logger.Info("would write", "file", s.rel(d))
			} else {
				s.logger.Info("would create", "file", s.rel(d))
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			return s.outcome, err
		}
		if err := s.hook.BeforeWrite(ctx, d); err != nil {
			return s.outcome, errors.Wrapf(err, "preparing to write %s", s.rel(d))
		}
		if err := d.Save(); err != nil {
			return s.outcome, err
		}
		s.outcome.Saved = append(s.outcome.Saved, s.rel(d))
		s.logger.Debug("wrote descriptor", "file", s.rel(d))
	}
	return s.outcome, nil
}

// rel returns d's path relative to the project root for reporting.
func (s *Session) rel(d *descriptor.Descriptor) string {
	if r, err := filepath.Rel(s.req.Root, d.Path()); err == nil {
		return filepath.ToSlash(r)
	}
	return d.Path()
}
