package integration

import (
	_ "embed"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/pkg/fileutil"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Table is an ordered set of integration requests keyed by name.
type Table struct {
	order []string
	byKey map[string]*Request
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byKey: make(map[string]*Request)}
}

// Default returns the built-in integration table.
func Default() (*Table, error) {
	return ParseYAML(defaultsYAML)
}

// ParseYAML parses a YAML integration table and validates each entry.
func ParseYAML(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parsing integration table")
	}
	return fromFile(f)
}

// ParseTOML parses a TOML integration table and validates each entry.
func ParseTOML(data []byte) (*Table, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parsing integration table")
	}
	return fromFile(f)
}

// LoadFile reads an integration table from path. The format is chosen by
// extension: .toml for TOML, anything else is parsed as YAML.
func LoadFile(path string) (*Table, error) {
	data, _, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading integration table %s", path)
	}

	var t *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		t, err = ParseTOML(data)
	default:
		t, err = ParseYAML(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return t, nil
}

// LoadWithOverrides returns the built-in table merged with the table at path.
// An empty path or a missing file yields the built-in table.
func LoadWithOverrides(path string) (*Table, error) {
	t, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return t, nil
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		return t, nil
	}
	extra, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	t.Merge(extra)
	return t, nil
}

func fromFile(f file) (*Table, error) {
	t := NewTable()
	for i := range f.Integrations {
		req := f.Integrations[i]
		if err := Validate(&req); err != nil {
			return nil, errors.Wrapf(err, "integration %d", i)
		}
		if _, dup := t.byKey[req.Name]; dup {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "duplicate integration %q", req.Name)
		}
		t.Add(&req)
	}
	return t, nil
}

// Add inserts or replaces a request. Replacing keeps the original position.
func (t *Table) Add(req *Request) {
	if _, ok := t.byKey[req.Name]; !ok {
		t.order = append(t.order, req.Name)
	}
	t.byKey[req.Name] = req
}

// Merge adds every request in other, overriding same-named entries.
func (t *Table) Merge(other *Table) {
	for _, name := range other.order {
		t.Add(other.byKey[name])
	}
}

// Lookup returns the request named name.
func (t *Table) Lookup(name string) (*Request, error) {
	req, ok := t.byKey[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownIntegration, "%q (known: %s)", name, strings.Join(t.Names(), ", "))
	}
	return req, nil
}

// Names returns request names in table order.
func (t *Table) Names() []string {
	return slices.Clone(t.order)
}

// All returns the requests in table order.
func (t *Table) All() []*Request {
	out := make([]*Request, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byKey[name])
	}
	return out
}

// Len returns the number of requests.
func (t *Table) Len() int {
	return len(t.order)
}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Validate checks that a request is usable by at least one platform adapter.
func Validate(req *Request) error {
	if req.Name == "" {
		return errors.ErrMissingName
	}
	if !namePattern.MatchString(req.Name) {
		return errors.Wrapf(errors.ErrInvalidConfig, "invalid integration name %q", req.Name)
	}
	if req.IOS == nil && req.Android == nil {
		return errors.Wrapf(errors.ErrInvalidConfig, "integration %q has no platform section", req.Name)
	}

	if ios := req.IOS; ios != nil {
		if ios.Snippet != "" && ios.Import == "" {
			return errors.Wrapf(errors.ErrInvalidConfig, "integration %q: ios.snippet requires ios.import", req.Name)
		}
		if ios.Detect != "" {
			if _, err := regexp.Compile(ios.Detect); err != nil {
				return errors.Wrapf(errors.ErrInvalidConfig, "integration %q: ios.detect: %v", req.Name, err)
			}
		}
		for _, p := range ios.Pods {
			if p.Name == "" {
				return errors.Wrapf(errors.ErrInvalidConfig, "integration %q: pod without a name", req.Name)
			}
		}
	}

	if a := req.Android; a != nil {
		if a.Project != "" && a.ProjectDir == "" {
			return errors.Wrapf(errors.ErrInvalidConfig, "integration %q: android.project requires android.project_dir", req.Name)
		}
		if a.Package != "" && a.Import == "" {
			return errors.Wrapf(errors.ErrInvalidConfig, "integration %q: android.package requires android.import", req.Name)
		}
		for _, p := range a.Permissions {
			if strings.TrimSpace(p) == "" {
				return errors.Wrapf(errors.ErrInvalidConfig, "integration %q: empty android permission", req.Name)
			}
		}
	}
	return nil
}
