package platform

import (
	"context"
	"testing"

	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/paths"
)

type stubAdapter struct{ name string }

func (s stubAdapter) Name() string        { return s.name }
func (s stubAdapter) DisplayName() string { return paths.DisplayName(s.name) }
func (s stubAdapter) Detect(string) bool  { return true }
func (s stubAdapter) Link(context.Context, *Request) (*Outcome, error) {
	return &Outcome{Platform: s.name}, nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(stubAdapter{paths.PlatformIOS}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(stubAdapter{paths.PlatformIOS}); !errors.Is(err, ErrPlatformAlreadyRegistered) {
		t.Errorf("duplicate Register() error = %v, want ErrPlatformAlreadyRegistered", err)
	}
	if err := r.Register(stubAdapter{"windows"}); !errors.Is(err, ErrInvalidPlatformName) {
		t.Errorf("invalid Register() error = %v, want ErrInvalidPlatformName", err)
	}

	if _, ok := r.Get(paths.PlatformIOS); !ok {
		t.Error("Get(ios) should find the adapter")
	}
	if _, ok := r.Get(paths.PlatformAndroid); ok {
		t.Error("Get(android) should not find an adapter")
	}
}

func TestRegistry_AllOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{paths.PlatformIOS, paths.PlatformAndroid} {
		if err := r.Register(stubAdapter{name}); err != nil {
			t.Fatal(err)
		}
	}

	all := r.All()
	if len(all) != 2 || all[0].Name() != paths.PlatformAndroid || all[1].Name() != paths.PlatformIOS {
		t.Errorf("All() order wrong: %v", all)
	}
}

func TestRegistry_Only(t *testing.T) {
	r := NewRegistry()
	for _, name := range paths.Platforms() {
		if err := r.Register(stubAdapter{name}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := r.Only(paths.PlatformIOS)
	if err != nil {
		t.Fatalf("Only() error = %v", err)
	}
	if len(got) != 1 || got[0].Name() != paths.PlatformIOS {
		t.Errorf("Only(ios) = %v", got)
	}

	if all, _ := r.Only(); len(all) != 2 {
		t.Errorf("Only() with no names = %d adapters, want 2", len(all))
	}

	if _, err := r.Only("windows"); !errors.Is(err, ErrInvalidPlatformName) {
		t.Errorf("Only(windows) error = %v", err)
	}
}
