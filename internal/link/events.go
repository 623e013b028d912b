package link

import (
	"maps"
	"slices"
	"sync"

	"github.com/thoreinstein/applink/internal/platform"
)

// EventKind names a point in the link lifecycle.
type EventKind string

// Event kinds, in the order they fire for one platform.
const (
	EventPlatformDetected EventKind = "platform.detected"
	EventPlatformSkipped  EventKind = "platform.skipped"
	EventPatchResult      EventKind = "patch.result"
	EventPlatformLinked   EventKind = "platform.linked"
	EventPlatformFailed   EventKind = "platform.failed"
)

// Event describes one lifecycle step.
type Event struct {
	Kind     EventKind
	Module   string
	Platform string

	// Patch is set for EventPatchResult.
	Patch *platform.PatchOutcome

	// Err is set for EventPlatformFailed.
	Err error
}

// Handler receives events. Handlers run synchronously on the linking
// goroutine.
type Handler func(Event)

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus  *bus
	kind EventKind
	id   uint64
	once sync.Once
}

// Unsubscribe stops delivery. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.remove(s.kind, s.id)
	})
}

type bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[EventKind]map[uint64]Handler
}

func newBus() *bus {
	return &bus{handlers: make(map[EventKind]map[uint64]Handler)}
}

func (b *bus) add(kind EventKind, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	if b.handlers[kind] == nil {
		b.handlers[kind] = make(map[uint64]Handler)
	}
	b.handlers[kind][b.nextID] = h
	return &Subscription{bus: b, kind: kind, id: b.nextID}
}

func (b *bus) remove(kind EventKind, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers[kind], id)
}

// publish delivers e to its handlers in subscription order.
func (b *bus) publish(e Event) {
	b.mu.RLock()
	subs := b.handlers[e.Kind]
	ids := slices.Sorted(maps.Keys(subs))
	handlers := make([]Handler, len(ids))
	for i, id := range ids {
		handlers[i] = subs[id]
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
