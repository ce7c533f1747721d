package inputsource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often the watcher re-queries the system when the
// caller doesn't ask for anything else.
const DefaultInterval = 200 * time.Millisecond

const subscriberBuffer = 16

type EventKind int

const (
	// SelectionChanged fires when the active source differs from the last
	// snapshot, no matter who changed it.
	SelectionChanged EventKind = iota
	// SourcesChanged fires when the enumerated list differs from the last
	// snapshot: additions, removals, or property changes.
	SourcesChanged
)

func (k EventKind) String() string {
	switch k {
	case SelectionChanged:
		return "selection-changed"
	case SourcesChanged:
		return "sources-changed"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one observed change, carrying the snapshot that triggered it.
type Event struct {
	Kind    EventKind
	Current Source
	Sources []Source
}

type snapshot struct {
	sources map[string]Source
	current Source
	primed  bool
}

// Watcher polls a Provider on a fixed interval and turns the returned state
// into change events for subscribers. The first poll only establishes the
// baseline; no events fire for it.
type Watcher struct {
	provider Provider
	interval time.Duration
	log      *zap.SugaredLogger

	mu   sync.Mutex
	subs []chan Event
	last snapshot
}

func NewWatcher(provider Provider, interval time.Duration, log *zap.SugaredLogger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Watcher{
		provider: provider,
		interval: interval,
		log:      log,
	}
}

// Subscribe returns a channel of change events. The channel is buffered; a
// subscriber that falls behind loses events instead of stalling the poll
// loop.
func (w *Watcher) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.subs = append(w.subs, ch)

	return ch
}

// Snapshot returns the sources and current source from the latest poll.
func (w *Watcher) Snapshot() ([]Source, Source) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sources := make([]Source, 0, len(w.last.sources))
	for _, s := range w.last.sources {
		sources = append(sources, s)
	}

	return sources, w.last.current
}

// Run polls until ctx is cancelled and returns ctx.Err(). Poll errors are
// logged and the loop keeps going; a transient enumeration failure must not
// kill the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	var hints <-chan struct{}
	if notifier, ok := w.provider.(Notifier); ok {
		hints = notifier.Changes()
	}

	if err := w.poll(ctx); err != nil {
		w.log.Warnw("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if err := w.poll(ctx); err != nil {
				w.log.Warnw("poll failed", "error", err)
			}

		case <-hints:
			if err := w.poll(ctx); err != nil {
				w.log.Warnw("poll after change hint failed", "error", err)
			}
		}
	}
}

func (w *Watcher) poll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sources, err := w.provider.Sources(ctx)
	if err != nil {
		return fmt.Errorf("enumerate sources: %w", err)
	}

	current, err := w.provider.Current(ctx)
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnavailable):
		// having no active source is a valid state, e.g. when the
		// enumeration comes back empty; the snapshot still advances
		current = Source{}
	case err != nil:
		return fmt.Errorf("get current source: %w", err)
	}

	byID := make(map[string]Source, len(sources))
	for _, s := range sources {
		byID[s.ID] = s
	}

	w.mu.Lock()
	prev := w.last
	w.last = snapshot{sources: byID, current: current, primed: true}

	var events []Event
	if prev.primed {
		if !sourcesEqual(prev.sources, byID) {
			events = append(events, Event{Kind: SourcesChanged, Current: current, Sources: sources})
		}
		if !prev.current.Equal(current) {
			events = append(events, Event{Kind: SelectionChanged, Current: current, Sources: sources})
		}
	}
	subs := w.subs
	w.mu.Unlock()

	for _, ev := range events {
		w.log.Debugw("observed change", "kind", ev.Kind.String(), "current", ev.Current.ID)
		for _, sub := range subs {
			select {
			case sub <- ev:
			default:
				w.log.Debugw("subscriber full, dropping event", "kind", ev.Kind.String())
			}
		}
	}

	return nil
}

func sourcesEqual(a, b map[string]Source) bool {
	if len(a) != len(b) {
		return false
	}

	for id, sa := range a {
		sb, ok := b[id]
		if !ok || !sa.Equal(sb) {
			return false
		}
	}

	return true
}
