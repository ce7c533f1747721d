package inputsource

import (
	"context"
	"time"
)

// Provider is the facade over a platform's text input services.
type Provider interface {
	// Sources enumerates every input source the system knows about.
	Sources(ctx context.Context) ([]Source, error)
	// Current returns the source that is active for text entry right now.
	Current(ctx context.Context) (Source, error)
	// Select asks the system to activate the source with the given id.
	// The change is system-wide, not scoped to this process.
	Select(ctx context.Context, id string) error
}

// Notifier is an optional interface a Provider can implement to hint that
// something changed, waking the watcher before its next poll tick.
type Notifier interface {
	Changes() <-chan struct{}
}

// Selection is one recorded activation of a source.
type Selection struct {
	ID   string
	Name string
	At   time.Time
}

// HistoryStore records successful selections so the last one can be
// restored on startup.
type HistoryStore interface {
	RecordSelection(id string, name string) error
	LastSelected() (string, error)
	History(limit int) ([]Selection, error)
}
