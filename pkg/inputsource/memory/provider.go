// Package memory holds an in-process input source provider, used by tests
// and by demo mode so the app runs on platforms without a real backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/miketth/inputdeck/pkg/inputsource"
)

type Provider struct {
	mu      sync.Mutex
	sources []inputsource.Source
	current string
	changes chan struct{}
}

func NewProvider(sources ...inputsource.Source) *Provider {
	p := &Provider{
		sources: sources,
		changes: make(chan struct{}, 1),
	}

	for _, s := range sources {
		if s.Selectable && s.Enabled {
			p.current = s.ID
			break
		}
	}

	return p
}

func (p *Provider) Sources(_ context.Context) ([]inputsource.Source, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]inputsource.Source, len(p.sources))
	copy(out, p.sources)

	return out, nil
}

func (p *Provider) Current(_ context.Context) (inputsource.Source, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.sources {
		if s.ID == p.current {
			return s, nil
		}
	}

	return inputsource.Source{}, fmt.Errorf("current source %q: %w", p.current, inputsource.ErrNotFound)
}

func (p *Provider) Select(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.sources {
		if s.ID != id {
			continue
		}

		if !s.Selectable {
			return fmt.Errorf("source %q: %w", id, inputsource.ErrNotSelectable)
		}

		if p.current != id {
			p.current = id
			p.hint()
		}

		return nil
	}

	return fmt.Errorf("source %q: %w", id, inputsource.ErrNotFound)
}

func (p *Provider) Changes() <-chan struct{} {
	return p.changes
}

// SetSources replaces the source list, simulating an external change like a
// layout being added in system settings.
func (p *Provider) SetSources(sources ...inputsource.Source) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sources = sources
	p.hint()
}

// SetCurrent simulates a selection made by another process.
func (p *Provider) SetCurrent(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = id
	p.hint()
}

func (p *Provider) hint() {
	select {
	case p.changes <- struct{}{}:
	default:
	}
}
