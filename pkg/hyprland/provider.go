// Package hyprland exposes the Hyprland compositor's keyboard configuration
// as input sources, talking to its IPC sockets.
package hyprland

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/miketth/inputdeck/pkg/inputsource"
	"codeberg.org/miketth/inputdeck/pkg/xkblayouts"
	"go.uber.org/zap"
)

// Provider maps the main keyboard's configured xkb layouts to input
// sources. Source ids are "<device>/<layout index>", the pair that
// switchxkblayout takes.
type Provider struct {
	ctl      *Hyprctl
	registry *xkblayouts.Registry
	log      *zap.SugaredLogger
	changes  chan struct{}
}

func NewProvider(registry *xkblayouts.Registry, log *zap.SugaredLogger) *Provider {
	return &Provider{
		ctl:      NewHyprctl(),
		registry: registry,
		log:      log,
		changes:  make(chan struct{}, 1),
	}
}

func (p *Provider) Sources(_ context.Context) ([]inputsource.Source, error) {
	keyboards, err := p.ctl.Keyboards()
	if err != nil {
		return nil, fmt.Errorf("get keyboards: %w", err)
	}

	// no keyboards is a valid, if unusual, enumeration
	if len(keyboards) == 0 {
		return nil, nil
	}

	return p.keyboardSources(mainKeyboard(keyboards)), nil
}

func (p *Provider) Current(_ context.Context) (inputsource.Source, error) {
	kb, err := p.currentKeyboard()
	if err != nil {
		return inputsource.Source{}, err
	}

	// hyprland reports the active keymap by its registry description, the
	// same string our sources are named with
	for _, s := range p.keyboardSources(kb) {
		if s.Name == kb.ActiveKeymap {
			return s, nil
		}
	}

	return inputsource.Source{}, fmt.Errorf("active keymap %q not among configured layouts: %w", kb.ActiveKeymap, inputsource.ErrNotFound)
}

func (p *Provider) Select(_ context.Context, id string) error {
	device, idx, err := parseID(id)
	if err != nil {
		return err
	}

	keyboards, err := p.ctl.Keyboards()
	if err != nil {
		return fmt.Errorf("get keyboards: %w", err)
	}

	found := false
	for _, kb := range keyboards {
		if kb.Name != device {
			continue
		}
		found = true
		if idx >= len(kb.Layouts) {
			return fmt.Errorf("source %q: %w", id, inputsource.ErrNotFound)
		}
	}
	if !found {
		return fmt.Errorf("source %q: %w", id, inputsource.ErrNotFound)
	}

	err = p.ctl.SwitchLayout(device, idx)
	switch {
	case errors.Is(err, ErrDeviceNotFound), errors.Is(err, ErrIndexOutOfRange):
		return fmt.Errorf("source %q: %w", id, inputsource.ErrNotFound)
	case err != nil:
		return fmt.Errorf("switch layout: %w", err)
	}

	p.hint()
	return nil
}

func (p *Provider) Changes() <-chan struct{} {
	return p.changes
}

// Watch follows the event socket and hints on every layout event, so the
// watcher doesn't have to wait for its next tick. Returns ctx.Err() on
// cancellation.
func (p *Provider) Watch(ctx context.Context) error {
	client, err := ConnectEvents()
	if err != nil {
		return fmt.Errorf("connect events: %w", err)
	}
	defer client.Close()

	p.log.Debug("following hyprland event socket")

	lineCh := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		for {
			line, err := client.ReadLine()
			if err != nil {
				errCh <- err
				return
			}
			lineCh <- line
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line := <-lineCh:
			if event, _, ok := strings.Cut(line, ">>"); ok && event == "activelayout" {
				p.hint()
			}
		case err := <-errCh:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("get line: %w", err)
		}
	}
}

func (p *Provider) hint() {
	select {
	case p.changes <- struct{}{}:
	default:
	}
}

func (p *Provider) currentKeyboard() (Keyboard, error) {
	keyboards, err := p.ctl.Keyboards()
	if err != nil {
		return Keyboard{}, fmt.Errorf("get keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return Keyboard{}, fmt.Errorf("no keyboards: %w", inputsource.ErrUnavailable)
	}

	return mainKeyboard(keyboards), nil
}

func mainKeyboard(keyboards []Keyboard) Keyboard {
	for _, kb := range keyboards {
		if kb.Main {
			return kb
		}
	}

	return keyboards[0]
}

func (p *Provider) keyboardSources(kb Keyboard) []inputsource.Source {
	out := make([]inputsource.Source, 0, len(kb.Layouts))
	for i, layout := range kb.Layouts {
		variant := kb.Variants[i]

		name := p.registry.PrettyName(layout, variant)
		if name == "" {
			name = layout
			if variant != "" {
				name = fmt.Sprintf("%s (%s)", layout, variant)
			}
		}

		out = append(out, inputsource.Source{
			ID:         fmt.Sprintf("%s/%d", kb.Name, i),
			Category:   inputsource.CategoryLayout,
			Name:       name,
			Selectable: true,
			Enabled:    true,
			Languages:  p.registry.Languages(layout, variant),
		})
	}

	return out
}

func parseID(id string) (string, int, error) {
	device, idxStr, ok := strings.Cut(id, "/")
	if !ok {
		return "", 0, fmt.Errorf("source %q: %w", id, inputsource.ErrNotFound)
	}

	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 {
		return "", 0, fmt.Errorf("source %q: %w", id, inputsource.ErrNotFound)
	}

	return device, idx, nil
}
