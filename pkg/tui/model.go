// Package tui is the demo view: a list of the system's input sources with
// the active one highlighted, updated live from the watcher.
package tui

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/miketth/inputdeck/pkg/inputsource"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type sourcesMsg struct {
	sources  []inputsource.Source
	current  inputsource.Source
	previous string
}

type changeMsg inputsource.Event

type selectedMsg struct {
	id string
}

type errMsg struct {
	err error
}

type Model struct {
	provider inputsource.Provider
	events   <-chan inputsource.Event
	history  inputsource.HistoryStore
	log      *zap.SugaredLogger

	sources  []inputsource.Source
	current  inputsource.Source
	previous string
	cursor   int
	status   string
	failed   bool
	width    int
}

// NewModel builds the demo view. history may be nil; the previous-selection
// line is simply omitted then.
func NewModel(provider inputsource.Provider, events <-chan inputsource.Event, history inputsource.HistoryStore, log *zap.SugaredLogger) Model {
	return Model{
		provider: provider,
		events:   events,
		history:  history,
		log:      log,
		status:   "loading sources...",
	}
}

func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.waitForChange())
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		sources, err := m.provider.Sources(ctx)
		if err != nil {
			return errMsg{err: fmt.Errorf("enumerate sources: %w", err)}
		}

		current, err := m.provider.Current(ctx)
		if err != nil {
			return errMsg{err: fmt.Errorf("get current source: %w", err)}
		}

		return sourcesMsg{
			sources:  sources,
			current:  current,
			previous: m.previousSelection(current),
		}
	}
}

// previousSelection returns the name of the most recent recorded selection
// that isn't the current source.
func (m Model) previousSelection(current inputsource.Source) string {
	if m.history == nil {
		return ""
	}

	selections, err := m.history.History(5)
	if err != nil {
		m.log.Warnw("read selection history", "error", err)
		return ""
	}

	for _, sel := range selections {
		if sel.ID != current.ID {
			return sel.Name
		}
	}

	return ""
}

func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return changeMsg(ev)
	}
}

func (m Model) selectSource(s inputsource.Source) tea.Cmd {
	return func() tea.Msg {
		if err := m.provider.Select(context.Background(), s.ID); err != nil {
			return errMsg{err: fmt.Errorf("select %q: %w", s.ID, err)}
		}
		return selectedMsg{id: s.ID}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case sourcesMsg:
		m.sources = msg.sources
		m.current = msg.current
		m.previous = msg.previous
		m.clampCursor()
		if !m.failed {
			m.status = ""
		}
		return m, nil

	case changeMsg:
		m.sources = msg.Sources
		m.current = msg.Current
		m.clampCursor()
		m.failed = false
		switch msg.Kind {
		case inputsource.SelectionChanged:
			m.status = fmt.Sprintf("active source is now %s", msg.Current.Name)
		case inputsource.SourcesChanged:
			m.status = "source list changed"
		}
		return m, m.waitForChange()

	case selectedMsg:
		m.failed = false
		m.status = fmt.Sprintf("selected %s", msg.id)
		return m, m.refresh()

	case errMsg:
		m.log.Warnw("ui action failed", "error", msg.err)
		m.failed = true
		m.status = msg.err.Error()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.sources)-1 {
			m.cursor++
		}

	case "r":
		return m, m.refresh()

	case "enter":
		if m.cursor >= len(m.sources) {
			break
		}
		s := m.sources[m.cursor]
		if s.ID == m.current.ID {
			m.status = fmt.Sprintf("%s is already active", s.Name)
			break
		}
		if !s.Selectable {
			m.failed = true
			m.status = fmt.Sprintf("%s can't be selected", s.Name)
			break
		}
		m.status = fmt.Sprintf("selecting %s...", s.Name)
		return m, m.selectSource(s)
	}

	return m, nil
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.sources) {
		m.cursor = len(m.sources) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("inputdeck"))
	b.WriteString("\n\n")

	if len(m.sources) == 0 {
		b.WriteString(subtleStyle.Render("no input sources"))
		b.WriteString("\n")
	}

	for i, s := range m.sources {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		marker := "  "
		if s.ID == m.current.ID {
			marker = activeStyle.Render("* ")
		}

		name := textStyle.Render(s.Name)
		if s.ID == m.current.ID {
			name = activeStyle.Render(s.Name)
		}

		b.WriteString(cursor + marker + name + subtleStyle.Render("  "+describe(s)))
		b.WriteString("\n")
	}

	if m.previous != "" {
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("previous: " + m.previous))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(subtleStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("up/down: move • enter: select • r: refresh • q: quit"))
	b.WriteString("\n")

	return b.String()
}

func describe(s inputsource.Source) string {
	parts := []string{string(s.Category)}

	if len(s.Languages) > 0 {
		parts = append(parts, strings.Join(s.Languages, ","))
	}
	if !s.Enabled {
		parts = append(parts, "disabled")
	}
	if !s.Selectable {
		parts = append(parts, "not selectable")
	}

	return "[" + strings.Join(parts, " · ") + "]"
}
