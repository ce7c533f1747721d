package tui

import (
	"context"
	"strings"
	"testing"

	"codeberg.org/miketth/inputdeck/pkg/inputsource"
	"codeberg.org/miketth/inputdeck/pkg/inputsource/memory"
	storememory "codeberg.org/miketth/inputdeck/pkg/sourcestore/memory"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func testModel(t *testing.T) (Model, *memory.Provider) {
	t.Helper()

	provider := memory.NewProvider(
		inputsource.Source{ID: "us", Category: inputsource.CategoryLayout, Name: "English (US)", Selectable: true, Enabled: true, Languages: []string{"en"}},
		inputsource.Source{ID: "de", Category: inputsource.CategoryLayout, Name: "German", Selectable: true, Enabled: true, Languages: []string{"de"}},
		inputsource.Source{ID: "emoji", Category: inputsource.CategoryPalette, Name: "Emoji & Symbols", Selectable: false, Enabled: true},
	)

	events := make(chan inputsource.Event)
	m := NewModel(provider, events, nil, zap.NewNop().Sugar())

	msg := m.refresh()()
	next, _ := m.Update(msg)
	return next.(Model), provider
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewListsSources(t *testing.T) {
	m, _ := testModel(t)

	view := m.View()
	for _, want := range []string{"English (US)", "German", "Emoji & Symbols", "not selectable"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}
}

func TestCursorMovement(t *testing.T) {
	m, _ := testModel(t)

	next, _ := m.Update(key("j"))
	m = next.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor should be 1, got %d", m.cursor)
	}

	next, _ = m.Update(key("k"))
	m = next.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor should be back at 0, got %d", m.cursor)
	}

	// moving up at the top stays put
	next, _ = m.Update(key("k"))
	m = next.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor should stay at 0, got %d", m.cursor)
	}
}

func TestEnterSelectsSource(t *testing.T) {
	m, provider := testModel(t)

	next, _ := m.Update(key("j"))
	m = next.(Model)

	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("enter on a selectable source should produce a command")
	}

	if _, ok := cmd().(selectedMsg); !ok {
		t.Fatal("expected a selectedMsg")
	}

	current, err := provider.Current(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if current.ID != "de" {
		t.Errorf("provider should now have de active, got %q", current.ID)
	}
}

func TestEnterOnUnselectableSource(t *testing.T) {
	m, provider := testModel(t)

	m.cursor = 2 // the palette source
	next, cmd := m.Update(key("enter"))
	m = next.(Model)

	if cmd != nil {
		t.Error("unselectable source should not produce a select command")
	}
	if !m.failed {
		t.Error("status should be marked as failure")
	}

	current, _ := provider.Current(context.Background())
	if current.ID != "us" {
		t.Errorf("active source should be unchanged, got %q", current.ID)
	}
}

func TestEnterOnActiveSourceIsNoop(t *testing.T) {
	m, _ := testModel(t)

	next, cmd := m.Update(key("enter"))
	m = next.(Model)

	if cmd != nil {
		t.Error("re-selecting the active source should not produce a command")
	}
	if !strings.Contains(m.status, "already active") {
		t.Errorf("unexpected status: %q", m.status)
	}
}

func TestPreviousSelectionShown(t *testing.T) {
	provider := memory.NewProvider(
		inputsource.Source{ID: "us", Category: inputsource.CategoryLayout, Name: "English (US)", Selectable: true, Enabled: true},
		inputsource.Source{ID: "de", Category: inputsource.CategoryLayout, Name: "German", Selectable: true, Enabled: true},
	)

	history := storememory.NewHistoryStore()
	if err := history.RecordSelection("de", "German"); err != nil {
		t.Fatal(err)
	}
	if err := history.RecordSelection("us", "English (US)"); err != nil {
		t.Fatal(err)
	}

	m := NewModel(provider, make(chan inputsource.Event), history, zap.NewNop().Sugar())
	next, _ := m.Update(m.refresh()())
	m = next.(Model)

	if !strings.Contains(m.View(), "previous: German") {
		t.Errorf("view should show the previous selection:\n%s", m.View())
	}
}

func TestChangeEventUpdatesView(t *testing.T) {
	m, _ := testModel(t)

	ev := inputsource.Event{
		Kind: inputsource.SelectionChanged,
		Current: inputsource.Source{
			ID: "de", Category: inputsource.CategoryLayout, Name: "German", Selectable: true, Enabled: true,
		},
		Sources: m.sources,
	}

	next, cmd := m.Update(changeMsg(ev))
	m = next.(Model)
	if cmd == nil {
		t.Error("change handler should re-arm the event wait")
	}
	if m.current.ID != "de" {
		t.Errorf("current should be de, got %q", m.current.ID)
	}
	if !strings.Contains(m.status, "German") {
		t.Errorf("status should mention the new source, got %q", m.status)
	}
}
