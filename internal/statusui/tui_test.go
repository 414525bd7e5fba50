package statusui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/timvw/dockpane/internal/control"
	"github.com/timvw/dockpane/internal/host"
)

func boardModel() model {
	m := model{theme: DarkTheme(), jump: textinput.New()}
	m.states = []control.EdgeState{
		{Edge: host.EdgeBottom, Panels: []control.PanelState{
			{Name: "term", Live: true, Focused: true},
			{Name: "repl"},
		}},
		{Edge: host.EdgeLeft, Panels: []control.PanelState{
			{Name: "files", Live: true},
		}},
	}
	m.rebuildRows()
	return m
}

func TestRebuildRows(t *testing.T) {
	m := boardModel()

	want := []string{"term", "repl", "files"}
	if len(m.rows) != len(want) {
		t.Fatalf("rows: got %d, want %d", len(m.rows), len(want))
	}
	for i, name := range want {
		if m.rows[i].panel.Name != name {
			t.Errorf("rows[%d]: got %q, want %q", i, m.rows[i].panel.Name, name)
		}
	}
	if m.rows[0].edge != "bottom" || m.rows[2].edge != "left" {
		t.Errorf("row edges: got %q/%q, want bottom/left", m.rows[0].edge, m.rows[2].edge)
	}
}

func TestRebuildRows_ClampsCursor(t *testing.T) {
	m := boardModel()
	m.cursor = 10

	m.states = m.states[:1] // left edge panel disappeared
	m.rebuildRows()

	if m.cursor != 1 {
		t.Errorf("cursor after shrink: got %d, want 1", m.cursor)
	}

	m.states = nil
	m.rebuildRows()
	if m.cursor != 0 {
		t.Errorf("cursor with no rows: got %d, want 0", m.cursor)
	}
	if _, ok := m.selected(); ok {
		t.Error("selected() returned a row for an empty board")
	}
}

func TestBoardNavigation(t *testing.T) {
	m := boardModel()

	next, _ := m.updateBoard(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = next.(model)
	if m.cursor != 1 {
		t.Errorf("cursor after j: got %d, want 1", m.cursor)
	}

	next, _ = m.updateBoard(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = next.(model)
	next, _ = m.updateBoard(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = next.(model)
	if m.cursor != 2 {
		t.Errorf("cursor pinned at last row: got %d, want 2", m.cursor)
	}

	next, _ = m.updateBoard(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = next.(model)
	if m.cursor != 1 {
		t.Errorf("cursor after k: got %d, want 1", m.cursor)
	}

	if r, ok := m.selected(); !ok || r.panel.Name != "repl" {
		t.Errorf("selected: got %v, want repl", r.panel.Name)
	}
}

func TestJumpModeRoundTrip(t *testing.T) {
	m := boardModel()

	next, _ := m.updateBoard(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = next.(model)
	if m.mode != modeJump {
		t.Fatalf("mode after /: got %v, want jump prompt", m.mode)
	}

	next, _ = m.updateJump(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)
	if m.mode != modeBoard {
		t.Errorf("mode after esc: got %v, want board", m.mode)
	}
}

func TestViewShowsPanelStates(t *testing.T) {
	m := boardModel()
	out := m.View()

	for _, want := range []string{"dockpane", "BOTTOM", "LEFT", "term", "[focused]", "files", "[open]", "repl"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
