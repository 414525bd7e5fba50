// Package statusui provides the interactive panel board: a live view of all
// registered panels per edge with keys to open, close, and toggle them.
//
// The board is a thin consumer of controller state. It never mutates panel
// configuration; every action goes through the controller's public
// operations, so exclusivity rules hold exactly as they do for the CLI.
package statusui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/timvw/dockpane/internal/control"
)

// TUI runs the interactive panel board.
type TUI struct {
	Controller      *control.Controller
	RefreshInterval time.Duration // 0 disables auto-refresh
	Theme           Theme
}

// viewMode switches between the board and the jump prompt.
type viewMode int

const (
	modeBoard viewMode = iota
	modeJump
)

// row is one selectable line: a panel under its edge header.
type row struct {
	edge  string
	panel control.PanelState
}

type refreshMsg struct {
	states []control.EdgeState
	err    error
}

type opDoneMsg struct {
	err error
}

type tickMsg struct{}

type model struct {
	ctrl            *control.Controller
	ctx             context.Context
	refreshInterval time.Duration
	theme           Theme

	states []control.EdgeState
	rows   []row
	cursor int
	mode   viewMode

	jump textinput.Model

	width   int
	height  int
	message string
	busy    bool
}

// Run starts the board and blocks until the user quits.
func (t *TUI) Run(ctx context.Context) error {
	ti := textinput.New()
	ti.Placeholder = "panel name..."
	ti.CharLimit = 128
	ti.Width = 40

	theme := t.Theme
	if theme.Text == "" {
		theme = DarkTheme()
	}

	m := model{
		ctrl:            t.Controller,
		ctx:             ctx,
		refreshInterval: t.RefreshInterval,
		theme:           theme,
		jump:            ti,
	}
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick())
}

func (m model) refresh() tea.Cmd {
	ctx := m.ctx
	ctrl := m.ctrl
	return func() tea.Msg {
		states, err := ctrl.EdgeStates(ctx)
		return refreshMsg{states: states, err: err}
	}
}

func (m model) tick() tea.Cmd {
	if m.refreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// op runs a controller operation off the update loop and reports its error.
func (m model) op(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: fn(ctx)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		if msg.err != nil {
			m.message = msg.err.Error()
			return m, nil
		}
		m.states = msg.states
		m.rebuildRows()
		return m, nil

	case opDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.message = msg.err.Error()
		} else {
			m.message = ""
		}
		return m, m.refresh()

	case tickMsg:
		return m, tea.Batch(m.refresh(), m.tick())

	case tea.KeyMsg:
		if m.mode == modeJump {
			return m.updateJump(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "r":
		return m, m.refresh()
	case "enter", "o":
		if r, ok := m.selected(); ok && !m.busy {
			m.busy = true
			name := r.panel.Name
			return m, m.op(func(ctx context.Context) error { return m.ctrl.Open(ctx, name) })
		}
	case "c", "x":
		if r, ok := m.selected(); ok && !m.busy {
			m.busy = true
			name := r.panel.Name
			return m, m.op(func(ctx context.Context) error { return m.ctrl.Close(ctx, name) })
		}
	case "t", " ":
		if r, ok := m.selected(); ok && !m.busy {
			m.busy = true
			name := r.panel.Name
			return m, m.op(func(ctx context.Context) error { return m.ctrl.Toggle(ctx, name) })
		}
	case "a":
		if !m.busy {
			m.busy = true
			return m, m.op(m.ctrl.CloseAll)
		}
	case "/":
		m.mode = modeJump
		m.jump.SetValue("")
		m.jump.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBoard
		m.jump.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.jump.Value())
		m.mode = modeBoard
		m.jump.Blur()
		if name == "" || m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.op(func(ctx context.Context) error { return m.ctrl.Open(ctx, name) })
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m *model) rebuildRows() {
	m.rows = m.rows[:0]
	for _, st := range m.states {
		for _, p := range st.Panels {
			m.rows = append(m.rows, row{edge: string(st.Edge), panel: p})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m model) View() string {
	th := m.theme
	title := lipgloss.NewStyle().Bold(true).Foreground(th.Primary)
	header := lipgloss.NewStyle().Foreground(th.TextMuted)
	active := lipgloss.NewStyle().Foreground(th.Active)
	inactive := lipgloss.NewStyle().Foreground(th.Inactive)
	focused := lipgloss.NewStyle().Foreground(th.Focused).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(th.Error)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(th.Text)

	var b strings.Builder
	b.WriteString(title.Render("dockpane"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(header.Render("no panels registered"))
		b.WriteString("\n")
	}

	lastEdge := ""
	idx := 0
	for _, r := range m.rows {
		if r.edge != lastEdge {
			lastEdge = r.edge
			b.WriteString(header.Render(strings.ToUpper(r.edge)))
			b.WriteString("\n")
		}

		prefix := "  "
		if idx == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		var line string
		switch {
		case r.panel.Focused:
			line = focused.Render(fmt.Sprintf("%s  [focused]", r.panel.Name))
		case r.panel.Live:
			line = active.Render(fmt.Sprintf("%s  [open]", r.panel.Name))
		default:
			line = inactive.Render(r.panel.Name)
		}
		b.WriteString(prefix + line + "\n")
		idx++
	}

	b.WriteString("\n")
	if m.mode == modeJump {
		b.WriteString("open: " + m.jump.View() + "\n")
	} else {
		b.WriteString(header.Render("enter/o open · t toggle · c close · a close-all · / jump · r refresh · q quit"))
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString(errStyle.Render(m.message))
		b.WriteString("\n")
	}
	return b.String()
}
