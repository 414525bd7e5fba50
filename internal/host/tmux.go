package host

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Tmux implements Host on top of a running tmux server. Panels are panes in
// the current window; the editing surface is the window itself.
type Tmux struct{}

// NewTmux creates a tmux host.
func NewTmux() *Tmux {
	return &Tmux{}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// ListWindows returns all panes of the current window, in tmux index order.
func (t *Tmux) ListWindows(ctx context.Context) ([]Window, error) {
	// Format: pane_id\ttitle\tcommand\twidth\theight\tactive
	format := "#{pane_id}\t#{pane_title}\t#{pane_current_command}\t#{pane_width}\t#{pane_height}\t#{pane_active}"
	out, err := t.run(ctx, "list-panes", "-F", format)
	if err != nil {
		return nil, fmt.Errorf("tmux list-panes: %w", err)
	}

	var windows []Window
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 6)
		if len(parts) != 6 {
			continue
		}
		width, _ := strconv.Atoi(parts[3])
		height, _ := strconv.Atoi(parts[4])
		windows = append(windows, Window{
			ID:      WindowID(parts[0]),
			Title:   parts[1],
			Command: parts[2],
			Width:   width,
			Height:  height,
			Active:  parts[5] == "1",
		})
	}
	return windows, nil
}

// CurrentWindow returns the active pane id.
func (t *Tmux) CurrentWindow(ctx context.Context) (WindowID, error) {
	out, err := t.run(ctx, "display-message", "-p", "#{pane_id}")
	if err != nil {
		return "", fmt.Errorf("tmux display-message: %w", err)
	}
	return WindowID(strings.TrimSpace(out)), nil
}

// FocusWindow selects the given pane.
func (t *Tmux) FocusWindow(ctx context.Context, id WindowID) error {
	if _, err := t.run(ctx, "select-pane", "-t", string(id)); err != nil {
		return fmt.Errorf("tmux select-pane -t %s: %w", id, err)
	}
	return nil
}

// FocusPrevious selects the last (previously active) pane.
func (t *Tmux) FocusPrevious(ctx context.Context) error {
	if _, err := t.run(ctx, "select-pane", "-l"); err != nil {
		return fmt.Errorf("tmux select-pane -l: %w", err)
	}
	return nil
}

// SurfaceSize returns the current window's dimensions in cells.
func (t *Tmux) SurfaceSize(ctx context.Context) (int, int, error) {
	out, err := t.run(ctx, "display-message", "-p", "#{window_width}\t#{window_height}")
	if err != nil {
		return 0, 0, fmt.Errorf("tmux display-message: %w", err)
	}
	parts := strings.SplitN(strings.TrimSpace(out), "\t", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected window size output %q", out)
	}
	cols, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid window width %q: %w", parts[0], err)
	}
	rows, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid window height %q: %w", parts[1], err)
	}
	return cols, rows, nil
}

// ResizeWindow sets pane width for left/right edges and height for top/bottom.
func (t *Tmux) ResizeWindow(ctx context.Context, id WindowID, edge Edge, cells int) error {
	axis := "-y"
	if edge.Horizontal() {
		axis = "-x"
	}
	if _, err := t.run(ctx, "resize-pane", "-t", string(id), axis, strconv.Itoa(cells)); err != nil {
		return fmt.Errorf("tmux resize-pane -t %s: %w", id, err)
	}
	return nil
}

// MoveToEdge re-joins the pane against the full extent of the given edge.
func (t *Tmux) MoveToEdge(ctx context.Context, id WindowID, edge Edge) error {
	// move-pane: -f takes the full edge, -h splits horizontally, -b places
	// the source before (left/top of) the target.
	args := []string{"move-pane", "-s", string(id), "-f"}
	switch edge {
	case EdgeLeft:
		args = append(args, "-h", "-b")
	case EdgeRight:
		args = append(args, "-h")
	case EdgeTop:
		args = append(args, "-b")
	case EdgeBottom:
		// full-width split below is the default
	}
	if _, err := t.run(ctx, args...); err != nil {
		return fmt.Errorf("tmux move-pane -s %s: %w", id, err)
	}
	return nil
}

// CloseWindow kills the pane. tmux completes the kill asynchronously with
// respect to other clients, so callers re-list panes to confirm.
func (t *Tmux) CloseWindow(ctx context.Context, id WindowID) error {
	if _, err := t.run(ctx, "kill-pane", "-t", string(id)); err != nil {
		return fmt.Errorf("tmux kill-pane -t %s: %w", id, err)
	}
	return nil
}

// RunCommand passes a command line verbatim to tmux. The string is split on
// whitespace; quoting is not interpreted, so panel open commands should keep
// their arguments shell-metacharacter free or wrap themselves in a script.
func (t *Tmux) RunCommand(ctx context.Context, command string) error {
	args := strings.Fields(command)
	if len(args) == 0 {
		return fmt.Errorf("empty host command")
	}
	if _, err := t.run(ctx, args...); err != nil {
		return fmt.Errorf("tmux %s: %w", args[0], err)
	}
	return nil
}

// SetWindowOption sets a pane-scoped tmux option.
func (t *Tmux) SetWindowOption(ctx context.Context, id WindowID, key, value string) error {
	if _, err := t.run(ctx, "set-option", "-p", "-t", string(id), key, value); err != nil {
		return fmt.Errorf("tmux set-option -p %s: %w", key, err)
	}
	return nil
}

// SetContentOption is identical to SetWindowOption under tmux, which has no
// separate content scope. Keys invalid for panes fail and are tolerated by
// the layout engine.
func (t *Tmux) SetContentOption(ctx context.Context, id WindowID, key, value string) error {
	return t.SetWindowOption(ctx, id, key, value)
}

// HasQuitMapping always reports true: every tmux pane already closes via the
// prefix table, so dockpane never installs its own binding here.
func (t *Tmux) HasQuitMapping(ctx context.Context, id WindowID) (bool, error) {
	return true, nil
}

// SetQuitMapping is unreachable under tmux (HasQuitMapping is always true).
func (t *Tmux) SetQuitMapping(ctx context.Context, id WindowID) error {
	return nil
}

// SaveViewport returns the zero viewport; tmux viewports are stable.
func (t *Tmux) SaveViewport(ctx context.Context, id WindowID) (Viewport, error) {
	return Viewport{}, nil
}

// RestoreViewport is a no-op; tmux viewports are stable.
func (t *Tmux) RestoreViewport(ctx context.Context, id WindowID, v Viewport) error {
	return nil
}

// StableViewports reports true: tmux keeps pane scroll state put across
// splits and resizes, so viewport snapshots are unnecessary.
func (t *Tmux) StableViewports() bool {
	return true
}

// run executes a tmux command and returns its stdout.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, string(exitErr.Stderr))
		}
		return "", err
	}
	return string(out), nil
}
