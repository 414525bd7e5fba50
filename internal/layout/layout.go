// Package layout computes and applies panel geometry: sizing with absolute
// or fractional units, edge repositioning, option application, and viewport
// preservation across layout-disturbing operations.
package layout

import (
	"context"
	"fmt"
	"math"

	"github.com/timvw/dockpane/internal/host"
	"github.com/timvw/dockpane/internal/panel"
)

// Engine applies geometry and options to panel windows.
type Engine struct {
	Host    host.Host
	Globals *panel.Globals
}

// New creates an engine over the given host and global defaults.
func New(h host.Host, g *panel.Globals) *Engine {
	if g == nil {
		g = panel.DefaultGlobals()
	}
	return &Engine{Host: h, Globals: g}
}

// ComputeSize resolves a panel's size against the total available cells:
// values >= 1 are absolute, values in (0,1) are a fraction of the total.
// Unset panel sizes fall back to the edge default under the same rule.
// The result is clamped to at least 1 cell so degenerate fractions never
// produce an unusable window.
func (e *Engine) ComputeSize(cfg *panel.Config, total int) int {
	size := cfg.Size
	if size <= 0 {
		size = e.Globals.EdgeSizes[cfg.Edge]
	}
	var cells int
	switch {
	case size >= 1:
		cells = int(size)
	case size > 0:
		cells = int(math.Floor(size * float64(total)))
	}
	if cells < 1 {
		cells = 1
	}
	return cells
}

// repositionEnabled resolves the panel override against the global flag.
func (e *Engine) repositionEnabled(cfg *panel.Config) bool {
	if cfg.Reposition != nil {
		return *cfg.Reposition
	}
	return e.Globals.Reposition
}

// Reposition moves the window to occupy the full extent of its configured
// edge, restoring prior focus afterward. A no-op when repositioning is
// disabled for this panel.
func (e *Engine) Reposition(ctx context.Context, cfg *panel.Config, id host.WindowID) error {
	if !e.repositionEnabled(cfg) {
		return nil
	}
	prev, err := e.Host.CurrentWindow(ctx)
	if err != nil {
		return fmt.Errorf("reposition %q: %w", cfg.Name, err)
	}
	if err := e.Host.MoveToEdge(ctx, id, cfg.Edge); err != nil {
		return fmt.Errorf("reposition %q: %w", cfg.Name, err)
	}
	if prev != id {
		if err := e.Host.FocusWindow(ctx, prev); err != nil {
			return fmt.Errorf("reposition %q: restore focus: %w", cfg.Name, err)
		}
	}
	return nil
}

// Resize sets the window's width (left/right edges) or height (top/bottom
// edges) to the panel's computed size.
func (e *Engine) Resize(ctx context.Context, cfg *panel.Config, id host.WindowID) error {
	cols, rows, err := e.Host.SurfaceSize(ctx)
	if err != nil {
		return fmt.Errorf("resize %q: %w", cfg.Name, err)
	}
	total := rows
	if cfg.Edge.Horizontal() {
		total = cols
	}
	cells := e.ComputeSize(cfg, total)
	if err := e.Host.ResizeWindow(ctx, id, cfg.Edge, cells); err != nil {
		return fmt.Errorf("resize %q: %w", cfg.Name, err)
	}
	return nil
}

// ApplyOptions merges the global option defaults with the panel's overrides
// (panel wins) and applies each pair to the window and its content. A key
// invalid for one target is simply skipped; this is best-effort, not atomic.
func (e *Engine) ApplyOptions(ctx context.Context, cfg *panel.Config, id host.WindowID) {
	merged := make(map[string]string, len(e.Globals.Options)+len(cfg.Options))
	for k, v := range e.Globals.Options {
		merged[k] = v
	}
	for k, v := range cfg.Options {
		merged[k] = v
	}
	for k, v := range merged {
		// Some keys only exist on one of the two targets; failures are
		// expected and tolerated per key.
		_ = e.Host.SetWindowOption(ctx, id, k, v)
		_ = e.Host.SetContentOption(ctx, id, k, v)
	}
}

// EnsureCloseMapping installs a quit key mapping on the panel's content
// unless one already exists. Pre-existing mappings are never overwritten.
func (e *Engine) EnsureCloseMapping(ctx context.Context, id host.WindowID) error {
	has, err := e.Host.HasQuitMapping(ctx, id)
	if err != nil {
		return fmt.Errorf("check quit mapping: %w", err)
	}
	if has {
		return nil
	}
	if err := e.Host.SetQuitMapping(ctx, id); err != nil {
		return fmt.Errorf("install quit mapping: %w", err)
	}
	return nil
}

// ViewSnapshot holds per-window viewports captured before a layout-disturbing
// operation. Empty when the host keeps viewports stable.
type ViewSnapshot map[host.WindowID]host.Viewport

// SnapshotViews captures scroll/cursor state for every window in the current
// view. Returns an empty snapshot when the host guarantees stable viewports.
func (e *Engine) SnapshotViews(ctx context.Context) (ViewSnapshot, error) {
	if e.Host.StableViewports() {
		return nil, nil
	}
	windows, err := e.Host.ListWindows(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot views: %w", err)
	}
	snap := make(ViewSnapshot, len(windows))
	for _, w := range windows {
		v, err := e.Host.SaveViewport(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("snapshot view of %s: %w", w.ID, err)
		}
		snap[w.ID] = v
	}
	return snap, nil
}

// RestoreViews restores a previous snapshot, skipping windows that no longer
// exist. Restoration is best-effort: it runs on every exit path of a control
// operation, including failures, and must not mask the original error.
func (e *Engine) RestoreViews(ctx context.Context, snap ViewSnapshot) {
	if len(snap) == 0 {
		return
	}
	windows, err := e.Host.ListWindows(ctx)
	if err != nil {
		return
	}
	for _, w := range windows {
		if v, ok := snap[w.ID]; ok {
			_ = e.Host.RestoreViewport(ctx, w.ID, v)
		}
	}
}
