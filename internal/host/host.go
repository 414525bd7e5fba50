// Package host abstracts the windowing system that panels dock into.
//
// This package is pure transport. It exposes what the host can observe and
// mutate (window topology, geometry, focus, options, viewports) without any
// panel semantics. All docking policy lives in the control package.
package host

import (
	"context"
	"fmt"
)

// Edge is one of the four docking positions along the editing surface.
type Edge string

const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// Edges lists all recognized edges in stable display order.
var Edges = []Edge{EdgeLeft, EdgeRight, EdgeTop, EdgeBottom}

// ParseEdge validates an edge name.
func ParseEdge(s string) (Edge, error) {
	switch Edge(s) {
	case EdgeLeft, EdgeRight, EdgeTop, EdgeBottom:
		return Edge(s), nil
	}
	return "", fmt.Errorf("unknown edge %q (want left, right, top, or bottom)", s)
}

// Horizontal reports whether the edge docks along the vertical sides of the
// surface, meaning its panels are sized by width rather than height.
func (e Edge) Horizontal() bool {
	return e == EdgeLeft || e == EdgeRight
}

// WindowID identifies a live window in the host. IDs are opaque and may be
// reassigned by the host after a window closes; never cache them across
// operations.
type WindowID string

// Window is a snapshot of one live window in the current view.
type Window struct {
	// ID is the host's identifier for the window (e.g. a tmux pane id "%3").
	ID WindowID
	// Title is the host-reported window title.
	Title string
	// Command is the command currently running in the window, when the host
	// knows it.
	Command string
	// Width and Height are the window's current size in cells.
	Width  int
	Height int
	// Active reports whether the window currently holds focus.
	Active bool
}

// Viewport is an opaque per-window scroll/cursor snapshot. Hosts that keep
// viewports stable across layout changes may always return the zero value.
type Viewport struct {
	ScrollOffset int
	CursorRow    int
	CursorCol    int
}

// Host is the windowing collaborator contract consumed by the panel core.
//
// Implementations must be safe to call from a single goroutine at a time;
// the control layer serializes all operations.
type Host interface {
	// Name returns the host name (e.g. "tmux").
	Name() string

	// ListWindows enumerates all windows in the current view, in the host's
	// own order. That order is load-bearing: locators resolve predicate ties
	// by taking the first match.
	ListWindows(ctx context.Context) ([]Window, error)

	// CurrentWindow returns the focused window's id.
	CurrentWindow(ctx context.Context) (WindowID, error)

	// FocusWindow moves focus to the given window.
	FocusWindow(ctx context.Context, id WindowID) error

	// FocusPrevious moves focus to the previously focused window.
	FocusPrevious(ctx context.Context) error

	// SurfaceSize returns the total size of the editing surface in cells.
	SurfaceSize(ctx context.Context) (cols, rows int, err error)

	// ResizeWindow sets the window's width (horizontal edges) or height
	// (vertical edges) in cells.
	ResizeWindow(ctx context.Context, id WindowID, edge Edge, cells int) error

	// MoveToEdge repositions the window to occupy the full extent of the
	// given edge.
	MoveToEdge(ctx context.Context, id WindowID, edge Edge) error

	// CloseWindow closes the window. The close may complete asynchronously;
	// callers confirm completion by re-enumerating windows.
	CloseWindow(ctx context.Context, id WindowID) error

	// RunCommand passes an opaque command string verbatim to the host.
	RunCommand(ctx context.Context, command string) error

	// SetWindowOption sets a window-scoped option.
	SetWindowOption(ctx context.Context, id WindowID, key, value string) error

	// SetContentOption sets an option on the window's underlying content
	// (buffer) object, for hosts that distinguish the two scopes.
	SetContentOption(ctx context.Context, id WindowID, key, value string) error

	// HasQuitMapping reports whether the window's content already has a
	// quit key mapping.
	HasQuitMapping(ctx context.Context, id WindowID) (bool, error)

	// SetQuitMapping installs a quit key mapping bound to a generic
	// close-current-window action.
	SetQuitMapping(ctx context.Context, id WindowID) error

	// SaveViewport captures the window's scroll/cursor state.
	SaveViewport(ctx context.Context, id WindowID) (Viewport, error)

	// RestoreViewport restores a previously captured viewport.
	RestoreViewport(ctx context.Context, id WindowID, v Viewport) error

	// StableViewports reports whether the host guarantees viewports stay
	// put across splits and resizes. When true the layout engine skips
	// viewport snapshots entirely.
	StableViewports() bool
}
