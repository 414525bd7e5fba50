// Package locate resolves panel configurations into live window handles.
//
// Window ids are never cached across operations: the host may reassign a
// handle between calls, so every query re-enumerates the current view.
package locate

import (
	"context"
	"fmt"

	"github.com/timvw/dockpane/internal/host"
	"github.com/timvw/dockpane/internal/panel"
)

// Locator scans the host's current view for panel windows.
type Locator struct {
	Host     host.Host
	Registry *panel.Registry
}

// New creates a locator over the given host and registry.
func New(h host.Host, reg *panel.Registry) *Locator {
	return &Locator{Host: h, Registry: reg}
}

// Resolve finds the live window for a panel. Custom resolvers are invoked
// directly; otherwise the panel's predicate is tested against all windows
// in host enumeration order and the first match wins. With several matching
// windows, "the" panel window is therefore whichever the host lists first.
func (l *Locator) Resolve(ctx context.Context, cfg *panel.Config) (host.WindowID, bool, error) {
	if cfg.Locator.Resolve != nil {
		return cfg.Locator.Resolve(ctx, l.Host)
	}
	if cfg.Locator.Match == nil {
		return "", false, fmt.Errorf("panel %q has no locator", cfg.Name)
	}
	windows, err := l.Host.ListWindows(ctx)
	if err != nil {
		return "", false, err
	}
	for _, w := range windows {
		if cfg.Locator.Match(w) {
			return w.ID, true, nil
		}
	}
	return "", false, nil
}

// FindAllAtEdge resolves every panel registered at edge and returns the live
// ones as window id -> panel name. Panels with no live window are absent.
func (l *Locator) FindAllAtEdge(ctx context.Context, edge host.Edge) (map[host.WindowID]string, error) {
	live := make(map[host.WindowID]string)
	for _, name := range l.Registry.NamesAtEdge(edge) {
		cfg, ok := l.Registry.Get(name)
		if !ok {
			continue
		}
		id, found, err := l.Resolve(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve panel %q: %w", name, err)
		}
		if found {
			live[id] = name
		}
	}
	return live, nil
}

// IsPanel reports whether the given window belongs to any registered panel.
// A zero id means the currently focused window.
func (l *Locator) IsPanel(ctx context.Context, id host.WindowID) (bool, error) {
	if id == "" {
		current, err := l.Host.CurrentWindow(ctx)
		if err != nil {
			return false, err
		}
		id = current
	}
	for _, cfg := range l.Registry.All() {
		got, found, err := l.Resolve(ctx, cfg)
		if err != nil {
			return false, fmt.Errorf("resolve panel %q: %w", cfg.Name, err)
		}
		if found && got == id {
			return true, nil
		}
	}
	return false, nil
}
