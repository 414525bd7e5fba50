// Package panel holds the declarative configuration for every known panel
// and the registry that indexes it by name and edge.
//
// A panel is a host window the user has registered to occupy one edge of the
// editing surface exclusively among its peers. This package is pure data and
// lookup; exclusivity policy lives in the control package.
package panel

import (
	"context"
	"fmt"
	"regexp"

	"github.com/timvw/dockpane/internal/host"
)

// Action is what opening or closing a panel executes: either an opaque
// command line passed verbatim to the host, or a Go callback. At most one
// side is set; the zero Action means "use the default behavior".
type Action struct {
	Command  string
	Callback func(ctx context.Context) error
}

// IsZero reports whether the action has no behavior attached.
func (a Action) IsZero() bool {
	return a.Command == "" && a.Callback == nil
}

// Invoke dispatches the action: callbacks run directly, command strings go
// through the host.
func (a Action) Invoke(ctx context.Context, h host.Host) error {
	if a.Callback != nil {
		return a.Callback(ctx)
	}
	if a.Command != "" {
		return h.RunCommand(ctx, a.Command)
	}
	return fmt.Errorf("empty action")
}

// Locator identifies a panel's live window among all windows in the current
// view. Resolve, when set, wins; otherwise Match is tested against each
// window in host enumeration order and the first match is taken.
type Locator struct {
	Resolve func(ctx context.Context, h host.Host) (host.WindowID, bool, error)
	Match   func(w host.Window) bool
}

// Config describes one registered panel. Configs are immutable after
// registration; re-registering the same name replaces the whole entry
// (last write wins).
type Config struct {
	// Name uniquely identifies the panel.
	Name string
	// Edge is the docking position.
	Edge host.Edge
	// Locator finds the panel's live window.
	Locator Locator
	// Open is invoked to open the panel. Required for Open/Toggle to work.
	Open Action
	// Close is invoked to close the panel. When zero, the host's generic
	// close-window call is used.
	Close Action
	// Size overrides the edge default: values >= 1 are absolute cells,
	// values in (0,1) are a fraction of the surface dimension.
	Size float64
	// Reposition overrides the global reposition-on-open flag when non-nil.
	Reposition *bool
	// Options are merged over the global option defaults; panel wins.
	Options map[string]string
	// ExemptFrom lists regular expressions (Go regexp syntax) matched
	// against sibling panel names. A sibling whose name matches is left
	// open when this panel opens on the same edge.
	ExemptFrom []*regexp.Regexp
}

// ExemptsName reports whether opening this panel leaves a sibling with the
// given name alone.
func (c *Config) ExemptsName(name string) bool {
	for _, re := range c.ExemptFrom {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Globals carries the process-wide layout defaults shared by all panels.
type Globals struct {
	// EdgeSizes maps each edge to its default size, using the same
	// absolute/fractional rule as Config.Size.
	EdgeSizes map[host.Edge]float64
	// Options are applied to every panel window unless overridden.
	Options map[string]string
	// Reposition moves panels to their edge on open unless a panel
	// overrides it.
	Reposition bool
	// CloseWhenOnlyPanels closes remaining panels when a close operation
	// leaves nothing but panels in the view.
	CloseWhenOnlyPanels bool
}

// DefaultGlobals returns the built-in layout defaults.
func DefaultGlobals() *Globals {
	return &Globals{
		EdgeSizes: map[host.Edge]float64{
			host.EdgeLeft:   0.2,
			host.EdgeRight:  0.2,
			host.EdgeTop:    0.15,
			host.EdgeBottom: 0.25,
		},
		Reposition: true,
	}
}
