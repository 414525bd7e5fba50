// Package control implements the edge-exclusivity state machine: at most
// one panel window is live per edge at any settled moment, except pairs the
// configuration explicitly exempts. Operations drive open/close side effects
// through the host and block until closes are observably complete.
package control

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/timvw/dockpane/internal/host"
	"github.com/timvw/dockpane/internal/layout"
	"github.com/timvw/dockpane/internal/locate"
	"github.com/timvw/dockpane/internal/notify"
	dpotel "github.com/timvw/dockpane/internal/otel"
	"github.com/timvw/dockpane/internal/panel"
)

var tracer = otel.Tracer("dockpane")

// Controller coordinates panel visibility per edge. Operations never run
// concurrently with each other; callers serialize them on one logical
// control thread. Host failures propagate to the caller without rollback,
// since window operations are not transactional against the host.
type Controller struct {
	Host     host.Host
	Registry *panel.Registry
	Layout   *layout.Engine
	Locator  *locate.Locator
	Globals  *panel.Globals

	// Sink receives advisory status pushes at every settle point. Nil-safe.
	Sink notify.Sink

	// Scheduler yields between close-completion polls; nil uses wall time.
	Scheduler Scheduler
	// PollInterval is the pause between polls; 0 uses the default.
	PollInterval time.Duration
	// WaitTimeout bounds close/open waits; 0 polls forever.
	WaitTimeout time.Duration

	// Metrics records operation counters; nil-safe.
	Metrics *dpotel.Metrics
}

// New wires a controller over the given host and registry with default
// layout and locator components.
func New(h host.Host, reg *panel.Registry, globals *panel.Globals) *Controller {
	if globals == nil {
		globals = panel.DefaultGlobals()
	}
	return &Controller{
		Host:     h,
		Registry: reg,
		Layout:   layout.New(h, globals),
		Locator:  locate.New(h, reg),
		Globals:  globals,
	}
}

// Open makes name the active panel at its edge: every other live panel at
// the edge is closed unless name's config exempts it, then name's window is
// focused, opening it first if needed. An already-open target is only
// focused, never relayouted.
//
// Switch is the same operation; the CLI exposes both verbs.
func (c *Controller) Open(ctx context.Context, name string) error {
	cfg, ok := c.Registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", panel.ErrUnknownPanel, name)
	}

	ctx, span := tracer.Start(ctx, "panel.open",
		trace.WithAttributes(
			attribute.String("panel.name", name),
			attribute.String("panel.edge", string(cfg.Edge)),
		))
	defer span.End()

	err := c.withViewGuard(ctx, cfg.Edge, func(ctx context.Context) error {
		live, err := c.Locator.FindAllAtEdge(ctx, cfg.Edge)
		if err != nil {
			return err
		}

		displaced, err := c.closeSiblings(ctx, cfg, live)
		if err != nil {
			return err
		}

		var target host.WindowID
		found := false
		for id, liveName := range live {
			if liveName == name {
				target, found = id, true
				break
			}
		}

		if found {
			if err := c.Host.FocusWindow(ctx, target); err != nil {
				return err
			}
		} else {
			if err := c.openPanel(ctx, cfg); err != nil {
				return err
			}
		}

		c.Metrics.RecordOpen(ctx, string(cfg.Edge), name)
		if displaced {
			c.Metrics.RecordSwitch(ctx, string(cfg.Edge), name)
		}
		c.notifyActive(ctx, cfg.Edge, name)
		return nil
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Close closes name's window if it is live, blocking until the host no
// longer lists it. A panel with no live window is a no-op.
func (c *Controller) Close(ctx context.Context, name string) error {
	cfg, ok := c.Registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", panel.ErrUnknownPanel, name)
	}

	ctx, span := tracer.Start(ctx, "panel.close",
		trace.WithAttributes(
			attribute.String("panel.name", name),
			attribute.String("panel.edge", string(cfg.Edge)),
		))
	defer span.End()

	err := c.withViewGuard(ctx, cfg.Edge, func(ctx context.Context) error {
		id, found, err := c.Locator.Resolve(ctx, cfg)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		if err := c.focusAway(ctx, map[host.WindowID]bool{id: true}); err != nil {
			return err
		}
		if err := c.invokeClose(ctx, cfg, id); err != nil {
			return err
		}
		if err := c.waitForClose(ctx, cfg.Edge, map[string]bool{name: true}); err != nil {
			return err
		}

		c.Metrics.RecordClose(ctx, string(cfg.Edge), name)
		c.notifyActive(ctx, cfg.Edge, "")
		return c.closeIfOnlyPanels(ctx)
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Toggle closes name if it is live (leaving the edge empty) and opens it
// otherwise. Non-exempt siblings are closed either way, same as Open.
func (c *Controller) Toggle(ctx context.Context, name string) error {
	cfg, ok := c.Registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", panel.ErrUnknownPanel, name)
	}

	ctx, span := tracer.Start(ctx, "panel.toggle",
		trace.WithAttributes(
			attribute.String("panel.name", name),
			attribute.String("panel.edge", string(cfg.Edge)),
		))
	defer span.End()

	err := c.withViewGuard(ctx, cfg.Edge, func(ctx context.Context) error {
		live, err := c.Locator.FindAllAtEdge(ctx, cfg.Edge)
		if err != nil {
			return err
		}

		if _, err := c.closeSiblings(ctx, cfg, live); err != nil {
			return err
		}

		var target host.WindowID
		wasLive := false
		for id, liveName := range live {
			if liveName == name {
				target, wasLive = id, true
				break
			}
		}

		c.Metrics.RecordToggle(ctx, string(cfg.Edge), name)

		if wasLive {
			if err := c.focusAway(ctx, map[host.WindowID]bool{target: true}); err != nil {
				return err
			}
			if err := c.invokeClose(ctx, cfg, target); err != nil {
				return err
			}
			if err := c.waitForClose(ctx, cfg.Edge, map[string]bool{name: true}); err != nil {
				return err
			}
			c.notifyActive(ctx, cfg.Edge, "")
			return c.closeIfOnlyPanels(ctx)
		}

		if err := c.openPanel(ctx, cfg); err != nil {
			return err
		}
		c.notifyActive(ctx, cfg.Edge, name)
		return nil
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// CloseSide closes every live panel at the edge.
func (c *Controller) CloseSide(ctx context.Context, edge host.Edge) error {
	return c.CloseSideExcept(ctx, edge, "")
}

// CloseSideExcept closes every live panel at the edge, skipping exceptName
// when given.
func (c *Controller) CloseSideExcept(ctx context.Context, edge host.Edge, exceptName string) error {
	ctx, span := tracer.Start(ctx, "panel.close_side",
		trace.WithAttributes(
			attribute.String("panel.edge", string(edge)),
			attribute.String("panel.except", exceptName),
		))
	defer span.End()

	err := c.withViewGuard(ctx, edge, func(ctx context.Context) error {
		return c.closeSide(ctx, edge, exceptName)
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// CloseAll closes every live panel on every edge.
func (c *Controller) CloseAll(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "panel.close_all")
	defer span.End()

	// Top/bottom edges may be touched, so guard unconditionally.
	err := c.withViewGuard(ctx, host.EdgeTop, func(ctx context.Context) error {
		for _, edge := range host.Edges {
			if err := c.closeSide(ctx, edge, ""); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// SetupWindow reconciles a panel window that became visible outside this
// controller (the underlying program opened itself): reposition, resize,
// options, and close mapping are applied idempotently. Exclusivity is
// deliberately untouched; sibling panels stay as they are.
func (c *Controller) SetupWindow(ctx context.Context, name string, id host.WindowID) error {
	cfg, ok := c.Registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", panel.ErrUnknownPanel, name)
	}

	ctx, span := tracer.Start(ctx, "panel.setup_window",
		trace.WithAttributes(
			attribute.String("panel.name", name),
			attribute.String("panel.edge", string(cfg.Edge)),
		))
	defer span.End()

	err := c.withViewGuard(ctx, cfg.Edge, func(ctx context.Context) error {
		if err := c.applyLayout(ctx, cfg, id); err != nil {
			return err
		}
		c.Metrics.RecordReconciliation(ctx, string(cfg.Edge), name)
		c.notifyActive(ctx, cfg.Edge, name)
		return nil
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// IsPanel reports whether the window (current when id is zero) belongs to a
// registered panel.
func (c *Controller) IsPanel(ctx context.Context, id host.WindowID) (bool, error) {
	return c.Locator.IsPanel(ctx, id)
}

// ListPanels returns all registered panel configs.
func (c *Controller) ListPanels() []*panel.Config {
	return c.Registry.All()
}

// PanelState describes one registered panel for display purposes.
type PanelState struct {
	Name    string
	Live    bool
	Focused bool
	Window  host.WindowID
}

// EdgeState groups panel states for one edge, in registration order.
type EdgeState struct {
	Edge   host.Edge
	Panels []PanelState
}

// EdgeStates snapshots live panel state across all edges, for the status
// view. Purely observational; no side effects.
func (c *Controller) EdgeStates(ctx context.Context) ([]EdgeState, error) {
	current, err := c.Host.CurrentWindow(ctx)
	if err != nil {
		return nil, err
	}
	var states []EdgeState
	for _, edge := range host.Edges {
		names := c.Registry.NamesAtEdge(edge)
		if len(names) == 0 {
			continue
		}
		live, err := c.Locator.FindAllAtEdge(ctx, edge)
		if err != nil {
			return nil, err
		}
		byName := make(map[string]host.WindowID, len(live))
		for id, name := range live {
			byName[name] = id
		}
		st := EdgeState{Edge: edge}
		for _, name := range names {
			id, ok := byName[name]
			st.Panels = append(st.Panels, PanelState{
				Name:    name,
				Live:    ok,
				Focused: ok && id == current,
				Window:  id,
			})
		}
		states = append(states, st)
	}
	return states, nil
}

// withViewGuard brackets fn with a viewport snapshot/restore pair for
// operations that can shift other windows' viewports. Left/right edges are
// assumed stable; top/bottom edges disturb vertical space. Restoration runs
// on every exit path, including propagated failures.
func (c *Controller) withViewGuard(ctx context.Context, edge host.Edge, fn func(context.Context) error) error {
	if edge.Horizontal() {
		return fn(ctx)
	}
	snap, err := c.Layout.SnapshotViews(ctx)
	if err != nil {
		return err
	}
	defer c.Layout.RestoreViews(ctx, snap)
	return fn(ctx)
}

// closeSiblings closes every live panel at cfg's edge other than cfg itself,
// unless cfg's ExemptFrom patterns match the sibling's name. Reports whether
// any sibling was displaced.
func (c *Controller) closeSiblings(ctx context.Context, cfg *panel.Config, live map[host.WindowID]string) (bool, error) {
	toClose := make(map[host.WindowID]string)
	for id, name := range live {
		if name == cfg.Name || cfg.ExemptsName(name) {
			continue
		}
		toClose[id] = name
	}
	if len(toClose) == 0 {
		return false, nil
	}

	ids := make(map[host.WindowID]bool, len(toClose))
	names := make(map[string]bool, len(toClose))
	for id, name := range toClose {
		ids[id] = true
		names[name] = true
	}

	if err := c.focusAway(ctx, ids); err != nil {
		return false, err
	}
	for id, name := range toClose {
		sibling, ok := c.Registry.Get(name)
		if !ok {
			continue
		}
		if err := c.invokeClose(ctx, sibling, id); err != nil {
			return false, err
		}
	}
	if err := c.waitForClose(ctx, cfg.Edge, names); err != nil {
		return false, err
	}
	return true, nil
}

// closeSide closes live panels at one edge in registration order, skipping
// exceptName, then notifies the edge's settle state.
func (c *Controller) closeSide(ctx context.Context, edge host.Edge, exceptName string) error {
	closed := make(map[string]bool)
	for _, name := range c.Registry.NamesAtEdge(edge) {
		if name == exceptName {
			continue
		}
		cfg, ok := c.Registry.Get(name)
		if !ok {
			continue
		}
		id, found, err := c.Locator.Resolve(ctx, cfg)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		if err := c.focusAway(ctx, map[host.WindowID]bool{id: true}); err != nil {
			return err
		}
		if err := c.invokeClose(ctx, cfg, id); err != nil {
			return err
		}
		closed[name] = true
		c.Metrics.RecordClose(ctx, string(edge), name)
	}
	if len(closed) == 0 {
		return nil
	}
	if err := c.waitForClose(ctx, edge, closed); err != nil {
		return err
	}

	active := ""
	if exceptName != "" {
		if cfg, ok := c.Registry.Get(exceptName); ok {
			if _, found, err := c.Locator.Resolve(ctx, cfg); err == nil && found {
				active = exceptName
			}
		}
	}
	c.notifyActive(ctx, edge, active)
	return nil
}

// openPanel invokes the panel's open action, waits for its window to
// resolve, focuses it, and applies layout.
func (c *Controller) openPanel(ctx context.Context, cfg *panel.Config) error {
	if cfg.Open.IsZero() {
		return fmt.Errorf("panel %q has no open action", cfg.Name)
	}
	if err := cfg.Open.Invoke(ctx, c.Host); err != nil {
		return fmt.Errorf("open panel %q: %w", cfg.Name, err)
	}
	id, err := c.waitForOpen(ctx, cfg)
	if err != nil {
		return err
	}
	if err := c.applyLayout(ctx, cfg, id); err != nil {
		return err
	}
	return c.Host.FocusWindow(ctx, id)
}

// applyLayout runs the full layout pass: reposition, resize, options, and
// close mapping. Idempotent; shared by open and setup-window.
func (c *Controller) applyLayout(ctx context.Context, cfg *panel.Config, id host.WindowID) error {
	if err := c.Layout.Reposition(ctx, cfg, id); err != nil {
		return err
	}
	if err := c.Layout.Resize(ctx, cfg, id); err != nil {
		return err
	}
	c.Layout.ApplyOptions(ctx, cfg, id)
	return c.Layout.EnsureCloseMapping(ctx, id)
}

// invokeClose runs the panel's close action, defaulting to the host's
// generic close-window call.
func (c *Controller) invokeClose(ctx context.Context, cfg *panel.Config, id host.WindowID) error {
	if cfg.Close.IsZero() {
		if err := c.Host.CloseWindow(ctx, id); err != nil {
			return fmt.Errorf("close panel %q: %w", cfg.Name, err)
		}
		return nil
	}
	if err := cfg.Close.Invoke(ctx, c.Host); err != nil {
		return fmt.Errorf("close panel %q: %w", cfg.Name, err)
	}
	return nil
}

// focusAway moves focus to the previous window when the current one is
// about to be closed. Closing a focused window would otherwise let the host
// pick an arbitrary new focus target.
func (c *Controller) focusAway(ctx context.Context, closing map[host.WindowID]bool) error {
	current, err := c.Host.CurrentWindow(ctx)
	if err != nil {
		return err
	}
	if !closing[current] {
		return nil
	}
	return c.Host.FocusPrevious(ctx)
}

// closeIfOnlyPanels closes the remaining panels when a close left nothing
// but panel windows in the view, if the global flag asks for it.
func (c *Controller) closeIfOnlyPanels(ctx context.Context) error {
	if c.Globals == nil || !c.Globals.CloseWhenOnlyPanels {
		return nil
	}
	windows, err := c.Host.ListWindows(ctx)
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		return nil
	}
	for _, w := range windows {
		isPanel, err := c.Locator.IsPanel(ctx, w.ID)
		if err != nil {
			return err
		}
		if !isPanel {
			return nil
		}
	}
	for _, edge := range host.Edges {
		if err := c.closeSide(ctx, edge, ""); err != nil {
			return err
		}
	}
	return nil
}

// notifyActive pushes the edge's settle state to the sink. Fire-and-forget.
func (c *Controller) notifyActive(ctx context.Context, edge host.Edge, name string) {
	if c.Sink == nil {
		return
	}
	c.Sink.ActivePanel(ctx, notify.Status{Edge: edge, Panel: name, TS: time.Now()})
}
