package layout

import (
	"context"
	"testing"

	"github.com/timvw/dockpane/internal/host"
	"github.com/timvw/dockpane/internal/panel"
)

// geometryHost implements host.Host with just enough recording for layout
// assertions.
type geometryHost struct {
	windows    []host.Window
	current    host.WindowID
	cols, rows int
	stable     bool

	moved       map[host.WindowID]host.Edge
	resized     map[host.WindowID]int
	focused     []host.WindowID
	winOpts     map[string]string
	contentOpts map[string]string
	hasQuit     bool
	quitSet     []host.WindowID
	saved       []host.WindowID
	restored    []host.WindowID
}

func newGeometryHost() *geometryHost {
	return &geometryHost{
		cols:        100,
		rows:        40,
		stable:      true,
		moved:       make(map[host.WindowID]host.Edge),
		resized:     make(map[host.WindowID]int),
		winOpts:     make(map[string]string),
		contentOpts: make(map[string]string),
	}
}

func (g *geometryHost) Name() string { return "geometry" }

func (g *geometryHost) ListWindows(_ context.Context) ([]host.Window, error) {
	return g.windows, nil
}

func (g *geometryHost) CurrentWindow(_ context.Context) (host.WindowID, error) {
	return g.current, nil
}

func (g *geometryHost) FocusWindow(_ context.Context, id host.WindowID) error {
	g.focused = append(g.focused, id)
	g.current = id
	return nil
}

func (g *geometryHost) FocusPrevious(_ context.Context) error { return nil }

func (g *geometryHost) SurfaceSize(_ context.Context) (int, int, error) {
	return g.cols, g.rows, nil
}

func (g *geometryHost) ResizeWindow(_ context.Context, id host.WindowID, _ host.Edge, cells int) error {
	g.resized[id] = cells
	return nil
}

func (g *geometryHost) MoveToEdge(_ context.Context, id host.WindowID, edge host.Edge) error {
	g.moved[id] = edge
	return nil
}

func (g *geometryHost) CloseWindow(_ context.Context, _ host.WindowID) error { return nil }

func (g *geometryHost) RunCommand(_ context.Context, _ string) error { return nil }

func (g *geometryHost) SetWindowOption(_ context.Context, id host.WindowID, key, value string) error {
	g.winOpts[string(id)+":"+key] = value
	return nil
}

func (g *geometryHost) SetContentOption(_ context.Context, id host.WindowID, key, value string) error {
	g.contentOpts[string(id)+":"+key] = value
	return nil
}

func (g *geometryHost) HasQuitMapping(_ context.Context, _ host.WindowID) (bool, error) {
	return g.hasQuit, nil
}

func (g *geometryHost) SetQuitMapping(_ context.Context, id host.WindowID) error {
	g.quitSet = append(g.quitSet, id)
	return nil
}

func (g *geometryHost) SaveViewport(_ context.Context, id host.WindowID) (host.Viewport, error) {
	g.saved = append(g.saved, id)
	return host.Viewport{ScrollOffset: 5}, nil
}

func (g *geometryHost) RestoreViewport(_ context.Context, id host.WindowID, _ host.Viewport) error {
	g.restored = append(g.restored, id)
	return nil
}

func (g *geometryHost) StableViewports() bool { return g.stable }

func boolPtr(v bool) *bool { return &v }

func TestComputeSize(t *testing.T) {
	engine := New(newGeometryHost(), nil)

	tests := []struct {
		name  string
		cfg   *panel.Config
		total int
		want  int
	}{
		{name: "fraction", cfg: &panel.Config{Edge: host.EdgeLeft, Size: 0.5}, total: 80, want: 40},
		{name: "fraction floors", cfg: &panel.Config{Edge: host.EdgeLeft, Size: 0.25}, total: 81, want: 20},
		{name: "absolute", cfg: &panel.Config{Edge: host.EdgeLeft, Size: 25}, total: 80, want: 25},
		{name: "one is absolute", cfg: &panel.Config{Edge: host.EdgeLeft, Size: 1}, total: 80, want: 1},
		{name: "unset uses left default", cfg: &panel.Config{Edge: host.EdgeLeft}, total: 100, want: 20},
		{name: "unset uses bottom default", cfg: &panel.Config{Edge: host.EdgeBottom}, total: 40, want: 10},
		{name: "tiny fraction clamps to one", cfg: &panel.Config{Edge: host.EdgeLeft, Size: 0.001}, total: 10, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.ComputeSize(tt.cfg, tt.total); got != tt.want {
				t.Errorf("ComputeSize(%v, %d): got %d, want %d", tt.cfg.Size, tt.total, got, tt.want)
			}
		})
	}
}

func TestResize_AxisFollowsEdge(t *testing.T) {
	g := newGeometryHost()
	engine := New(g, nil)
	ctx := context.Background()

	left := &panel.Config{Name: "files", Edge: host.EdgeLeft, Size: 0.5}
	if err := engine.Resize(ctx, left, "%a"); err != nil {
		t.Fatalf("Resize(left) error: %v", err)
	}
	if got := g.resized["%a"]; got != 50 {
		t.Errorf("left edge sizes against columns: got %d, want 50", got)
	}

	bottom := &panel.Config{Name: "term", Edge: host.EdgeBottom, Size: 0.5}
	if err := engine.Resize(ctx, bottom, "%b"); err != nil {
		t.Fatalf("Resize(bottom) error: %v", err)
	}
	if got := g.resized["%b"]; got != 20 {
		t.Errorf("bottom edge sizes against rows: got %d, want 20", got)
	}
}

func TestReposition(t *testing.T) {
	g := newGeometryHost()
	g.current = "%0"
	engine := New(g, nil)
	cfg := &panel.Config{Name: "files", Edge: host.EdgeLeft}

	if err := engine.Reposition(context.Background(), cfg, "%a"); err != nil {
		t.Fatalf("Reposition() error: %v", err)
	}
	if got := g.moved["%a"]; got != host.EdgeLeft {
		t.Errorf("moved to %q, want left", got)
	}
	if g.current != "%0" {
		t.Errorf("focus after reposition: got %s, want %%0 restored", g.current)
	}
}

func TestReposition_DisabledPerPanel(t *testing.T) {
	g := newGeometryHost()
	engine := New(g, nil)
	cfg := &panel.Config{Name: "files", Edge: host.EdgeLeft, Reposition: boolPtr(false)}

	if err := engine.Reposition(context.Background(), cfg, "%a"); err != nil {
		t.Fatalf("Reposition() error: %v", err)
	}
	if len(g.moved) != 0 {
		t.Errorf("disabled reposition still moved the window: %v", g.moved)
	}
}

func TestReposition_GlobalDisableOverridable(t *testing.T) {
	g := newGeometryHost()
	globals := panel.DefaultGlobals()
	globals.Reposition = false
	engine := New(g, globals)
	ctx := context.Background()

	if err := engine.Reposition(ctx, &panel.Config{Name: "files", Edge: host.EdgeLeft}, "%a"); err != nil {
		t.Fatalf("Reposition() error: %v", err)
	}
	if len(g.moved) != 0 {
		t.Error("global disable ignored")
	}

	forced := &panel.Config{Name: "term", Edge: host.EdgeBottom, Reposition: boolPtr(true)}
	if err := engine.Reposition(ctx, forced, "%b"); err != nil {
		t.Fatalf("Reposition() error: %v", err)
	}
	if g.moved["%b"] != host.EdgeBottom {
		t.Error("panel override did not beat global disable")
	}
}

func TestApplyOptions_PanelWins(t *testing.T) {
	g := newGeometryHost()
	globals := panel.DefaultGlobals()
	globals.Options = map[string]string{"border": "rounded", "dim": "on"}
	engine := New(g, globals)
	cfg := &panel.Config{
		Name:    "files",
		Edge:    host.EdgeLeft,
		Options: map[string]string{"dim": "off"},
	}

	engine.ApplyOptions(context.Background(), cfg, "%a")

	if got := g.winOpts["%a:border"]; got != "rounded" {
		t.Errorf("border: got %q, want global value", got)
	}
	if got := g.winOpts["%a:dim"]; got != "off" {
		t.Errorf("dim: got %q, want panel override", got)
	}
	if got := g.contentOpts["%a:dim"]; got != "off" {
		t.Errorf("content dim: got %q, want panel override", got)
	}
}

func TestEnsureCloseMapping(t *testing.T) {
	g := newGeometryHost()
	engine := New(g, nil)
	ctx := context.Background()

	if err := engine.EnsureCloseMapping(ctx, "%a"); err != nil {
		t.Fatalf("EnsureCloseMapping() error: %v", err)
	}
	if len(g.quitSet) != 1 {
		t.Fatalf("quit mapping installs: got %d, want 1", len(g.quitSet))
	}

	// existing mappings are never overwritten
	g.hasQuit = true
	if err := engine.EnsureCloseMapping(ctx, "%a"); err != nil {
		t.Fatalf("EnsureCloseMapping() error: %v", err)
	}
	if len(g.quitSet) != 1 {
		t.Errorf("quit mapping installs: got %d, want still 1", len(g.quitSet))
	}
}

func TestSnapshotViews_StableHostSkips(t *testing.T) {
	g := newGeometryHost()
	g.stable = true
	g.windows = []host.Window{{ID: "%0"}, {ID: "%a"}}
	engine := New(g, nil)

	snap, err := engine.SnapshotViews(context.Background())
	if err != nil {
		t.Fatalf("SnapshotViews() error: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("stable host produced snapshot: %v", snap)
	}
	if len(g.saved) != 0 {
		t.Error("stable host still queried viewports")
	}
}

func TestSnapshotAndRestoreViews(t *testing.T) {
	g := newGeometryHost()
	g.stable = false
	g.windows = []host.Window{{ID: "%0"}, {ID: "%a"}}
	engine := New(g, nil)
	ctx := context.Background()

	snap, err := engine.SnapshotViews(ctx)
	if err != nil {
		t.Fatalf("SnapshotViews() error: %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("snapshot size: got %d, want 2", len(snap))
	}

	// one window disappeared between snapshot and restore
	g.windows = g.windows[:1]
	engine.RestoreViews(ctx, snap)

	if len(g.restored) != 1 || g.restored[0] != "%0" {
		t.Errorf("restored: got %v, want only %%0", g.restored)
	}
}
