package control

import (
	"context"
	"fmt"
	"time"

	"github.com/timvw/dockpane/internal/host"
)

// fakeHost implements host.Host for controller tests. Closes complete
// asynchronously: a killed window survives closeDelay ListWindows calls
// before disappearing, which forces the close wait to actually poll.
type fakeHost struct {
	windows []host.Window
	current host.WindowID
	prev    host.WindowID

	cols, rows int
	stable     bool

	closeDelay int
	closing    map[host.WindowID]int
	neverClose bool // kill-pane silently fails; windows stay forever

	// openHooks maps a RunCommand string to an effect, typically adding
	// the panel's window.
	openHooks map[string]func()

	// recordings
	commands    []string
	closed      []host.WindowID
	moved       map[host.WindowID]host.Edge
	resized     map[host.WindowID]int
	winOpts     map[string]string
	contentOpts map[string]string
	hasQuit     map[host.WindowID]bool
	quitSet     []host.WindowID
	savedViews  []host.WindowID
	restored    []host.WindowID
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		cols:        100,
		rows:        40,
		stable:      true,
		closeDelay:  2,
		closing:     make(map[host.WindowID]int),
		openHooks:   make(map[string]func()),
		moved:       make(map[host.WindowID]host.Edge),
		resized:     make(map[host.WindowID]int),
		winOpts:     make(map[string]string),
		contentOpts: make(map[string]string),
		hasQuit:     make(map[host.WindowID]bool),
	}
}

func (f *fakeHost) addWindow(id host.WindowID, title string) {
	f.windows = append(f.windows, host.Window{ID: id, Title: title})
}

func (f *fakeHost) hasWindow(id host.WindowID) bool {
	for _, w := range f.windows {
		if w.ID == id {
			return true
		}
	}
	return false
}

func (f *fakeHost) Name() string { return "fake" }

func (f *fakeHost) ListWindows(_ context.Context) ([]host.Window, error) {
	// Advance pending closes one tick per enumeration.
	for id, remaining := range f.closing {
		if remaining <= 1 {
			delete(f.closing, id)
			f.removeWindow(id)
		} else {
			f.closing[id] = remaining - 1
		}
	}
	out := make([]host.Window, len(f.windows))
	copy(out, f.windows)
	return out, nil
}

func (f *fakeHost) removeWindow(id host.WindowID) {
	kept := f.windows[:0]
	for _, w := range f.windows {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	f.windows = kept
	if f.current == id {
		f.current = f.prev
	}
}

func (f *fakeHost) CurrentWindow(_ context.Context) (host.WindowID, error) {
	return f.current, nil
}

func (f *fakeHost) FocusWindow(_ context.Context, id host.WindowID) error {
	if !f.hasWindow(id) {
		return fmt.Errorf("no window %s", id)
	}
	f.prev = f.current
	f.current = id
	return nil
}

func (f *fakeHost) FocusPrevious(_ context.Context) error {
	f.current, f.prev = f.prev, f.current
	return nil
}

func (f *fakeHost) SurfaceSize(_ context.Context) (int, int, error) {
	return f.cols, f.rows, nil
}

func (f *fakeHost) ResizeWindow(_ context.Context, id host.WindowID, _ host.Edge, cells int) error {
	f.resized[id] = cells
	return nil
}

func (f *fakeHost) MoveToEdge(_ context.Context, id host.WindowID, edge host.Edge) error {
	f.moved[id] = edge
	return nil
}

func (f *fakeHost) CloseWindow(_ context.Context, id host.WindowID) error {
	f.closed = append(f.closed, id)
	if f.neverClose {
		return nil
	}
	if f.closeDelay <= 0 {
		f.removeWindow(id)
		return nil
	}
	f.closing[id] = f.closeDelay
	return nil
}

func (f *fakeHost) RunCommand(_ context.Context, command string) error {
	f.commands = append(f.commands, command)
	if hook, ok := f.openHooks[command]; ok {
		hook()
	}
	return nil
}

func (f *fakeHost) SetWindowOption(_ context.Context, id host.WindowID, key, value string) error {
	f.winOpts[string(id)+":"+key] = value
	return nil
}

func (f *fakeHost) SetContentOption(_ context.Context, id host.WindowID, key, value string) error {
	f.contentOpts[string(id)+":"+key] = value
	return nil
}

func (f *fakeHost) HasQuitMapping(_ context.Context, id host.WindowID) (bool, error) {
	return f.hasQuit[id], nil
}

func (f *fakeHost) SetQuitMapping(_ context.Context, id host.WindowID) error {
	f.quitSet = append(f.quitSet, id)
	f.hasQuit[id] = true
	return nil
}

func (f *fakeHost) SaveViewport(_ context.Context, id host.WindowID) (host.Viewport, error) {
	f.savedViews = append(f.savedViews, id)
	return host.Viewport{}, nil
}

func (f *fakeHost) RestoreViewport(_ context.Context, id host.WindowID, _ host.Viewport) error {
	f.restored = append(f.restored, id)
	return nil
}

func (f *fakeHost) StableViewports() bool { return f.stable }

func (f *fakeHost) commandCount(command string) int {
	n := 0
	for _, c := range f.commands {
		if c == command {
			n++
		}
	}
	return n
}

// instantScheduler yields without sleeping so polling loops settle in tests.
type instantScheduler struct {
	polls int
}

func (s *instantScheduler) Sleep(ctx context.Context, _ time.Duration) error {
	s.polls++
	return ctx.Err()
}
