// Package notify carries advisory panel-state notifications to status
// displays. Notifications are push-only and fire-and-forget: sinks never
// feed back into control flow.
package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/timvw/dockpane/internal/host"
)

// Status reports the active panel for one edge at a settle point. Panel is
// empty when the edge holds no live panel.
type Status struct {
	Edge  host.Edge `json:"edge"`
	Panel string    `json:"panel,omitempty"`
	TS    time.Time `json:"ts"`
}

// Sink receives status pushes. Implementations must not block; errors are
// swallowed by the caller.
type Sink interface {
	ActivePanel(ctx context.Context, s Status)
}

// Multi fans a status push out to several sinks.
type Multi []Sink

// ActivePanel forwards to every sink in order.
func (m Multi) ActivePanel(ctx context.Context, s Status) {
	for _, sink := range m {
		sink.ActivePanel(ctx, s)
	}
}

// Store retains the most recent status per edge for display snapshots.
type Store struct {
	mu   sync.RWMutex
	data map[host.Edge]Status
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: make(map[host.Edge]Status)}
}

// ActivePanel implements Sink.
func (s *Store) ActivePanel(_ context.Context, st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[st.Edge] = st
}

// Snapshot returns the latest status per edge, sorted by edge name for
// stable display.
func (s *Store) Snapshot() []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Status, 0, len(s.data))
	for _, st := range s.data {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Edge < out[j].Edge })
	return out
}
