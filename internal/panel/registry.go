package panel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/timvw/dockpane/internal/host"
)

// ErrUnknownPanel is returned by operations referencing a name that was
// never registered.
var ErrUnknownPanel = errors.New("unknown panel")

// ConfigError reports a malformed panel registration. It is fatal to the
// Register call only; existing registry state is untouched.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid panel config: %s: %s", e.Field, e.Reason)
}

// Registry indexes panel configs by name and by edge. Registration order
// per edge is preserved and drives deterministic iteration when scanning
// for live windows.
//
// The registry is guarded so the status view can snapshot it while a
// control operation runs; control operations themselves never overlap.
type Registry struct {
	mu     sync.RWMutex
	panels map[string]*Config
	edges  map[host.Edge][]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		panels: make(map[string]*Config),
		edges:  make(map[host.Edge][]string),
	}
}

// Register inserts or overwrites a panel config by name. Re-registering an
// existing name replaces the config without duplicating its edge index
// entry, so tie-break order stays stable.
func (r *Registry) Register(cfg *Config) error {
	if cfg == nil || cfg.Name == "" {
		return &ConfigError{Field: "name", Reason: "required"}
	}
	if cfg.Edge == "" {
		return &ConfigError{Field: "edge", Reason: "required"}
	}
	if _, err := host.ParseEdge(string(cfg.Edge)); err != nil {
		return &ConfigError{Field: "edge", Reason: err.Error()}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, existed := r.panels[cfg.Name]
	r.panels[cfg.Name] = cfg

	if existed && prev.Edge != cfg.Edge {
		r.edges[prev.Edge] = removeName(r.edges[prev.Edge], cfg.Name)
		existed = false
	}
	if !existed {
		r.edges[cfg.Edge] = append(r.edges[cfg.Edge], cfg.Name)
	}
	return nil
}

// Get returns the config for name, or false if unknown.
func (r *Registry) Get(name string) (*Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.panels[name]
	return cfg, ok
}

// All returns an unordered snapshot of every registered config.
func (r *Registry) All() []*Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Config, 0, len(r.panels))
	for _, cfg := range r.panels {
		out = append(out, cfg)
	}
	return out
}

// NamesAtEdge returns the panel names registered for edge, in registration
// order.
func (r *Registry) NamesAtEdge(edge host.Edge) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := r.edges[edge]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func removeName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
