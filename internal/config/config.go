// Package config loads dockpane configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (DOCKPANE_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .dockpane.yaml in current directory
//  2. ~/.config/dockpane/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/timvw/dockpane/internal/host"
	"github.com/timvw/dockpane/internal/panel"
)

// Match declares how a panel's live window is recognized: regular
// expressions tested against the window title and/or running command.
// Both, when given, must match.
type Match struct {
	Title   string `yaml:"title"`
	Command string `yaml:"command"`
}

// Panel is the declarative form of one panel.
type Panel struct {
	Name string `yaml:"name"`
	Edge string `yaml:"edge"`

	// Open and Close are host command lines. Close is optional; the host's
	// generic close-window call is the default.
	Open  string `yaml:"open"`
	Close string `yaml:"close"`

	Match Match `yaml:"match"`

	// Size >= 1 is absolute cells; (0,1) is a fraction of the surface.
	Size float64 `yaml:"size"`

	// Reposition overrides the global flag when present.
	Reposition *bool `yaml:"reposition"`

	Options map[string]string `yaml:"options"`

	// ExemptFrom lists regexes matched against sibling panel names that may
	// stay open alongside this panel.
	ExemptFrom []string `yaml:"exempt_from"`
}

// Config holds all dockpane configuration.
type Config struct {
	// Layout defaults
	Reposition          *bool              `yaml:"reposition"`
	CloseWhenOnlyPanels bool               `yaml:"close_when_only_panels"`
	EdgeSizes           map[string]float64 `yaml:"edge_sizes"`
	Options             map[string]string  `yaml:"options"`

	Panels []Panel `yaml:"panels"`

	// StatusSocket, when set, publishes status frames to a unix socket.
	StatusSocket string `yaml:"status_socket"`

	// Timing (Go duration strings)
	PollInterval string `yaml:"poll_interval"` // between close-completion polls
	CloseTimeout string `yaml:"close_timeout"` // bound on close waits, "0" disables
	Refresh      string `yaml:"refresh"`       // status TUI auto-refresh

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"`

	// Parsed durations (not from YAML, set after loading)
	PollIntervalDuration time.Duration `yaml:"-"`
	CloseTimeoutDuration time.Duration `yaml:"-"`
	RefreshDuration      time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		PollInterval: "50ms",
		CloseTimeout: "5s",
		Refresh:      "2s",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	var err error
	cfg.PollIntervalDuration, err = parseDurationOrDisable(cfg.PollInterval, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("invalid poll interval %q: %w", cfg.PollInterval, err)
	}
	cfg.CloseTimeoutDuration, err = parseDurationOrDisable(cfg.CloseTimeout, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid close timeout %q: %w", cfg.CloseTimeout, err)
	}
	cfg.RefreshDuration, err = parseDurationOrDisable(cfg.Refresh, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh interval %q: %w", cfg.Refresh, err)
	}

	return cfg, nil
}

// Globals converts the layout defaults into the panel package's form.
func (c *Config) Globals() *panel.Globals {
	g := panel.DefaultGlobals()
	if c.Reposition != nil {
		g.Reposition = *c.Reposition
	}
	g.CloseWhenOnlyPanels = c.CloseWhenOnlyPanels
	for name, size := range c.EdgeSizes {
		if edge, err := host.ParseEdge(name); err == nil {
			g.EdgeSizes[edge] = size
		}
	}
	if len(c.Options) > 0 {
		g.Options = make(map[string]string, len(c.Options))
		for k, v := range c.Options {
			g.Options[k] = v
		}
	}
	return g
}

// BuildRegistry registers every declared panel. The first malformed panel
// aborts the build.
func (c *Config) BuildRegistry() (*panel.Registry, error) {
	reg := panel.NewRegistry()
	for _, p := range c.Panels {
		cfg, err := p.compile()
		if err != nil {
			return nil, fmt.Errorf("panel %q: %w", p.Name, err)
		}
		if err := reg.Register(cfg); err != nil {
			return nil, fmt.Errorf("panel %q: %w", p.Name, err)
		}
	}
	return reg, nil
}

// compile turns the declarative panel into a registrable config, compiling
// its match and exemption patterns.
func (p Panel) compile() (*panel.Config, error) {
	var titleRe, commandRe *regexp.Regexp
	var err error
	if p.Match.Title != "" {
		titleRe, err = regexp.Compile(p.Match.Title)
		if err != nil {
			return nil, fmt.Errorf("invalid title pattern %q: %w", p.Match.Title, err)
		}
	}
	if p.Match.Command != "" {
		commandRe, err = regexp.Compile(p.Match.Command)
		if err != nil {
			return nil, fmt.Errorf("invalid command pattern %q: %w", p.Match.Command, err)
		}
	}
	if titleRe == nil && commandRe == nil {
		return nil, fmt.Errorf("match requires a title or command pattern")
	}

	var exempt []*regexp.Regexp
	for _, pattern := range p.ExemptFrom {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exempt_from pattern %q: %w", pattern, err)
		}
		exempt = append(exempt, re)
	}

	cfg := &panel.Config{
		Name: p.Name,
		Edge: host.Edge(p.Edge),
		Locator: panel.Locator{
			Match: func(w host.Window) bool {
				if titleRe != nil && !titleRe.MatchString(w.Title) {
					return false
				}
				if commandRe != nil && !commandRe.MatchString(w.Command) {
					return false
				}
				return true
			},
		},
		Size:       p.Size,
		Reposition: p.Reposition,
		Options:    p.Options,
		ExemptFrom: exempt,
	}
	if p.Open != "" {
		cfg.Open = panel.Action{Command: p.Open}
	}
	if p.Close != "" {
		cfg.Close = panel.Action{Command: p.Close}
	}
	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".dockpane.yaml"); err == nil {
		return ".dockpane.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "dockpane", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Reposition != nil {
		cfg.Reposition = file.Reposition
	}
	if file.CloseWhenOnlyPanels {
		cfg.CloseWhenOnlyPanels = file.CloseWhenOnlyPanels
	}
	if len(file.EdgeSizes) > 0 {
		cfg.EdgeSizes = file.EdgeSizes
	}
	if len(file.Options) > 0 {
		cfg.Options = file.Options
	}
	if len(file.Panels) > 0 {
		cfg.Panels = file.Panels
	}
	if file.StatusSocket != "" {
		cfg.StatusSocket = file.StatusSocket
	}
	if file.PollInterval != "" {
		cfg.PollInterval = file.PollInterval
	}
	if file.CloseTimeout != "" {
		cfg.CloseTimeout = file.CloseTimeout
	}
	if file.Refresh != "" {
		cfg.Refresh = file.Refresh
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("DOCKPANE_SOCKET"); v != "" {
		cfg.StatusSocket = v
	}
	if v := os.Getenv("DOCKPANE_POLL_INTERVAL"); v != "" {
		cfg.PollInterval = v
	}
	if v := os.Getenv("DOCKPANE_CLOSE_TIMEOUT"); v != "" {
		cfg.CloseTimeout = v
	}
	if v := os.Getenv("DOCKPANE_REFRESH"); v != "" {
		cfg.Refresh = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable"
// return 0. Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
