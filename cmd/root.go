package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/dockpane/internal/config"
	"github.com/timvw/dockpane/internal/control"
	"github.com/timvw/dockpane/internal/host"
	"github.com/timvw/dockpane/internal/notify"
	telem "github.com/timvw/dockpane/internal/otel"
)

// Version is injected by the linker at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dockpane",
	Short: "Edge-docked panel manager for tmux",
	Long: `dockpane coordinates mutually-exclusive panels along the four edges of a
tmux window: at most one panel per edge is visible at a time, and opening a
panel closes the others sharing its edge (unless explicitly exempted).

Panels are declared in .dockpane.yaml or ~/.config/dockpane/config.yaml:
a name, an edge, an open command, and a pattern recognizing the panel's pane.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired controller and its collaborators for one command run.
type app struct {
	cfg   *config.Config
	ctrl  *control.Controller
	store *notify.Store
	tel   *telem.Telemetry
}

// newApp loads configuration and wires the controller over the tmux host.
// The returned shutdown func flushes telemetry and releases the status
// socket; call it before exiting.
func newApp(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	// Wire build version into OTEL service metadata
	telem.Version = Version

	// Initialize OTEL (no-op if no endpoint configured)
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: otel init failed: %v\n", err)
	}

	reg, err := cfg.BuildRegistry()
	if err != nil {
		return nil, nil, err
	}

	ctrl := control.New(host.NewTmux(), reg, cfg.Globals())
	ctrl.PollInterval = cfg.PollIntervalDuration
	ctrl.WaitTimeout = cfg.CloseTimeoutDuration
	if tel != nil {
		ctrl.Metrics = tel.Metrics
	}

	store := notify.NewStore()
	sinks := notify.Multi{store}
	var broadcaster *notify.Broadcaster
	if cfg.StatusSocket != "" {
		broadcaster = notify.NewBroadcaster(cfg.StatusSocket)
		sinks = append(sinks, broadcaster)
	}
	ctrl.Sink = sinks

	shutdown := func() {
		if broadcaster != nil {
			broadcaster.Close()
		}
		if tel != nil {
			tel.Shutdown(ctx)
		}
	}

	return &app{cfg: cfg, ctrl: ctrl, store: store, tel: tel}, shutdown, nil
}
