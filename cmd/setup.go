package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/dockpane/internal/host"
)

var flagWindow string

var setupCmd = &cobra.Command{
	Use:   "setup <panel>",
	Short: "Apply a panel's layout to a window that opened itself",
	Long: `Reconcile a panel window that became visible outside dockpane: position,
size, options, and the close key mapping are applied idempotently. Sibling
panels at the edge are left untouched.

Without --window the panel's window is located by its match patterns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, shutdown, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()

		name := args[0]
		id := host.WindowID(flagWindow)
		if id == "" {
			cfg, ok := a.ctrl.Registry.Get(name)
			if !ok {
				// let SetupWindow produce the canonical unknown-panel error
				return a.ctrl.SetupWindow(cmd.Context(), name, "")
			}
			resolved, found, err := a.ctrl.Locator.Resolve(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("panel %q has no live window to set up", name)
			}
			id = resolved
		}
		return a.ctrl.SetupWindow(cmd.Context(), name, id)
	},
}

func init() {
	setupCmd.Flags().StringVar(&flagWindow, "window", "", "window id to reconcile (default: locate by match patterns)")
	rootCmd.AddCommand(setupCmd)
}
