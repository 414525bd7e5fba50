package cmd

import (
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <panel>",
	Short: "Open a panel, closing non-exempt siblings at its edge",
	Long: `Open the named panel. Every other live panel at the same edge is closed
first (unless the panel's exempt_from patterns allow it to stay), and the
command blocks until those windows are confirmed gone. An already-open
panel is simply focused.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, shutdown, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		return a.ctrl.Open(cmd.Context(), args[0])
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch <panel>",
	Short: "Switch to a panel (alias of open)",
	Long: `Switch to the named panel. Identical to open: siblings at the edge are
closed, and a target that is already open is only focused, never
re-laid-out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, shutdown, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		return a.ctrl.Open(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(switchCmd)
}
