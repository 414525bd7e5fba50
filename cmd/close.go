package cmd

import (
	"github.com/spf13/cobra"

	"github.com/timvw/dockpane/internal/host"
)

var flagExcept string

var closeCmd = &cobra.Command{
	Use:   "close <panel>",
	Short: "Close a panel if it is open",
	Long: `Close the named panel's window and block until the host no longer lists
it. A panel with no live window is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, shutdown, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		return a.ctrl.Close(cmd.Context(), args[0])
	},
}

var sideCmd = &cobra.Command{
	Use:   "side <edge>",
	Short: "Close every panel at an edge",
	Long: `Close every live panel at the given edge (left, right, top, bottom).
Use --except to keep one panel open.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		edge, err := host.ParseEdge(args[0])
		if err != nil {
			return err
		}
		a, shutdown, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		return a.ctrl.CloseSideExcept(cmd.Context(), edge, flagExcept)
	},
}

var closeAllCmd = &cobra.Command{
	Use:   "close-all",
	Short: "Close every panel on every edge",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, shutdown, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		return a.ctrl.CloseAll(cmd.Context())
	},
}

func init() {
	sideCmd.Flags().StringVar(&flagExcept, "except", "", "panel name to leave open")
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(sideCmd)
	rootCmd.AddCommand(closeAllCmd)
}
