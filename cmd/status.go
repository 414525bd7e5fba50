package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/dockpane/internal/statusui"
)

var (
	flagOnce  bool
	flagTheme string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Interactive panel board",
	Long: `Launch an interactive board showing every registered panel per edge, with
keys to open, close, and toggle them. With --once, print a one-shot snapshot
instead (for status-line scripts).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, shutdown, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()

		if flagOnce {
			states, err := a.ctrl.EdgeStates(cmd.Context())
			if err != nil {
				return err
			}
			for _, st := range states {
				active := ""
				for _, p := range st.Panels {
					if p.Live {
						active = p.Name
						break
					}
				}
				fmt.Printf("%s\t%s\n", st.Edge, active)
			}
			return nil
		}

		theme := statusui.DarkTheme()
		if flagTheme == "light" {
			theme = statusui.LightTheme()
		}
		tui := &statusui.TUI{
			Controller:      a.ctrl,
			RefreshInterval: a.cfg.RefreshDuration,
			Theme:           theme,
		}
		return tui.Run(cmd.Context())
	},
}

func init() {
	statusCmd.Flags().BoolVar(&flagOnce, "once", false, "print a snapshot and exit")
	statusCmd.Flags().StringVar(&flagTheme, "theme", "dark", "color theme: dark, light")
	rootCmd.AddCommand(statusCmd)
}
