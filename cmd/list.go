package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered panels and their state",
	Long: `List every registered panel grouped by edge, in registration order, with
its live/closed state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, shutdown, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()

		states, err := a.ctrl.EdgeStates(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read panel state: %w", err)
		}

		for _, st := range states {
			for _, p := range st.Panels {
				state := "closed"
				switch {
				case p.Focused:
					state = "focused"
				case p.Live:
					state = "open"
				}
				fmt.Printf("%s\t%s\t%s\n", st.Edge, p.Name, state)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
