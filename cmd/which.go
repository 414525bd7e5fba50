package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var whichCmd = &cobra.Command{
	Use:   "which",
	Short: "Report whether the current window is a registered panel",
	Long: `Check whether the currently focused window belongs to a registered panel.
Exits 0 when it does, 1 when it does not, for use in scripts and keybindings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, shutdown, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()

		isPanel, err := a.ctrl.IsPanel(cmd.Context(), "")
		if err != nil {
			return err
		}
		if !isPanel {
			fmt.Println("not a panel")
			os.Exit(1)
		}
		fmt.Println("panel")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whichCmd)
}
