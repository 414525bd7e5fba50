package cmd

import (
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <panel>",
	Short: "Toggle a panel open or closed",
	Long: `Toggle the named panel. Non-exempt siblings at the edge are closed either
way; if the panel itself was open it is closed too, leaving the edge empty.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, shutdown, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()
		return a.ctrl.Toggle(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}
