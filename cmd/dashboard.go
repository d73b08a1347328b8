package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/gradelens/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <file>",
	Short: "Explore a dataset in the interactive dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, derived, err := loadDataset(cmd, args[0])
		if err != nil {
			return err
		}
		state := dashboard.NewState(ds.Source, derived, ds.Fingerprint, nil)
		return dashboard.Run(cmd.Context(), state)
	},
}

func init() {
	dashboardCmd.Flags().Bool("strict", false, "Reject the input if any value is invalid")
}
