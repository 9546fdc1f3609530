package cmd

import (
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up all databases without uploading or notifying",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := setup(ctx)
		if err != nil {
			return err
		}
		report, _, err := executeBackups(ctx, cfg)
		if err != nil {
			return err
		}
		return strictExit(report)
	},
}

func init() {
	backupCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any database backup fails")
}
