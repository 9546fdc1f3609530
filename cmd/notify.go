package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kebairia/sqlbackup/internal/notify"
)

var notifyCmd = &cobra.Command{
	Use:   "notify <message>",
	Short: "Send a message through the configured notification channels",
	Long: `Sends an arbitrary message on every configured channel. Useful
for verifying channel credentials before relying on scheduled runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := setup(ctx)
		if err != nil {
			return err
		}
		notify.NewManager(cfg.Notification).NotifyAll(ctx, strings.Join(args, " "))
		return nil
	},
}
