package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kebairia/sqlbackup/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload today's backup files, ignoring the upload schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := setup(ctx)
		if err != nil {
			return err
		}
		if !cfg.Remote.Enabled {
			return fmt.Errorf("remote upload is not enabled in the configuration")
		}

		stamp := time.Now().Format("2006-01-02")
		files, err := upload.Files(cfg.Backup.Dir, stamp)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no backup files found for %s in %s", stamp, cfg.Backup.Dir)
		}

		uploader, err := upload.New(cfg.Remote)
		if err != nil {
			return err
		}
		return uploader.Upload(ctx, cfg.Backup.Dir, files)
	},
}
