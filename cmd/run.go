package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kebairia/sqlbackup/internal/backup"
	"github.com/kebairia/sqlbackup/internal/config"
	"github.com/kebairia/sqlbackup/internal/logger"
	"github.com/kebairia/sqlbackup/internal/mysql"
	"github.com/kebairia/sqlbackup/internal/notify"
	"github.com/kebairia/sqlbackup/internal/schedule"
	"github.com/kebairia/sqlbackup/internal/upload"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Back up all databases, then upload and notify per config",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := setup(ctx)
		if err != nil {
			return err
		}

		report, stamp, err := executeBackups(ctx, cfg)
		if err != nil {
			return err
		}

		if cfg.Remote.Enabled {
			if schedule.ShouldRun(cfg.Remote.UploadSchedule, time.Now()) {
				uploadRun(ctx, cfg, stamp)
			} else {
				logger.Global().Info("upload schedule not due today",
					"schedule", cfg.Remote.UploadSchedule)
			}
		}

		notify.NewManager(cfg.Notification).NotifyAll(ctx, reportMessage(report))

		return strictExit(report)
	},
}

func init() {
	runCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any database backup fails")
}

// executeBackups performs the backup run with a progress table attached
// and returns the report plus the run-date stamp its artifacts carry.
func executeBackups(ctx context.Context, cfg config.Config) (*backup.Report, string, error) {
	client, err := mysql.NewClient(cfg)
	if err != nil {
		return nil, "", err
	}
	defer client.Close()

	runner := backup.NewRunner(cfg, client, backup.WithObserver(backup.NewTable()))
	report, err := runner.Run(ctx)
	if err != nil {
		return nil, "", err
	}
	return report, runner.Stamp(), nil
}

// uploadRun pushes the current run's artifacts to the remote target.
// Transfer problems are logged, never fatal.
func uploadRun(ctx context.Context, cfg config.Config, stamp string) {
	log := logger.Global()

	files, err := upload.Files(cfg.Backup.Dir, stamp)
	if err != nil {
		log.Error("listing backup files failed", "error", err.Error())
		return
	}
	if len(files) == 0 {
		log.Warn("no backup files found for upload", "stamp", stamp)
		return
	}

	uploader, err := upload.New(cfg.Remote)
	if err != nil {
		log.Error("upload setup failed", "error", err.Error())
		return
	}
	if err := uploader.Upload(ctx, cfg.Backup.Dir, files); err != nil {
		log.Error("upload failed", "protocol", uploader.Protocol(), "error", err.Error())
		return
	}
	log.Info("upload completed", "protocol", uploader.Protocol(), "files", len(files))
}

// reportMessage renders the notification text: the run summary, headed
// by the failure list when the run had errors.
func reportMessage(report *backup.Report) string {
	if len(report.Errors) == 0 {
		return "Backup completed successfully.\n" + report.Summary()
	}
	return fmt.Sprintf("Backup completed with errors (%s).\n%s",
		strings.Join(report.Errors, ", "), report.Summary())
}

// strictExit turns per-database failures into a process failure when the
// strict policy is active; otherwise a completed run exits zero.
func strictExit(report *backup.Report) error {
	if strict && len(report.Errors) > 0 {
		return fmt.Errorf("%d database backup(s) failed: %s",
			len(report.Errors), strings.Join(report.Errors, ", "))
	}
	return nil
}
