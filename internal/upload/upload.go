// Package upload transfers the current run's archive artifacts to a
// remote host. Transfer failures are logged and never affect the run
// report.
package upload

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kebairia/sqlbackup/internal/config"
)

// Uploader pushes a set of files from the local backup directory to the
// configured remote target.
type Uploader interface {
	Protocol() string
	Upload(ctx context.Context, localDir string, files []string) error
}

// New builds the Uploader for the configured protocol.
func New(cfg config.RemoteConfig) (Uploader, error) {
	switch strings.ToLower(cfg.Protocol) {
	case "sftp":
		return newSFTPUploader(cfg), nil
	case "ftp":
		return newFTPUploader(cfg), nil
	case "scp":
		return newSCPUploader(cfg), nil
	}
	return nil, fmt.Errorf("unsupported protocol: %q", cfg.Protocol)
}

// Files lists the names in backupDir belonging to the given run-date
// stamp. The stamp sits between the database name and the extension, so
// matching on "-<stamp>." picks up every artifact of that run regardless
// of archive format.
func Files(backupDir, stamp string) ([]string, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return nil, fmt.Errorf("read backup directory %q: %w", backupDir, err)
	}
	marker := "-" + stamp + "."
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.Contains(e.Name(), marker) {
			files = append(files, e.Name())
		}
	}
	return files, nil
}
