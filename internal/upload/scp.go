package upload

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kebairia/sqlbackup/internal/config"
	"github.com/kebairia/sqlbackup/internal/logger"
)

// scpUploader shells out to scp per file. Authentication is whatever the
// operator's SSH setup provides (agent, key); per-file failures are
// logged and the remaining files still go out.
type scpUploader struct {
	cfg config.RemoteConfig
	log logger.Logger
}

func newSCPUploader(cfg config.RemoteConfig) *scpUploader {
	return &scpUploader{cfg: cfg, log: logger.Global()}
}

func (u *scpUploader) Protocol() string { return "scp" }

func (u *scpUploader) Upload(ctx context.Context, localDir string, files []string) error {
	target := fmt.Sprintf("%s@%s:%s", u.cfg.Username, u.cfg.Host, u.cfg.RemoteDirectory)
	var failed int
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		u.log.Info("uploading", "file", name, "target", target)

		var stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, "scp",
			"-P", fmt.Sprint(u.cfg.Port),
			filepath.Join(localDir, name),
			target,
		)
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			failed++
			u.log.Error("scp upload failed",
				"file", name,
				"error", err.Error(),
				"stderr", strings.TrimSpace(stderr.String()),
			)
		}
	}
	if failed > 0 {
		return fmt.Errorf("scp: %d of %d uploads failed", failed, len(files))
	}
	return nil
}
