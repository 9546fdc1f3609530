package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/kebairia/sqlbackup/internal/config"
	"github.com/kebairia/sqlbackup/internal/logger"
)

// ftpUploader transfers files over plain FTP.
type ftpUploader struct {
	cfg config.RemoteConfig
	log logger.Logger
}

func newFTPUploader(cfg config.RemoteConfig) *ftpUploader {
	return &ftpUploader{cfg: cfg, log: logger.Global()}
}

func (u *ftpUploader) Protocol() string { return "ftp" }

func (u *ftpUploader) Upload(ctx context.Context, localDir string, files []string) error {
	addr := fmt.Sprintf("%s:%d", u.cfg.Host, u.cfg.Port)
	conn, err := ftp.Dial(addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("ftp dial %s: %w", addr, err)
	}
	defer conn.Quit()

	if err := conn.Login(u.cfg.Username, u.cfg.Password); err != nil {
		return fmt.Errorf("ftp login: %w", err)
	}

	if err := conn.ChangeDir(u.cfg.RemoteDirectory); err != nil {
		if err := conn.MakeDir(u.cfg.RemoteDirectory); err != nil {
			return fmt.Errorf("create remote directory %q: %w", u.cfg.RemoteDirectory, err)
		}
		if err := conn.ChangeDir(u.cfg.RemoteDirectory); err != nil {
			return fmt.Errorf("enter remote directory %q: %w", u.cfg.RemoteDirectory, err)
		}
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		u.log.Info("uploading", "file", name, "host", u.cfg.Host, "dir", u.cfg.RemoteDirectory)
		src, err := os.Open(filepath.Join(localDir, name))
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		err = conn.Stor(name, src)
		src.Close()
		if err != nil {
			return fmt.Errorf("store %s: %w", name, err)
		}
	}
	return nil
}
