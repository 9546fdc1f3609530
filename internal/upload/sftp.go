package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/kebairia/sqlbackup/internal/config"
	"github.com/kebairia/sqlbackup/internal/logger"
)

// sftpUploader transfers files over SFTP, authenticating with a private
// key file when one is configured and falling back to password auth.
type sftpUploader struct {
	cfg config.RemoteConfig
	log logger.Logger
}

func newSFTPUploader(cfg config.RemoteConfig) *sftpUploader {
	return &sftpUploader{cfg: cfg, log: logger.Global()}
}

func (u *sftpUploader) Protocol() string { return "sftp" }

// authMethods builds the SSH auth chain: key file first, then password.
func (u *sftpUploader) authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if u.cfg.KeyFile != "" {
		keyData, err := os.ReadFile(u.cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("read SSH key %s: %w", u.cfg.KeyFile, err)
		}
		var signer ssh.Signer
		if u.cfg.KeyPassphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(u.cfg.KeyPassphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(keyData)
		}
		if err != nil {
			return nil, fmt.Errorf("parse SSH key %s: %w", u.cfg.KeyFile, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if u.cfg.Password != "" {
		methods = append(methods, ssh.Password(u.cfg.Password))
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no SSH authentication method available")
	}
	return methods, nil
}

func (u *sftpUploader) Upload(ctx context.Context, localDir string, files []string) error {
	methods, err := u.authMethods()
	if err != nil {
		return err
	}

	sshCfg := &ssh.ClientConfig{
		User: u.cfg.Username,
		Auth: methods,
		// Backup targets are operator-managed hosts; host keys are not
		// pinned, matching the transfer tools this replaces.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", u.cfg.Host, u.cfg.Port)
	sshClient, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return fmt.Errorf("ssh dial %s: %w", addr, err)
	}
	defer sshClient.Close()

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("sftp session: %w", err)
	}
	defer client.Close()

	remoteDir := u.cfg.RemoteDirectory
	if err := client.MkdirAll(remoteDir); err != nil {
		return fmt.Errorf("create remote directory %q: %w", remoteDir, err)
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		remotePath := path.Join(remoteDir, name)
		u.log.Info("uploading", "file", name, "host", u.cfg.Host, "path", remotePath)
		if err := u.put(client, filepath.Join(localDir, name), remotePath); err != nil {
			return fmt.Errorf("upload %s: %w", name, err)
		}
	}
	return nil
}

func (u *sftpUploader) put(client *sftp.Client, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := client.Create(remotePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
