package mysql

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kebairia/sqlbackup/internal/config"
	"github.com/kebairia/sqlbackup/internal/logger"
)

var (
	// ErrConnect means the server did not answer the connectivity check.
	ErrConnect = errors.New("mysql connection failed")
	// ErrList means SHOW DATABASES failed; the run cannot proceed.
	ErrList = errors.New("database listing failed")
	// ErrDump means mysqldump exited non-zero for one database.
	ErrDump = errors.New("mysqldump failed")
)

// Client drives the external mysql and mysqldump binaries for one server.
// Credentials are passed through a temporary defaults-extra-file so they
// never appear in process argument lists.
type Client struct {
	mysqlPath     string
	mysqldumpPath string
	defaultsFile  string
	export        config.ExportConfig
	log           logger.Logger
}

// NewClient writes the client defaults file and returns a ready Client.
// Call Close to remove the defaults file.
func NewClient(cfg config.Config) (*Client, error) {
	f, err := os.CreateTemp("", "sqlbackup-client-*.cnf")
	if err != nil {
		return nil, fmt.Errorf("create client defaults file: %w", err)
	}
	var b strings.Builder
	b.WriteString("[client]\n")
	fmt.Fprintf(&b, "user = %s\n", cfg.MySQL.User)
	fmt.Fprintf(&b, "password = %s\n", cfg.MySQL.Password)
	fmt.Fprintf(&b, "host = %s\n", cfg.MySQL.Host)
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("write client defaults file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("close client defaults file: %w", err)
	}

	return &Client{
		mysqlPath:     cfg.MySQL.MySQLPath,
		mysqldumpPath: cfg.MySQL.MySQLDumpPath,
		defaultsFile:  f.Name(),
		export:        cfg.Export,
		log:           logger.Global(),
	}, nil
}

// Close removes the temporary defaults file.
func (c *Client) Close() error {
	if c.defaultsFile == "" {
		return nil
	}
	err := os.Remove(c.defaultsFile)
	c.defaultsFile = ""
	return err
}

// Check verifies connectivity by running a trivial statement. A failure
// here is fatal for the whole run.
func (c *Client) Check(ctx context.Context) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.mysqlPath,
		"--defaults-extra-file="+c.defaultsFile,
		"-e", "SELECT 1;",
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConnect, strings.TrimSpace(stderr.String()), err)
	}
	c.log.Info("mysql connection successful")
	return nil
}

// ListDatabases returns every database name visible to the configured
// credentials, in server order.
func (c *Client) ListDatabases(ctx context.Context) ([]string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.mysqlPath,
		"--defaults-extra-file="+c.defaultsFile,
		"-e", "SHOW DATABASES;",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrList, strings.TrimSpace(stderr.String()), err)
	}
	return parseDatabaseList(stdout.String()), nil
}

// parseDatabaseList splits the raw SHOW DATABASES output, dropping the
// header line the client prints before the names.
func parseDatabaseList(out string) []string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) <= 1 {
		return nil
	}
	names := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Dump runs mysqldump for one database, streaming the output into
// destPath, and returns the dump size measured from disk. A non-zero exit
// is a per-database error; the caller owns cleanup of destPath.
func (c *Client) Dump(ctx context.Context, database, destPath string) (int64, error) {
	out, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("create dump file %q: %w", destPath, err)
	}
	defer out.Close()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.mysqldumpPath, c.dumpArgs(database)...)
	cmd.Stdout = out
	cmd.Stderr = &stderr

	c.log.Debug("dump started", "database", database, "path", destPath)
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%w for %q: %s: %v", ErrDump, database, strings.TrimSpace(stderr.String()), err)
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return 0, fmt.Errorf("stat dump file %q: %w", destPath, err)
	}
	return info.Size(), nil
}

// dumpArgs builds the mysqldump invocation: a fixed baseline plus the
// configurable export flags.
func (c *Client) dumpArgs(database string) []string {
	args := []string{
		"--defaults-extra-file=" + c.defaultsFile,
		"--default-character-set=utf8mb4",
		"--single-transaction",
		"--force",
		"--opt",
	}
	if c.export.IncludeRoutines {
		args = append(args, "--routines")
	}
	if c.export.IncludeEvents {
		args = append(args, "--events")
	}
	// Older restore targets choke on the statistics queries newer
	// mysqldump issues, so suppression is the default.
	if !c.export.ColumnStatistics {
		args = append(args, "--column-statistics=0")
	}
	return append(args, "--databases", database)
}
