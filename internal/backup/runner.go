package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kebairia/sqlbackup/internal/archive"
	"github.com/kebairia/sqlbackup/internal/config"
	"github.com/kebairia/sqlbackup/internal/logger"
)

// Source is the database server the run reads from: connectivity check,
// enumeration and per-database dumps. mysql.Client implements it.
type Source interface {
	Check(ctx context.Context) error
	ListDatabases(ctx context.Context) ([]string, error)
	Dump(ctx context.Context, database, destPath string) (int64, error)
}

// Observer receives progress callbacks as the run advances. It is purely
// a reporting hook; the run works the same with none attached.
type Observer interface {
	Begin()
	Row(Result)
	End(*Report)
}

// CompressFunc matches archive.Compress and exists so tests can swap the
// archiving step out.
type CompressFunc func(ctx context.Context, rawPath, finalPath string, format archive.Format) (int64, error)

// RunnerOption overrides a Runner default.
type RunnerOption func(*Runner)

// WithObserver attaches a progress observer.
func WithObserver(obs Observer) RunnerOption {
	return func(r *Runner) { r.observer = obs }
}

// WithStamp overrides the run-date stamp embedded in artifact names.
func WithStamp(stamp string) RunnerOption {
	return func(r *Runner) { r.stamp = stamp }
}

// WithCompress overrides the archiving step.
func WithCompress(fn CompressFunc) RunnerOption {
	return func(r *Runner) { r.compress = fn }
}

// Runner drives one backup run: enumerate, filter, dump, archive, record.
// Databases are processed strictly one at a time; the external tools are
// blocking subprocesses and concurrent dumps would contend for server
// snapshots and local disk.
type Runner struct {
	dir      string
	format   archive.Format
	patterns []string
	source   Source
	compress CompressFunc
	observer Observer
	stamp    string
	log      logger.Logger
}

// NewRunner builds a Runner from the validated configuration. The run-date
// stamp is captured here, once per process, so every artifact of the run
// shares it even if the run crosses midnight. An unrecognized archive
// format falls back to plain .sql output with a warning.
func NewRunner(cfg config.Config, source Source, opts ...RunnerOption) *Runner {
	log := logger.Global()

	format, ok := archive.ParseFormat(cfg.Backup.ArchiveFormat)
	if !ok {
		log.Warn("unknown archive format, storing plain .sql dumps instead",
			"archive_format", cfg.Backup.ArchiveFormat,
		)
	}

	r := &Runner{
		dir:      cfg.Backup.Dir,
		format:   format,
		patterns: cfg.IgnoredPatterns(),
		source:   source,
		compress: archive.Compress,
		stamp:    time.Now().Format("2006-01-02"),
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stamp returns the run-date stamp used in artifact names.
func (r *Runner) Stamp() string { return r.stamp }

// Run performs the whole backup run and returns its report. An error
// return means a fatal pre-run failure (backup directory, connectivity,
// or enumeration); per-database failures never surface here, they are
// recorded in the report and the run moves on.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := ensureWritableDir(r.dir); err != nil {
		return nil, err
	}
	if err := r.source.Check(ctx); err != nil {
		return nil, err
	}
	databases, err := r.source.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if r.observer != nil {
		r.observer.Begin()
	}
	for _, database := range databases {
		var res Result
		if Matches(database, r.patterns) {
			res = Result{Database: database, Status: StatusSkipped}
		} else {
			start := time.Now()
			res = r.backupOne(ctx, database)
			res.Elapsed = time.Since(start).Seconds()
		}
		report.add(res)
		if r.observer != nil {
			r.observer.Row(res)
		}
	}
	if r.observer != nil {
		r.observer.End(report)
	}

	r.log.Info("run finished",
		"databases", len(report.Results),
		"errors", len(report.Errors),
	)
	return report, nil
}

// backupOne dumps and archives a single database. Any failure yields an
// Error result with zero sizes and no artifact left on disk.
func (r *Runner) backupOne(ctx context.Context, database string) Result {
	rawPath := filepath.Join(r.dir, fmt.Sprintf("%s-%s.sql", database, r.stamp))

	dumpSize, err := r.source.Dump(ctx, database, rawPath)
	if err != nil {
		r.log.Error("dump failed", "database", database, "error", err.Error())
		os.Remove(rawPath)
		return Result{Database: database, Status: StatusError}
	}

	if r.format == archive.FormatNone {
		// The raw dump is the artifact.
		return Result{
			Database:    database,
			Status:      StatusSuccess,
			DumpSize:    dumpSize,
			ArchiveSize: dumpSize,
		}
	}

	finalPath := filepath.Join(r.dir, database+"-"+r.stamp+r.format.Ext())
	archiveSize, err := r.compress(ctx, rawPath, finalPath, r.format)
	os.Remove(rawPath)
	if err != nil {
		r.log.Error("archive failed",
			"database", database,
			"format", string(r.format),
			"error", err.Error(),
		)
		os.Remove(finalPath)
		return Result{Database: database, Status: StatusError}
	}

	return Result{
		Database:    database,
		Status:      StatusSuccess,
		DumpSize:    dumpSize,
		ArchiveSize: archiveSize,
	}
}

// ensureWritableDir creates the backup directory if needed and probes it
// for write permission before any per-database work begins.
func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup directory %q: %w", dir, err)
	}
	probe, err := os.CreateTemp(dir, ".writecheck-*")
	if err != nil {
		return fmt.Errorf("backup directory %q is not writable: %w", dir, err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}
