package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kebairia/sqlbackup/internal/archive"
	"github.com/kebairia/sqlbackup/internal/config"
)

// fakeSource stands in for the mysql client: dumps are small files
// written locally, failures are scripted per database.
type fakeSource struct {
	databases []string
	failDump  map[string]bool
	checkErr  error
	listErr   error
}

func (f *fakeSource) Check(ctx context.Context) error { return f.checkErr }

func (f *fakeSource) ListDatabases(ctx context.Context) ([]string, error) {
	return f.databases, f.listErr
}

func (f *fakeSource) Dump(ctx context.Context, database, destPath string) (int64, error) {
	if f.failDump[database] {
		return 0, errors.New("mysqldump exited with status 2")
	}
	data := []byte(fmt.Sprintf("-- dump of %s\nCREATE DATABASE %s;\n", database, database))
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func testConfig(dir, format, ignored string) config.Config {
	var cfg config.Config
	cfg.Backup.Dir = dir
	cfg.Backup.ArchiveFormat = format
	cfg.MySQL.IgnoredDatabases = ignored
	return cfg
}

func TestRunSuccessAndSkip(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{databases: []string{"app_db", "tmp_cache", "analytics"}}
	runner := NewRunner(testConfig(dir, "gz", "tmp_*"), source, WithStamp("2026-01-02"))

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 3, "one result per enumerated database")

	assert.Equal(t, "app_db", report.Results[0].Database)
	assert.Equal(t, StatusSuccess, report.Results[0].Status)
	assert.Equal(t, "tmp_cache", report.Results[1].Database)
	assert.Equal(t, StatusSkipped, report.Results[1].Status)
	assert.Equal(t, "analytics", report.Results[2].Database)
	assert.Equal(t, StatusSuccess, report.Results[2].Status)
	assert.Empty(t, report.Errors)

	// Archives exist, raw dumps are gone.
	for _, db := range []string{"app_db", "analytics"} {
		assert.FileExists(t, filepath.Join(dir, db+"-2026-01-02.sql.gz"))
		assert.NoFileExists(t, filepath.Join(dir, db+"-2026-01-02.sql"))
	}
	assert.NoFileExists(t, filepath.Join(dir, "tmp_cache-2026-01-02.sql.gz"))

	summary := report.Summary()
	assert.Contains(t, summary, "app_db: Success in")
	assert.Contains(t, summary, "analytics: Success in")
	assert.NotContains(t, summary, "tmp_cache")
}

func TestRunDumpFailureIsIsolated(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{
		databases: []string{"app_db", "analytics"},
		failDump:  map[string]bool{"analytics": true},
	}
	runner := NewRunner(testConfig(dir, "gz", ""), source, WithStamp("2026-01-02"))

	report, err := runner.Run(context.Background())
	require.NoError(t, err, "per-database failures must not abort the run")
	require.Len(t, report.Results, 2)

	assert.Equal(t, StatusSuccess, report.Results[0].Status)

	failed := report.Results[1]
	assert.Equal(t, StatusError, failed.Status)
	assert.Zero(t, failed.DumpSize)
	assert.Zero(t, failed.ArchiveSize)
	assert.Equal(t, []string{"analytics"}, report.Errors)

	// No raw or archived leftovers for the failed database.
	assert.NoFileExists(t, filepath.Join(dir, "analytics-2026-01-02.sql"))
	assert.NoFileExists(t, filepath.Join(dir, "analytics-2026-01-02.sql.gz"))
}

func TestRunArchiveFailure(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{databases: []string{"app_db"}}
	failing := func(ctx context.Context, raw, final string, f archive.Format) (int64, error) {
		return 0, errors.New("rar: executable file not found")
	}
	runner := NewRunner(testConfig(dir, "rar", ""), source,
		WithStamp("2026-01-02"), WithCompress(failing))

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	res := report.Results[0]
	assert.Equal(t, StatusError, res.Status)
	assert.Zero(t, res.DumpSize)
	assert.Zero(t, res.ArchiveSize)
	assert.Equal(t, []string{"app_db"}, report.Errors)

	// The raw dump is removed even when archiving fails.
	assert.NoFileExists(t, filepath.Join(dir, "app_db-2026-01-02.sql"))
	assert.NoFileExists(t, filepath.Join(dir, "app_db-2026-01-02.rar"))
}

func TestRunFormatNoneKeepsRawDump(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{databases: []string{"app_db"}}
	runner := NewRunner(testConfig(dir, "none", ""), source, WithStamp("2026-01-02"))

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	res := report.Results[0]
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, res.DumpSize, res.ArchiveSize)
	assert.FileExists(t, filepath.Join(dir, "app_db-2026-01-02.sql"))
}

func TestRunUnknownFormatFallsBackToPlain(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{databases: []string{"app_db"}}
	runner := NewRunner(testConfig(dir, "7z", ""), source, WithStamp("2026-01-02"))

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, report.Results[0].Status)
	assert.FileExists(t, filepath.Join(dir, "app_db-2026-01-02.sql"))
}

func TestRunEnumerationFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{listErr: errors.New("access denied")}
	runner := NewRunner(testConfig(dir, "gz", ""), source)

	report, err := runner.Run(context.Background())
	assert.Error(t, err)
	assert.Nil(t, report, "no partial report on fatal errors")
}

func TestRunConnectivityFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	source := &fakeSource{
		databases: []string{"app_db"},
		checkErr:  errors.New("cannot connect"),
	}
	runner := NewRunner(testConfig(dir, "gz", ""), source)

	report, err := runner.Run(context.Background())
	assert.Error(t, err)
	assert.Nil(t, report)
}
