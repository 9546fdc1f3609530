package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kebairia/sqlbackup/internal/config"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestFilesMatchesRunStamp(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "app_db-2026-01-02.sql.gz")
	touch(t, dir, "analytics-2026-01-02.tar.xz")
	touch(t, dir, "app_db-2026-01-01.sql.gz") // previous run
	touch(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub-2026-01-02.d"), 0o755))

	files, err := Files(dir, "2026-01-02")
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"app_db-2026-01-02.sql.gz", "analytics-2026-01-02.tar.xz"},
		files)
}

func TestFilesEmptyDir(t *testing.T) {
	files, err := Files(t.TempDir(), "2026-01-02")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFilesMissingDir(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "missing"), "2026-01-02")
	assert.Error(t, err)
}

func TestNewSelectsProtocol(t *testing.T) {
	for _, proto := range []string{"sftp", "ftp", "scp", "SFTP"} {
		u, err := New(config.RemoteConfig{Protocol: proto})
		require.NoError(t, err, proto)
		assert.NotNil(t, u)
	}

	_, err := New(config.RemoteConfig{Protocol: "rsync"})
	assert.Error(t, err)
}
