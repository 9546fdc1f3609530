package archive

import (
	"archive/tar"
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func writeRaw(t *testing.T, dir string) string {
	t.Helper()
	raw := filepath.Join(dir, "app_db-2026-01-02.sql")
	content := "-- dump of app_db\nCREATE TABLE users (id INT);\n"
	require.NoError(t, os.WriteFile(raw, []byte(content), 0o644))
	return raw
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"gz", "GZ", " tar.xz ", "zip", "rar", "xz", "none"} {
		_, ok := ParseFormat(s)
		assert.True(t, ok, "format %q should parse", s)
	}

	f, ok := ParseFormat("7z")
	assert.False(t, ok)
	assert.Equal(t, FormatNone, f, "unrecognized formats fall back to none")
}

func TestFormatExt(t *testing.T) {
	assert.Equal(t, ".sql", FormatNone.Ext())
	assert.Equal(t, ".sql.gz", FormatGzip.Ext())
	assert.Equal(t, ".sql.xz", FormatXz.Ext())
	assert.Equal(t, ".tar.xz", FormatTarXz.Ext())
	assert.Equal(t, ".zip", FormatZip.Ext())
	assert.Equal(t, ".rar", FormatRar.Ext())
}

func TestCompressGzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	raw := writeRaw(t, dir)
	final := filepath.Join(dir, "app_db-2026-01-02.sql.gz")

	size, err := Compress(context.Background(), raw, final, FormatGzip)
	require.NoError(t, err)
	assert.Positive(t, size)

	f, err := os.Open(final)
	require.NoError(t, err)
	defer f.Close()
	gr, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CREATE TABLE users")
}

func TestCompressXz(t *testing.T) {
	dir := t.TempDir()
	raw := writeRaw(t, dir)
	final := filepath.Join(dir, "app_db-2026-01-02.sql.xz")

	size, err := Compress(context.Background(), raw, final, FormatXz)
	require.NoError(t, err)
	assert.Positive(t, size)

	f, err := os.Open(final)
	require.NoError(t, err)
	defer f.Close()
	xr, err := xz.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(xr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- dump of app_db")
}

func TestCompressTarXzKeepsEntryName(t *testing.T) {
	dir := t.TempDir()
	raw := writeRaw(t, dir)
	final := filepath.Join(dir, "app_db-2026-01-02.tar.xz")

	_, err := Compress(context.Background(), raw, final, FormatTarXz)
	require.NoError(t, err)

	f, err := os.Open(final)
	require.NoError(t, err)
	defer f.Close()
	xr, err := xz.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(xr)

	hdr, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "app_db-2026-01-02.sql", hdr.Name)

	_, err = tr.Next()
	assert.Equal(t, io.EOF, err, "tar archives carry exactly one entry")
}

func TestCompressZipKeepsEntryName(t *testing.T) {
	dir := t.TempDir()
	raw := writeRaw(t, dir)
	final := filepath.Join(dir, "app_db-2026-01-02.zip")

	size, err := Compress(context.Background(), raw, final, FormatZip)
	require.NoError(t, err)
	assert.Positive(t, size)

	zr, err := zip.OpenReader(final)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "app_db-2026-01-02.sql", zr.File[0].Name)
}

func TestCompressRejectsNone(t *testing.T) {
	dir := t.TempDir()
	raw := writeRaw(t, dir)

	_, err := Compress(context.Background(), raw, filepath.Join(dir, "out.sql"), FormatNone)
	assert.ErrorIs(t, err, ErrArchive)
}

func TestCompressMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := Compress(context.Background(),
		filepath.Join(dir, "missing.sql"), filepath.Join(dir, "out.sql.gz"), FormatGzip)
	assert.ErrorIs(t, err, ErrArchive)
}
