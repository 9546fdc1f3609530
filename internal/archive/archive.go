package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// ErrArchive wraps any failure while producing an archive artifact.
var ErrArchive = errors.New("archive failed")

// rarPath is the external archiver binary; rar has no library
// implementation, so it stays a subprocess.
const rarPath = "rar"

// Compress turns the raw dump at rawPath into an archive at finalPath and
// returns the archive size measured from disk. FormatNone is not handled
// here: with no archiving there is nothing to produce, and the raw file
// itself is the artifact. The caller owns the raw file's lifecycle.
func Compress(ctx context.Context, rawPath, finalPath string, format Format) (int64, error) {
	var err error
	switch format {
	case FormatGzip:
		err = compressGzip(rawPath, finalPath)
	case FormatXz:
		err = compressXz(rawPath, finalPath)
	case FormatTarXz:
		err = compressTarXz(rawPath, finalPath)
	case FormatZip:
		err = compressZip(rawPath, finalPath)
	case FormatRar:
		err = compressRar(ctx, rawPath, finalPath)
	default:
		return 0, fmt.Errorf("%w: no archiver for format %q", ErrArchive, format)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrArchive, err)
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		return 0, fmt.Errorf("%w: stat %q: %v", ErrArchive, finalPath, err)
	}
	return info.Size(), nil
}

// compressGzip writes a whole-file gzip stream.
func compressGzip(rawPath, finalPath string) error {
	in, err := os.Open(rawPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(finalPath)
	if err != nil {
		return err
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		return err
	}
	return gw.Close()
}

// compressXz writes a whole-file xz stream.
func compressXz(rawPath, finalPath string) error {
	in, err := os.Open(rawPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(finalPath)
	if err != nil {
		return err
	}
	defer out.Close()

	xw, err := xz.NewWriter(out)
	if err != nil {
		return err
	}
	if _, err := io.Copy(xw, in); err != nil {
		xw.Close()
		return err
	}
	return xw.Close()
}

// compressTarXz writes a single-entry tar archive, xz-compressed, keeping
// the raw file's base name as the entry name.
func compressTarXz(rawPath, finalPath string) error {
	in, err := os.Open(rawPath)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.Create(finalPath)
	if err != nil {
		return err
	}
	defer out.Close()

	xw, err := xz.NewWriter(out)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(xw)

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.Base(rawPath)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := io.Copy(tw, in); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return xw.Close()
}

// compressZip writes a single-entry zip archive with a deflate entry
// named after the raw file's base name.
func compressZip(rawPath, finalPath string) error {
	in, err := os.Open(rawPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(finalPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})

	entry, err := zw.Create(filepath.Base(rawPath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(entry, in); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// compressRar shells out to the rar binary. Launch and exit failures both
// surface as errors.
func compressRar(ctx context.Context, rawPath, finalPath string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, rarPath, "a", finalPath, rawPath)
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("rar: %s: %v", strings.TrimSpace(stderr.String()), err)
	}
	return nil
}
