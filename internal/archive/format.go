package archive

import "strings"

// Format identifies one of the supported archive formats. The set is
// closed; adding a format means adding a constant, an extension and a
// case in Compress.
type Format string

const (
	FormatNone  Format = "none"
	FormatGzip  Format = "gz"
	FormatXz    Format = "xz"
	FormatTarXz Format = "tar.xz"
	FormatZip   Format = "zip"
	FormatRar   Format = "rar"
)

// ParseFormat normalizes a configured format name. The second return is
// false for unrecognized values, in which case FormatNone is returned so
// the caller can warn and fall back to an uncompressed backup.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatNone:
		return FormatNone, true
	case FormatGzip:
		return FormatGzip, true
	case FormatXz:
		return FormatXz, true
	case FormatTarXz:
		return FormatTarXz, true
	case FormatZip:
		return FormatZip, true
	case FormatRar:
		return FormatRar, true
	}
	return FormatNone, false
}

// Ext returns the artifact filename extension for a format, including the
// leading dot and the .sql base extension where applicable.
func (f Format) Ext() string {
	switch f {
	case FormatGzip:
		return ".sql.gz"
	case FormatXz:
		return ".sql.xz"
	case FormatTarXz:
		return ".tar.xz"
	case FormatZip:
		return ".zip"
	case FormatRar:
		return ".rar"
	default:
		return ".sql"
	}
}
