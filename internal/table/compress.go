package table

import (
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rotisserie/eris"
	"github.com/ulikunitz/xz"
)

// decompressReader pairs a decoded stream with the cleanup for both the
// decoder and the underlying file.
type decompressReader struct {
	io.Reader
	closers []func() error
}

func (d *decompressReader) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openReader opens path for reading, transparently decompressing .gz, .bz2,
// .xz, and .zst files by extension. Closing the returned reader releases the
// decoder and the file.
func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "table: open %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck,gosec
			return nil, eris.Wrapf(err, "table: gzip %s", path)
		}
		return &decompressReader{Reader: gz, closers: []func() error{gz.Close, f.Close}}, nil
	case ".bz2":
		return &decompressReader{Reader: bzip2.NewReader(f), closers: []func() error{f.Close}}, nil
	case ".xz":
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck,gosec
			return nil, eris.Wrapf(err, "table: xz %s", path)
		}
		return &decompressReader{Reader: xzr, closers: []func() error{f.Close}}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck,gosec
			return nil, eris.Wrapf(err, "table: zstd %s", path)
		}
		return &decompressReader{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			f.Close,
		}}, nil
	default:
		return f, nil
	}
}
