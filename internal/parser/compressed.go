package parser

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// decompressingReader wraps r according to the file extension of path.
// The returned close function releases decoder resources; it does not close r.
func decompressingReader(r io.Reader, path string) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { _ = gz.Close() }, nil
	case ".zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	case ".lz4":
		return lz4.NewReader(r), func() {}, nil
	default:
		return r, func() {}, nil
	}
}
