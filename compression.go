package modelcard

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// CompressionType is the outer compression of an uploaded spreadsheet.
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// codec opens one compression format. The returned release func frees
// decoder state; it never closes the underlying reader.
type codec struct {
	name string
	ext  string
	open func(io.Reader) (io.Reader, func() error, error)
}

func noRelease() error { return nil }

var codecs = map[CompressionType]codec{
	CompressionGZ: {name: "gz", ext: extGZ, open: func(r io.Reader) (io.Reader, func() error, error) {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, gz.Close, nil
	}},
	CompressionBZ2: {name: "bz2", ext: extBZ2, open: func(r io.Reader) (io.Reader, func() error, error) {
		return bzip2.NewReader(r), noRelease, nil
	}},
	CompressionXZ: {name: "xz", ext: extXZ, open: func(r io.Reader) (io.Reader, func() error, error) {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, noRelease, nil
	}},
	CompressionZSTD: {name: "zstd", ext: extZSTD, open: func(r io.Reader) (io.Reader, func() error, error) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, func() error { dec.Close(); return nil }, nil
	}},
}

// String returns the string representation of CompressionType
func (c CompressionType) String() string {
	if cd, ok := codecs[c]; ok {
		return cd.name
	}
	return "none"
}

// Extension returns the file suffix of the compression type, "" for none.
func (c CompressionType) Extension() string {
	return codecs[c].ext
}

// detectCompressionType reads the compression from the last suffix of a
// lower-cased path.
func detectCompressionType(lowerPath string) CompressionType {
	for _, c := range []CompressionType{CompressionGZ, CompressionBZ2, CompressionXZ, CompressionZSTD} {
		if strings.HasSuffix(lowerPath, codecs[c].ext) {
			return c
		}
	}
	return CompressionNone
}

// decompress wraps r for compression c.
func decompress(r io.Reader, c CompressionType) (io.Reader, func() error, error) {
	if c == CompressionNone {
		return r, noRelease, nil
	}
	cd, ok := codecs[c]
	if !ok {
		return nil, nil, fmt.Errorf("unknown compression type %d", int(c))
	}
	reader, release, err := cd.open(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s stream: %w", cd.name, err)
	}
	return reader, release, nil
}
