package modelcard

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileType is a spreadsheet format accepted by the importer.
type FileType int

const (
	// FileTypeUnsupported is any format the importer rejects
	FileTypeUnsupported FileType = iota
	// FileTypeCSV is comma separated text
	FileTypeCSV
	// FileTypeXLSX is an Office Open XML workbook
	FileTypeXLSX
	// FileTypeXLS is a legacy Excel 97-2003 workbook
	FileTypeXLS
)

// Recognized suffixes, matched against the lower-cased file name.
const (
	extCSV  = ".csv"
	extXLSX = ".xlsx"
	extXLS  = ".xls"

	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// String returns the string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeXLS:
		return "xls"
	default:
		return "unsupported"
	}
}

// Extension returns the file extension for the FileType
func (ft FileType) Extension() string {
	switch ft {
	case FileTypeCSV:
		return extCSV
	case FileTypeXLSX:
		return extXLSX
	case FileTypeXLS:
		return extXLS
	default:
		return ""
	}
}

// file is a spreadsheet on disk
type file struct {
	path        string
	fileType    FileType
	compression CompressionType
}

// newFile creates a new file
func newFile(path string) *file {
	fileType, compression := detectFileType(path)
	return &file{
		path:        path,
		fileType:    fileType,
		compression: compression,
	}
}

// isCompressed reports whether the file carries a compression suffix
func (f *file) isCompressed() bool {
	return f.compression != CompressionNone
}

// DetectFileType returns the spreadsheet format of a file name, looking
// through a trailing compression extension. Matching is case-insensitive.
func DetectFileType(name string) FileType {
	fileType, _ := detectFileType(name)
	return fileType
}

// detectFileType detects file type from extension, considering compressed files.
// Legacy .xls workbooks are only accepted uncompressed.
func detectFileType(path string) (FileType, CompressionType) {
	lower := strings.ToLower(path)
	compression := detectCompressionType(lower)
	basePath := strings.TrimSuffix(lower, compression.Extension())

	switch filepath.Ext(basePath) {
	case extCSV:
		return FileTypeCSV, compression
	case extXLSX:
		return FileTypeXLSX, compression
	case extXLS:
		if compression != CompressionNone {
			return FileTypeUnsupported, compression
		}
		return FileTypeXLS, compression
	default:
		return FileTypeUnsupported, compression
	}
}

// IsSupportedFile checks if the file name has a supported extension
func IsSupportedFile(name string) bool {
	return DetectFileType(name) != FileTypeUnsupported
}

// openReader opens file and returns a reader that handles compression.
// A missing file wraps ErrFileNotFound, any other open failure wraps ErrInternal
// and a corrupt compression header wraps ErrParse.
func (f *file) openReader() (io.Reader, func() error, error) {
	osFile, err := os.Open(f.path) //nolint:gosec // caller-provided path is the input
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	reader, cleanup, err := decompress(osFile, f.compression)
	if err != nil {
		_ = osFile.Close()
		return nil, nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	closer := func() error {
		cleanupErr := cleanup()
		if closeErr := osFile.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		return cleanupErr
	}
	return reader, closer, nil
}
