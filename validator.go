package modelcard

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// validatePath checks that path has a supported extension and names an existing regular file.
func validatePath(path string) (FileType, error) {
	if strings.TrimSpace(path) == "" {
		return FileTypeUnsupported, fmt.Errorf("%w: path cannot be empty", ErrFileNotFound)
	}

	fileType := DetectFileType(path)
	if fileType == FileTypeUnsupported {
		return FileTypeUnsupported, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileTypeUnsupported, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return FileTypeUnsupported, fmt.Errorf("%w: failed to stat %s: %w", ErrInternal, path, err)
	}
	if info.IsDir() {
		return FileTypeUnsupported, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}
	return fileType, nil
}

// validateReader validates a reader input
func validateReader(reader io.Reader, fileType FileType) error {
	if reader == nil {
		return fmt.Errorf("%w: reader cannot be nil", ErrInternal)
	}
	if fileType == FileTypeUnsupported {
		return fmt.Errorf("%w: file type must be csv, xls or xlsx", ErrUnsupportedFormat)
	}
	return nil
}
