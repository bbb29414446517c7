package modelcard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cardops/modelcard/domain/model"
)

var (
	// ErrFileNotFound indicates that the input path does not exist
	ErrFileNotFound = errors.New("modelcard: file not found")

	// ErrUnsupportedFormat indicates an extension other than csv, xls or xlsx
	ErrUnsupportedFormat = errors.New("modelcard: unsupported file format")

	// ErrEmptyInput indicates that the file has no header row
	ErrEmptyInput = errors.New("modelcard: no header row")

	// ErrParse indicates a malformed file
	ErrParse = errors.New("modelcard: parse error")

	// ErrNoMappableFields indicates that no key of a record is known to the mapping table
	ErrNoMappableFields = errors.New("modelcard: no mappable fields")

	// ErrInvalidRecord indicates a save payload that is not a flat JSON object
	ErrInvalidRecord = errors.New("modelcard: invalid record")

	// ErrStorageUnavailable indicates that no storage connection could be acquired
	ErrStorageUnavailable = errors.New("modelcard: storage unavailable")

	// ErrStorage indicates that the storage engine rejected a statement or commit
	ErrStorage = errors.New("modelcard: storage error")

	// ErrInternal indicates an unexpected failure
	ErrInternal = errors.New("modelcard: internal error")
)

// StorageError is returned when the engine rejects the insert or the commit.
type StorageError struct {
	// Op is the failed step, "exec" or "commit".
	Op string
	// Code is the engine's native error number, 0 when unknown.
	Code int
	// Err is the driver error.
	Err error
}

// Error implements error.
func (e *StorageError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("modelcard: storage %s failed (code %d): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("modelcard: storage %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the driver error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) hold for every StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	parts := []string{ec.Operation + " failed"}
	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}

// Category groups errors by who can fix them.
type Category int

const (
	// CategoryInternal covers engine and programming failures
	CategoryInternal Category = iota
	// CategoryBadInput covers problems the caller can fix by changing the input
	CategoryBadInput
	// CategoryStorageUnavailable covers failures to reach the database
	CategoryStorageUnavailable
)

// String returns the string representation of Category
func (c Category) String() string {
	switch c {
	case CategoryBadInput:
		return "bad_input"
	case CategoryStorageUnavailable:
		return "storage_unavailable"
	default:
		return "internal"
	}
}

// CategoryOf classifies err for the boundary layer.
func CategoryOf(err error) Category {
	switch {
	case errors.Is(err, ErrStorageUnavailable):
		return CategoryStorageUnavailable
	case errors.Is(err, ErrFileNotFound),
		errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrEmptyInput),
		errors.Is(err, ErrParse),
		errors.Is(err, ErrNoMappableFields),
		errors.Is(err, ErrInvalidRecord),
		errors.Is(err, model.ErrNotScalar):
		return CategoryBadInput
	default:
		return CategoryInternal
	}
}
