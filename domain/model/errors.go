// Package model provides the domain model for modelcard
package model

import "errors"

var (
	// ErrDuplicateColumnName is returned when a file contains duplicate column names
	ErrDuplicateColumnName = errors.New("duplicate column name")

	// ErrDuplicateField is returned when a mapping table lists the same application field twice
	ErrDuplicateField = errors.New("duplicate mapping field")

	// ErrDuplicateColumn is returned when two mapping entries target the same storage column
	ErrDuplicateColumn = errors.New("duplicate mapping column")

	// ErrInvalidIdentifier is returned for storage identifiers that are not safe to splice into SQL
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")

	// ErrEmptyMappingTable is returned when a mapping table has no entries
	ErrEmptyMappingTable = errors.New("mapping table has no entries")

	// ErrNotScalar is returned when a record value is an object or an array
	ErrNotScalar = errors.New("value is not a scalar")
)
