package model

import (
	"fmt"
	"regexp"
)

var (
	// bare identifiers, or bracket-quoted ones for names that clash with reserved words
	columnPattern = regexp.MustCompile(`^(?:[A-Za-z_][A-Za-z0-9_]*|\[[A-Za-z_][A-Za-z0-9_ ]*\])$`)
	// optionally schema-qualified table names
	tablePattern = regexp.MustCompile(`^(?:[A-Za-z_][A-Za-z0-9_]*|\[[A-Za-z_][A-Za-z0-9_ ]*\])(?:\.(?:[A-Za-z_][A-Za-z0-9_]*|\[[A-Za-z_][A-Za-z0-9_ ]*\]))?$`)
)

// ValidateColumn checks that name can be used verbatim as a column identifier.
func ValidateColumn(name string) error {
	if !columnPattern.MatchString(name) {
		return fmt.Errorf("%w: column %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// ValidateTable checks that name can be used verbatim as a table identifier.
func ValidateTable(name string) error {
	if !tablePattern.MatchString(name) {
		return fmt.Errorf("%w: table %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// Mapping binds an application field identifier to a storage column identifier.
type Mapping struct {
	Field  string
	Column string
}

// MappingTable is the immutable, ordered mapping from application fields to storage columns.
type MappingTable struct {
	entries  []Mapping
	byField  map[string]int
	byColumn map[string]int
}

// NewMappingTable validates entries and builds a table in the given order.
func NewMappingTable(entries ...Mapping) (*MappingTable, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyMappingTable
	}

	t := &MappingTable{
		entries:  make([]Mapping, 0, len(entries)),
		byField:  make(map[string]int, len(entries)),
		byColumn: make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Field == "" {
			return nil, fmt.Errorf("%w: empty field for column %q", ErrInvalidIdentifier, e.Column)
		}
		if err := ValidateColumn(e.Column); err != nil {
			return nil, err
		}
		if _, ok := t.byField[e.Field]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, e.Field)
		}
		if _, ok := t.byColumn[e.Column]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, e.Column)
		}
		t.byField[e.Field] = len(t.entries)
		t.byColumn[e.Column] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// MustMappingTable is like NewMappingTable but panics on invalid entries.
// It is meant for package-level tables.
func MustMappingTable(entries ...Mapping) *MappingTable {
	t, err := NewMappingTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of entries.
func (t *MappingTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in declared order.
func (t *MappingTable) Entries() []Mapping {
	out := make([]Mapping, len(t.entries))
	copy(out, t.entries)
	return out
}

// Columns returns every storage column in declared order.
func (t *MappingTable) Columns() []string {
	cols := make([]string, len(t.entries))
	for i, e := range t.entries {
		cols[i] = e.Column
	}
	return cols
}

// Column returns the storage column for an application field.
func (t *MappingTable) Column(field string) (string, bool) {
	i, ok := t.byField[field]
	if !ok {
		return "", false
	}
	return t.entries[i].Column, true
}

// Field returns the application field stored in column. Diagnostics only.
func (t *MappingTable) Field(column string) (string, bool) {
	i, ok := t.byColumn[column]
	if !ok {
		return "", false
	}
	return t.entries[i].Field, true
}

// Apply translates rec into storage columns.
//
// Entries are visited in declared order. A present value is copied, an empty
// value becomes NULL, and a field missing from rec leaves its column out.
// Keys of rec that the table does not know are dropped.
func (t *MappingTable) Apply(rec *Record) MappedRecord {
	var m MappedRecord
	for _, e := range t.entries {
		v, ok := rec.Get(e.Field)
		if !ok || v.IsAbsent() {
			continue
		}
		m.columns = append(m.columns, e.Column)
		m.values = append(m.values, v.Interface())
	}
	return m
}

// MappedRecord is a record keyed by storage columns.
// It can only be produced by MappingTable.Apply, so every column comes from a table.
type MappedRecord struct {
	columns []string
	values  []any
}

// Len returns the number of columns.
func (m MappedRecord) Len() int {
	return len(m.columns)
}

// Columns returns the column identifiers in table order.
func (m MappedRecord) Columns() []string {
	out := make([]string, len(m.columns))
	copy(out, m.columns)
	return out
}

// Values returns the bound values in column order. NULL is nil.
func (m MappedRecord) Values() []any {
	out := make([]any, len(m.values))
	copy(out, m.values)
	return out
}

// Value returns the value bound to column.
func (m MappedRecord) Value(column string) (any, bool) {
	for i, c := range m.columns {
		if c == column {
			return m.values[i], true
		}
	}
	return nil, false
}
