package model

import "fmt"

// Header is the label row of a tabular file.
type Header []string

// NewHeader create new Header.
func NewHeader(h []string) Header {
	return Header(h)
}

// Equal compare Header.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// IsBlank reports whether every label is empty.
func (h Header) IsBlank() bool {
	for _, label := range h {
		if label != "" {
			return false
		}
	}
	return true
}

// Validate rejects duplicate non-blank labels. Blank labels are ignored because
// their columns are never read.
func (h Header) Validate() error {
	seen := make(map[string]bool, len(h))
	for _, label := range h {
		if label == "" {
			continue
		}
		if seen[label] {
			return fmt.Errorf("%w: %s", ErrDuplicateColumnName, label)
		}
		seen[label] = true
	}
	return nil
}

// Row builds a raw row from the cells of one data line.
// Cells beyond the header are ignored, missing cells are absent.
func (h Header) Row(cells []Value) *Record {
	r := NewRecord(len(h))
	for i, label := range h {
		if label == "" {
			continue
		}
		v := Absent()
		if i < len(cells) {
			v = cells[i]
		}
		r.Set(label, v)
	}
	return r
}
