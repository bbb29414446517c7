package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Field is one key/value pair of a Record.
type Field struct {
	Key   string
	Value Value
}

// Record is an ordered mapping from key to Value.
// Keys keep the order in which they were first set, which for parsed rows is
// the column order of the source file.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord creates an empty record with room for n fields.
func NewRecord(n int) *Record {
	return &Record{
		fields: make([]Field, 0, n),
		index:  make(map[string]int, n),
	}
}

// RecordOf builds a record from fields, in order.
func RecordOf(fields ...Field) *Record {
	r := NewRecord(len(fields))
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Set stores v under key. An existing key keeps its position.
func (r *Record) Set(key string, v Value) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = v
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: v})
}

// Get returns the value stored under key. Missing keys return an absent value.
func (r *Record) Get(key string) (Value, bool) {
	if r == nil {
		return Absent(), false
	}
	i, ok := r.index[key]
	if !ok {
		return Absent(), false
	}
	return r.fields[i].Value, true
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Keys returns the keys in order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.Len())
	for _, f := range r.Fields() {
		keys = append(keys, f.Key)
	}
	return keys
}

// Fields returns a copy of the fields in order.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Equal compares keys, order and values.
func (r *Record) Equal(r2 *Record) bool {
	if r.Len() != r2.Len() {
		return false
	}
	for i, f := range r.Fields() {
		other := r2.fields[i]
		if f.Key != other.Key || !f.Value.Equal(other.Value) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as a flat JSON object in key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object, keeping key order.
// Nested objects and arrays are rejected with ErrNotScalar.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrNotScalar)
	}

	out := NewRecord(0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("record: object key is not a string")
		}

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		if _, nested := tok.(json.Delim); nested {
			return fmt.Errorf("%w: field %q", ErrNotScalar, key)
		}
		v, err := ValueOf(tok)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = *out
	return nil
}
