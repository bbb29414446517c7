package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_SetKeepsOrder(t *testing.T) {
	t.Parallel()

	r := NewRecord(0)
	r.Set("b", Int(1))
	r.Set("a", Int(2))
	r.Set("b", Int(3))

	assert.Equal(t, []string{"b", "a"}, r.Keys(), "re-setting a key must not move it")

	v, ok := r.Get("b")
	require.True(t, ok)
	assert.True(t, Int(3).Equal(v))

	v, ok = r.Get("missing")
	assert.False(t, ok)
	assert.True(t, v.IsAbsent())
}

func TestRecord_NilSafe(t *testing.T) {
	t.Parallel()

	var r *Record
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Keys())
	_, ok := r.Get("x")
	assert.False(t, ok)
}

func TestRecord_MarshalJSON(t *testing.T) {
	t.Parallel()

	r := RecordOf(
		Field{Key: "Name", Value: String("Alpha")},
		Field{Key: "Count", Value: Int(3)},
		Field{Key: "Active", Value: Bool(false)},
		Field{Key: "Score", Value: Float(0.25)},
	)

	got, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"Name":"Alpha","Count":3,"Active":false,"Score":0.25}`, string(got),
		"keys must be emitted in insertion order")

	empty, err := json.Marshal(NewRecord(0))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    *Record
		wantErr error
	}{
		{
			name:  "flat object keeps order",
			input: `{"z":"last","a":1,"m":true}`,
			want: RecordOf(
				Field{Key: "z", Value: String("last")},
				Field{Key: "a", Value: Int(1)},
				Field{Key: "m", Value: Bool(true)},
			),
		},
		{
			name:  "empty string and null are empty values",
			input: `{"name":"X","description":"","owner":null}`,
			want: RecordOf(
				Field{Key: "name", Value: String("X")},
				Field{Key: "description", Value: Null()},
				Field{Key: "owner", Value: Null()},
			),
		},
		{
			name:  "float stays float",
			input: `{"score":1.5}`,
			want:  RecordOf(Field{Key: "score", Value: Float(1.5)}),
		},
		{
			name:    "nested object rejected",
			input:   `{"name":{"first":"a"}}`,
			wantErr: ErrNotScalar,
		},
		{
			name:    "array rejected",
			input:   `{"tags":["a","b"]}`,
			wantErr: ErrNotScalar,
		},
		{
			name:    "top-level array rejected",
			input:   `[{"a":1}]`,
			wantErr: ErrNotScalar,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got Record
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(&got), "got %v, want %v", got.Fields(), tt.want.Fields())
		})
	}
}
