package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		value  Value
		state  State
		kind   Kind
		scalar any
	}{
		{name: "zero value is absent", value: Value{}, state: StateAbsent, kind: KindNone},
		{name: "absent", value: Absent(), state: StateAbsent, kind: KindNone},
		{name: "null", value: Null(), state: StateEmpty, kind: KindNone},
		{name: "empty string is empty", value: String(""), state: StateEmpty, kind: KindNone},
		{name: "whitespace string is present", value: String("  "), state: StatePresent, kind: KindString, scalar: "  "},
		{name: "string", value: String("Alpha"), state: StatePresent, kind: KindString, scalar: "Alpha"},
		{name: "zero int is present", value: Int(0), state: StatePresent, kind: KindInt, scalar: int64(0)},
		{name: "float", value: Float(456.7), state: StatePresent, kind: KindFloat, scalar: 456.7},
		{name: "NaN is absent", value: Float(math.NaN()), state: StateAbsent, kind: KindNone},
		{name: "infinity is absent", value: Float(math.Inf(1)), state: StateAbsent, kind: KindNone},
		{name: "false is present", value: Bool(false), state: StatePresent, kind: KindBool, scalar: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.state, tt.value.State(), "unexpected state")
			assert.Equal(t, tt.kind, tt.value.Kind(), "unexpected kind")
			assert.Equal(t, tt.scalar, tt.value.Interface(), "unexpected scalar")
		})
	}
}

func TestValueOf(t *testing.T) {
	t.Parallel()

	t.Run("scalars", func(t *testing.T) {
		t.Parallel()

		cases := map[any]Value{
			"x":                  String("x"),
			"":                   Null(),
			true:                 Bool(true),
			7:                    Int(7),
			int64(8):             Int(8),
			2.5:                  Float(2.5),
			json.Number("12"):    Int(12),
			json.Number("1.25"):  Float(1.25),
			json.Number("1e400"): Absent(),
		}
		for in, want := range cases {
			got, err := ValueOf(in)
			if in == json.Number("1e400") {
				assert.Error(t, err, "out of range number should fail")
				continue
			}
			require.NoError(t, err, "ValueOf(%v)", in)
			assert.True(t, want.Equal(got), "ValueOf(%v) = %#v, want %#v", in, got, want)
		}
	})

	t.Run("nil is empty", func(t *testing.T) {
		t.Parallel()

		got, err := ValueOf(nil)
		require.NoError(t, err)
		assert.True(t, got.IsEmpty())
	})

	t.Run("composites are rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ValueOf(map[string]any{"a": 1})
		assert.ErrorIs(t, err, ErrNotScalar)

		_, err = ValueOf([]any{1, 2})
		assert.ErrorIs(t, err, ErrNotScalar)
	})
}

func TestValue_JSON(t *testing.T) {
	t.Parallel()

	t.Run("marshal", func(t *testing.T) {
		t.Parallel()

		for _, tt := range []struct {
			value Value
			want  string
		}{
			{String("a"), `"a"`},
			{Int(3), `3`},
			{Float(0.5), `0.5`},
			{Bool(true), `true`},
			{Null(), `null`},
			{Absent(), `null`},
		} {
			got, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		}
	})

	t.Run("unmarshal", func(t *testing.T) {
		t.Parallel()

		var v Value
		require.NoError(t, json.Unmarshal([]byte(`"text"`), &v))
		assert.True(t, String("text").Equal(v))

		require.NoError(t, json.Unmarshal([]byte(`null`), &v))
		assert.True(t, v.IsEmpty())

		require.NoError(t, json.Unmarshal([]byte(`42`), &v))
		assert.True(t, Int(42).Equal(v))

		assert.ErrorIs(t, json.Unmarshal([]byte(`[1]`), &v), ErrNotScalar)
	})
}
