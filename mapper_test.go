package modelcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardops/modelcard/domain/model"
	"github.com/cardops/modelcard/fieldmap"
)

func TestApplyMapping(t *testing.T) {
	t.Parallel()

	t.Run("known fields become columns and unknown keys are dropped", func(t *testing.T) {
		t.Parallel()

		mapped, err := ApplyMapping(rec("name", "Fraud Scorer", "description", "", "bogus", "x"), fieldmap.Default())
		require.NoError(t, err)

		assert.Equal(t, []string{"[name]", "[description]"}, mapped.Columns())
		assert.Equal(t, []any{"Fraud Scorer", nil}, mapped.Values())
	})

	t.Run("columns follow table order", func(t *testing.T) {
		t.Parallel()

		mapped, err := ApplyMapping(rec("modelStage", "Prod", "name", "Fraud Scorer"), fieldmap.Default())
		require.NoError(t, err)
		assert.Equal(t, []string{"[name]", "model_stage"}, mapped.Columns())
	})

	t.Run("typed values are passed through", func(t *testing.T) {
		t.Parallel()

		table := model.MustMappingTable(
			model.Mapping{Field: "count", Column: "cnt"},
			model.Mapping{Field: "active", Column: "is_active"},
		)
		mapped, err := ApplyMapping(rec("count", 3, "active", false), table)
		require.NoError(t, err)

		v, ok := mapped.Value("cnt")
		require.True(t, ok)
		assert.Equal(t, int64(3), v)
		v, ok = mapped.Value("is_active")
		require.True(t, ok)
		assert.Equal(t, false, v)
	})

	t.Run("nothing known", func(t *testing.T) {
		t.Parallel()

		_, err := ApplyMapping(rec("bogus", "x"), fieldmap.Default())
		assert.ErrorIs(t, err, ErrNoMappableFields)
		assert.Equal(t, CategoryBadInput, CategoryOf(err))
	})

	t.Run("empty record", func(t *testing.T) {
		t.Parallel()

		_, err := ApplyMapping(model.NewRecord(0), fieldmap.Default())
		assert.ErrorIs(t, err, ErrNoMappableFields)
	})
}
