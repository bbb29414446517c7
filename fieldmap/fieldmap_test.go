package fieldmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardops/modelcard/domain/model"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	table := Default()
	require.NotNil(t, table)
	assert.Equal(t, len(entries), table.Len(), "every entry must be kept")

	// rebuilding from the raw entries must succeed: unique fields, unique columns, safe identifiers
	_, err := model.NewMappingTable(entries...)
	require.NoError(t, err)
}

func TestDefault_KnownFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field  string
		column string
	}{
		{field: "name", column: "[name]"},
		{field: "description", column: "[description]"},
		{field: "modelStage", column: "model_stage"},
		{field: "custom.mocApplicationFormId", column: "moc_application_form_id"},
		{field: "custom.Overview.Name of the AI Solution", column: "ov_solution_name"},
		{field: "custom.Accountability.Who is the business sponsor?", column: "acc_business_sponsor"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.field, func(t *testing.T) {
			t.Parallel()

			got, ok := Default().Column(tt.field)
			require.True(t, ok, "field %q must be mapped", tt.field)
			assert.Equal(t, tt.column, got)

			back, ok := Default().Field(tt.column)
			require.True(t, ok)
			assert.Equal(t, tt.field, back, "reverse lookup must round trip")
		})
	}
}

func TestDefault_ReservedWordsAreQuoted(t *testing.T) {
	t.Parallel()

	reserved := map[string]bool{"name": true, "description": true, "group": true}
	for _, col := range Default().Columns() {
		bare := strings.Trim(col, "[]")
		if reserved[bare] {
			assert.Equal(t, "["+bare+"]", col, "reserved word %q must be bracket-quoted", bare)
		}
	}
}

func TestDefault_EmptyValueMapsToNull(t *testing.T) {
	t.Parallel()

	rec := model.RecordOf(
		model.Field{Key: "name", Value: model.String("X")},
		model.Field{Key: "description", Value: model.String("")},
	)
	mapped := Default().Apply(rec)

	assert.Equal(t, []string{"[name]", "[description]"}, mapped.Columns())
	assert.Equal(t, []any{"X", nil}, mapped.Values())
}
