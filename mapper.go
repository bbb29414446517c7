package modelcard

import (
	"fmt"

	"github.com/cardops/modelcard/domain/model"
)

// ApplyMapping translates rec into storage columns using table.
// It fails with ErrNoMappableFields when none of the keys of rec is in table.
func ApplyMapping(rec *model.Record, table *model.MappingTable) (model.MappedRecord, error) {
	mapped := table.Apply(rec)
	if mapped.Len() == 0 {
		return mapped, fmt.Errorf("%w: none of %d fields is known", ErrNoMappableFields, rec.Len())
	}
	return mapped, nil
}
