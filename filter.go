package modelcard

import "github.com/cardops/modelcard/domain/model"

// Filter keeps the fields of row that carry a value.
//
// Absent and empty values are dropped; zero and false are kept. Strings count
// as empty only when they are exactly "", so whitespace survives. Filter
// returns nil when no field qualifies.
func Filter(row *model.Record) *model.Record {
	var out *model.Record
	for _, f := range row.Fields() {
		if !f.Value.IsPresent() {
			continue
		}
		if out == nil {
			out = model.NewRecord(row.Len())
		}
		out.Set(f.Key, f.Value)
	}
	return out
}

// FilterAll filters every row and drops rows that end up with no fields.
// The result is never nil, so it encodes as an empty JSON array.
func FilterAll(rows []*model.Record) []*model.Record {
	out := make([]*model.Record, 0, len(rows))
	for _, row := range rows {
		if rec := Filter(row); rec != nil {
			out = append(out, rec)
		}
	}
	return out
}
