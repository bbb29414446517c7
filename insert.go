package modelcard

import (
	"fmt"
	"strings"

	"github.com/cardops/modelcard/domain/model"
	"github.com/cardops/modelcard/storage"
)

// InsertBuilder renders parameterized INSERT statements for one table.
type InsertBuilder struct {
	table   string
	dialect storage.Dialect
}

// NewInsertBuilder validates the table identifier and returns a builder.
func NewInsertBuilder(table string, dialect storage.Dialect) (*InsertBuilder, error) {
	if err := model.ValidateTable(table); err != nil {
		return nil, err
	}
	return &InsertBuilder{table: table, dialect: dialect}, nil
}

// Build returns the statement and its arguments for mapped.
//
// Column identifiers come from the mapping table and are written verbatim;
// every value is a bound argument.
func (b *InsertBuilder) Build(mapped model.MappedRecord) (string, []any, error) {
	if mapped.Len() == 0 {
		return "", nil, ErrNoMappableFields
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		b.table,
		strings.Join(mapped.Columns(), ", "),
		b.dialect.Placeholders(mapped.Len()),
	)
	return query, mapped.Values(), nil
}
