package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cardops/modelcard/domain/model"
)

// ErrUnknownDriver is returned for drivers other than sqlserver and sqlite.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// Dialect is the SQL flavor of a store.
type Dialect string

const (
	// DialectSQLServer is Microsoft SQL Server through go-mssqldb
	DialectSQLServer Dialect = "sqlserver"
	// DialectSQLite is SQLite through modernc.org/sqlite
	DialectSQLite Dialect = "sqlite"
)

// ParseDialect maps a driver name onto a Dialect. "mssql" is accepted as an
// alias for sqlserver.
func ParseDialect(driverName string) (Dialect, error) {
	switch strings.ToLower(driverName) {
	case "sqlserver", "mssql":
		return DialectSQLServer, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, driverName)
	}
}

// driverName returns the database/sql driver registered for the dialect
func (d Dialect) driverName() string {
	return string(d)
}

// Placeholder returns the bind marker for the n-th argument, counting from 1.
func (d Dialect) Placeholder(n int) string {
	if d == DialectSQLServer {
		return fmt.Sprintf("@p%d", n)
	}
	return "?"
}

// Placeholders returns n comma separated bind markers.
func (d Dialect) Placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = d.Placeholder(i + 1)
	}
	return strings.Join(marks, ", ")
}

// CreateTableSQL returns the DDL for the destination table: a surrogate key,
// an insertion timestamp and one nullable column per identifier.
// Identifiers are validated and used verbatim.
func (d Dialect) CreateTableSQL(table string, columns []string) (string, error) {
	if err := model.ValidateTable(table); err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", errors.New("storage: table needs at least one column")
	}

	defs := make([]string, 0, len(columns)+2)
	switch d {
	case DialectSQLServer:
		defs = append(defs, "id INT IDENTITY(1,1) PRIMARY KEY", "created_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME()")
	default:
		defs = append(defs, "id INTEGER PRIMARY KEY AUTOINCREMENT", "created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP")
	}
	for _, col := range columns {
		if err := model.ValidateColumn(col); err != nil {
			return "", err
		}
		if d == DialectSQLServer {
			defs = append(defs, col+" NVARCHAR(MAX) NULL")
		} else {
			// untyped columns keep the storage class of the bound value
			defs = append(defs, col)
		}
	}

	body := strings.Join(defs, ",\n\t")
	if d == DialectSQLServer {
		return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nCREATE TABLE %s (\n\t%s\n)", table, table, body), nil
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, body), nil
}

// versionQuery returns a statement that selects the engine version
func (d Dialect) versionQuery() string {
	if d == DialectSQLServer {
		return "SELECT @@VERSION"
	}
	return "SELECT sqlite_version()"
}
