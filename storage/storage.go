// Package storage connects the importer to its relational store.
//
// SQL Server is the production engine. SQLite is supported for local runs and
// tests. Each Connect call opens a transaction on a pooled connection; the
// caller owns it until Commit, Rollback or Close.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	mssql "github.com/microsoft/go-mssqldb"
	"modernc.org/sqlite"
)

// Conn is one transaction against the store.
type Conn interface {
	// Exec runs a statement with bound arguments.
	Exec(ctx context.Context, query string, args ...any) error
	// Commit makes the statements durable.
	Commit() error
	// Rollback discards the statements.
	Rollback() error
	// Close releases the connection, rolling back anything uncommitted.
	Close() error
}

// Connector hands out transactions.
type Connector interface {
	Connect(ctx context.Context) (Conn, error)
	Dialect() Dialect
}

// DB is a Connector backed by database/sql.
type DB struct {
	db      *sqlx.DB
	dialect Dialect
}

// Open prepares a connection pool for driverName ("sqlserver" or "sqlite").
// No connection is made until the first Connect or Ping.
func Open(driverName, dsn string) (*DB, error) {
	dialect, err := ParseDialect(driverName)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// a single writer avoids "database is locked" under concurrent saves
		db.SetMaxOpenConns(1)
	}
	return &DB{db: db, dialect: dialect}, nil
}

// NewDB wraps an existing pool.
func NewDB(db *sql.DB, dialect Dialect) *DB {
	return &DB{db: sqlx.NewDb(db, dialect.driverName()), dialect: dialect}
}

// Connect begins a transaction.
func (d *DB) Connect(ctx context.Context) (Conn, error) {
	t, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &tx{tx: t}, nil
}

// Dialect returns the SQL dialect of the store.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Ping verifies that the store is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Version returns the engine version string.
func (d *DB) Version(ctx context.Context) (string, error) {
	var version string
	if err := d.db.GetContext(ctx, &version, d.dialect.versionQuery()); err != nil {
		return "", err
	}
	return version, nil
}

// EnsureTable creates table with columns when it does not exist yet.
func (d *DB) EnsureTable(ctx context.Context, table string, columns []string) error {
	ddl, err := d.dialect.CreateTableSQL(table, columns)
	if err != nil {
		return err
	}
	if _, err := d.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// Close closes the pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// tx adapts *sqlx.Tx to Conn
type tx struct {
	tx   *sqlx.Tx
	done bool
}

func (t *tx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t *tx) Commit() error {
	t.done = true
	return t.tx.Commit()
}

func (t *tx) Rollback() error {
	t.done = true
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func (t *tx) Close() error {
	if t.done {
		return nil
	}
	return t.Rollback()
}

// NativeCode extracts the engine error number from a driver error, or 0.
func NativeCode(err error) int {
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return int(msErr.Number)
	}
	var msErrPtr *mssql.Error
	if errors.As(err, &msErrPtr) && msErrPtr != nil {
		return int(msErrPtr.Number)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()
	}
	return 0
}
