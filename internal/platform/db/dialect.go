package db

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
)

type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "mysql":
		return DialectMySQL, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	case "sqlite3", "sqlite", "":
		return DialectSQLite, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", s)
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return string(d)
}

// Builder returns a goqu dialect that renders placeholders for d.
func (d Dialect) Builder() goqu.DialectWrapper {
	return goqu.Dialect(string(d))
}

// LocksRows reports whether SELECT ... FOR UPDATE is meaningful. SQLite serializes writers
// with BEGIN IMMEDIATE instead.
func (d Dialect) LocksRows() bool {
	return d == DialectMySQL || d == DialectPostgres
}

func (d Dialect) SupportsReturning() bool {
	return d == DialectPostgres
}

// ForUpdate adds a row lock to ds when the dialect supports one.
func (d Dialect) ForUpdate(ds *goqu.SelectDataset) *goqu.SelectDataset {
	if !d.LocksRows() {
		return ds
	}
	return ds.ForUpdate(exp.Wait)
}
