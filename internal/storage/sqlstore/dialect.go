package sqlstore

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
)

// Dialect captures what differs between the supported engines. Both accept
// `?` placeholders, so statements in sql.go are shared.
type Dialect struct {
	Name   string
	Driver string
	// LockSuffix is appended to row reads that must block concurrent writers
	// of the same row until the enclosing unit ends.
	LockSuffix  string
	schemaFile  string
	isDuplicate func(error) bool
}

var MySQL = Dialect{
	Name:       "mysql",
	Driver:     "mysql",
	LockSuffix: " FOR UPDATE",
	schemaFile: "schema/mysql.sql",
	isDuplicate: func(err error) bool {
		var me *mysql.MySQLError
		return errors.As(err, &me) && me.Number == 1062
	},
}

// SQLite serialises writers at the database level, so row locks are not
// expressed in SQL.
var SQLite = Dialect{
	Name:       "sqlite",
	Driver:     "sqlite",
	schemaFile: "schema/sqlite.sql",
	isDuplicate: func(err error) bool {
		var se *sqlite.Error
		if !errors.As(err, &se) {
			return false
		}
		// SQLITE_CONSTRAINT_UNIQUE, SQLITE_CONSTRAINT_PRIMARYKEY
		return se.Code() == 2067 || se.Code() == 1555
	},
}

func DialectFor(name string) (Dialect, error) {
	switch name {
	case "mysql", "":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unsupported db driver %q", name)
}
