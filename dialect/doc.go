// Package dialect provides the database dialect abstraction of the card
// sources.
//
// # Supported Dialects
//
// The following dialects are supported:
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// Each dialect is identified by a constant string, which is also the name
// of its database/sql driver:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
//	type Driver interface {
//	    Query(ctx context.Context, query string, args, v any) error
//	    Close() error
//	    Dialect() string
//	}
//
// # Usage
//
//	import (
//	    "github.com/syssam/cardgraph/dialect"
//	    "github.com/syssam/cardgraph/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	cards, err := sql.NewSource(drv).Cards(ctx)
package dialect
