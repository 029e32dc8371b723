// Package sql reads type cards from SQL databases.
//
// A Driver wraps a database/sql connection with its dialect. A Source
// queries the cards table of the driver and validates every type card it
// finds:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://localhost/cards?sslmode=disable")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//	src := sql.NewSource(drv, sql.WithTable("cards"))
//	s, err := compiler.Generate(ctx, src)
//
// # Dialect Support
//
// Identifiers and placeholders follow the dialect of the driver:
//
//   - PostgreSQL: "cards", $1
//   - MySQL: `cards`, ?
//   - SQLite: "cards", ?
//
// The database/sql driver of the dialect must be registered by the program,
// for example with a blank import of github.com/lib/pq,
// github.com/go-sql-driver/mysql or modernc.org/sqlite.
//
// # Statistics
//
// StatsDriver counts queries and reports slow ones; DebugDriver logs every
// query. Both wrap any dialect.Driver:
//
//	stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(logger))
//	src := sql.NewSource(sql.NewDebugDriver(stats, logger))
package sql
