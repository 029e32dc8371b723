package dialect

import "context"

// Dialect names for external usage.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Dialects lists the supported dialects.
var Dialects = []string{Postgres, MySQL, SQLite}

// Querier wraps the Query method of a database connection.
type Querier interface {
	// Query runs query with args, storing the resulting rows in v.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps the database connections read by the
// card sources.
type Driver interface {
	Querier
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}
