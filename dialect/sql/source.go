package sql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/syssam/cardgraph/compiler/load"
	"github.com/syssam/cardgraph/dialect"
	"github.com/syssam/cardgraph/schema"
)

// DefaultTable is the table read by a Source.
const DefaultTable = "cards"

// Source reads type cards from a cards table. The table has the columns
//
//	id      text, nullable
//	slug    text
//	version text
//	type    text
//	active  boolean
//	data    json or text, the card data holding the entity schema
//
// Rows are read in slug and version order. Inactive cards and cards failing
// validation are skipped.
type Source struct {
	driver dialect.Driver
	table  string
	log    *slog.Logger
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithTable sets the table read by the source.
func WithTable(name string) SourceOption {
	return func(s *Source) { s.table = name }
}

// WithLogger sets the logger receiving skipped cards.
func WithLogger(l *slog.Logger) SourceOption {
	return func(s *Source) { s.log = l }
}

// NewSource returns a card source reading from drv.
func NewSource(drv dialect.Driver, opts ...SourceOption) *Source {
	s := &Source{driver: drv, table: DefaultTable, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cards implements load.Source.
func (s *Source) Cards(ctx context.Context) ([]*load.Card, error) {
	query, err := s.query()
	if err != nil {
		return nil, &load.LoadError{Path: s.origin(), Err: err}
	}
	rows := &Rows{}
	if err := s.driver.Query(ctx, query, []any{"type", "type@%"}, rows); err != nil {
		return nil, &load.LoadError{Path: s.origin(), Err: err}
	}
	var cards []*load.Card
	err = scanAll(rows, func() error {
		var (
			id                 NullString
			slug, version, typ string
			active             bool
			data               []byte
		)
		if err := rows.Scan(&id, &slug, &version, &typ, &active, &data); err != nil {
			return err
		}
		origin := fmt.Sprintf("%s/%s@%s", s.origin(), slug, version)
		if !active {
			s.log.Debug("skipping inactive type card", "origin", origin)
			return nil
		}
		d, err := schema.Parse(data)
		if err != nil {
			s.log.Warn("skipping type card with malformed data", "origin", origin, "error", err)
			return nil
		}
		members := []schema.Member{
			schema.M(schema.KeySlug, schema.StringValue(slug)),
			schema.M(schema.KeyVersion, schema.StringValue(version)),
			schema.M(schema.KeyType, schema.StringValue(typ)),
			schema.M(schema.KeyActive, schema.BoolValue(active)),
			schema.M(schema.KeyData, d),
		}
		if id.Valid {
			members = append([]schema.Member{schema.M(schema.KeyID, schema.StringValue(id.String))}, members...)
		}
		c, err := load.NewCard(schema.ObjectOf(members...), origin)
		if err != nil {
			s.log.Warn("skipping invalid type card", "origin", origin, "error", err)
			return nil
		}
		cards = append(cards, c)
		return nil
	})
	if err != nil {
		return nil, &load.LoadError{Path: s.origin(), Err: err}
	}
	return cards, nil
}

func (s *Source) query() (string, error) {
	if !isValidIdentifier(s.table) {
		return "", fmt.Errorf("dialect/sql: invalid table name %q", s.table)
	}
	quote, p1, p2 := `"`, "?", "?"
	switch s.driver.Dialect() {
	case dialect.Postgres:
		p1, p2 = "$1", "$2"
	case dialect.MySQL:
		quote = "`"
	}
	parts := strings.Split(s.table, ".")
	for i, p := range parts {
		parts[i] = quote + p + quote
	}
	table := strings.Join(parts, ".")
	return fmt.Sprintf("SELECT id, slug, version, type, active, data FROM %s WHERE type = %s OR type LIKE %s ORDER BY slug, version", table, p1, p2), nil
}

func (s *Source) origin() string {
	return s.driver.Dialect() + ":" + s.table
}

var _ load.Source = (*Source)(nil)
