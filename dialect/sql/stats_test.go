package sql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/cardgraph/dialect"
)

func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("boom"))

	var slow []string
	drv := NewStatsDriver(OpenDB(dialect.Postgres, db),
		WithSlowThreshold(-1),
		WithSlowQueryHook(func(_ context.Context, query string, args []any, _ time.Duration) {
			slow = append(slow, query)
			assert.Equal(t, []any{"type", "type@%"}, args)
		}),
	)
	assert.Equal(t, dialect.Postgres, drv.Dialect())

	cards, err := NewSource(drv).Cards(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cards)
	_, err = NewSource(drv).Cards(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	stats := drv.QueryStats().Stats()
	assert.EqualValues(t, 2, stats.TotalQueries)
	assert.EqualValues(t, 2, stats.SlowQueries)
	assert.EqualValues(t, 1, stats.Errors)
	assert.Len(t, slow, 2)
	assert.Contains(t, stats.String(), "queries=2")

	drv.SetSlowThreshold(time.Hour)
	assert.Equal(t, time.Hour, drv.SlowThreshold())
	drv.QueryStats().Reset()
	assert.Zero(t, drv.QueryStats().Stats().TotalQueries)
	assert.Zero(t, drv.QueryStats().Stats().AvgQueryDuration())
}

func TestSlowQueryLog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(columns))

	var buf bytes.Buffer
	drv := NewStatsDriver(OpenDB(dialect.MySQL, db), WithSlowThreshold(-1),
		WithSlowQueryLog(slog.New(slog.NewTextHandler(&buf, nil))))
	_, err = NewSource(drv).Cards(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "slow card query detected")
}

func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(columns))

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err = NewSource(NewDebugDriver(OpenDB(dialect.SQLite, db), log)).Cards(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "card query")
	assert.Contains(t, buf.String(), "dialect=sqlite")
}
