package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/syssam/cardgraph/compiler/gen"
	"github.com/syssam/cardgraph/compiler/load"
	"github.com/syssam/cardgraph/dialect"
	"github.com/syssam/cardgraph/dialect/sql"
)

// DefaultProjectFile is read when --config is not given and the file exists.
const DefaultProjectFile = "cardgraph.yml"

// Project is the cardgraph.yml project file.
//
//	source:
//	  dir: cards
//	output:
//	  schema: graph/schema.graphql
//	  gqlgen: gqlgen.yml
//	  models: graph/model/models_gen.go
//	  package: model
type Project struct {
	Source SourceConfig `yaml:"source"`
	Output OutputConfig `yaml:"output"`
}

// SourceConfig selects where type cards are read from: a directory of card
// documents or a cards table.
type SourceConfig struct {
	Dir     string `yaml:"dir,omitempty"`
	Workers int    `yaml:"workers,omitempty"`
	Driver  string `yaml:"driver,omitempty"`
	DSN     string `yaml:"dsn,omitempty"`
	Table   string `yaml:"table,omitempty"`
}

// OutputConfig lists the generated artifacts. An empty Schema prints the
// SDL to standard output.
type OutputConfig struct {
	Schema string `yaml:"schema,omitempty"`
	GQLGen string `yaml:"gqlgen,omitempty"`
	Models string `yaml:"models,omitempty"`
	// Package is the Go package name of the models. Defaults to the name of
	// the models directory.
	Package string `yaml:"package,omitempty"`
	// ModelImport is the import path of the models package, autobound in
	// gqlgen.yml.
	ModelImport string `yaml:"modelImport,omitempty"`
}

// LoadProject reads a project file. Unknown keys are rejected.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	p := &Project{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse project file %s: %w", path, err)
	}
	return p, nil
}

// Validate checks that exactly one card source is configured.
func (p *Project) Validate() error {
	s := p.Source
	switch {
	case s.Dir != "" && s.Driver != "":
		return gen.NewConfigError("source", s.Dir, "dir and driver are mutually exclusive")
	case s.Dir == "" && s.Driver == "":
		return gen.NewConfigError("source", nil, "one of dir or driver is required")
	case s.Driver != "" && !slices.Contains(dialect.Dialects, s.Driver):
		return gen.NewConfigError("source.driver", s.Driver, fmt.Sprintf("unsupported driver, expected one of %v", dialect.Dialects))
	case s.Driver != "" && s.DSN == "":
		return gen.NewConfigError("source.dsn", nil, "dsn is required with a driver")
	case s.Workers < 0:
		return gen.NewConfigError("source.workers", s.Workers, "must not be negative")
	}
	return nil
}

// cardSource is an open card source. Close releases its connection, if any.
type cardSource struct {
	load.Source
	stats *sql.StatsDriver
	close func() error
}

// open opens the configured card source. SQL queries are counted and slow
// ones logged; verbose runs log every query.
func (s SourceConfig) open(log *slog.Logger, verbose bool) (*cardSource, error) {
	if s.Dir != "" {
		return &cardSource{
			Source: &load.Dir{Path: s.Dir, Logger: log, Workers: s.Workers},
			close:  func() error { return nil },
		}, nil
	}
	drv, err := sql.Open(s.Driver, s.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Driver, err)
	}
	stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(log))
	var d dialect.Driver = stats
	if verbose {
		d = sql.NewDebugDriver(d, log)
	}
	opts := []sql.SourceOption{sql.WithLogger(log)}
	if s.Table != "" {
		opts = append(opts, sql.WithTable(s.Table))
	}
	return &cardSource{Source: sql.NewSource(d, opts...), stats: stats, close: drv.Close}, nil
}
