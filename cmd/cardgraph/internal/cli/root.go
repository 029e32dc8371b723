// Package cli implements the cardgraph command line.
package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/syssam/cardgraph/compiler"
	"github.com/syssam/cardgraph/compiler/gen"
	"github.com/syssam/cardgraph/graph"
)

const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
	FlagDir     = "dir"
	FlagDriver  = "driver"
	FlagDSN     = "dsn"
	FlagTable   = "table"
)

// options holds the state shared by the sub-commands.
type options struct {
	config  string
	verbose bool
	source  SourceConfig
	log     *slog.Logger
}

// New returns the cardgraph root command.
func New() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "cardgraph [sub-command]",
		Short: "Compile type cards into a GraphQL schema",
		Long: `cardgraph reads type cards, the cards whose data holds the JSON Schema of
  an entity type, and compiles them into a GraphQL schema, gqlgen bindings
  and Go models.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if o.verbose {
				level = slog.LevelDebug
			}
			o.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.config, FlagConfig, "", `Project file to read. Defaults to "`+DefaultProjectFile+`" when it exists.`)
	flags.BoolVarP(&o.verbose, FlagVerbose, "v", false, "Log at debug level.")
	flags.StringVar(&o.source.Dir, FlagDir, "", "Directory of card documents (.json, .jsonc, .yaml, .yml).")
	flags.StringVar(&o.source.Driver, FlagDriver, "", "SQL driver of the cards table (postgres, mysql or sqlite).")
	flags.StringVar(&o.source.DSN, FlagDSN, "", "Data source name of the cards database.")
	flags.StringVar(&o.source.Table, FlagTable, "", "Cards table name. Defaults to \"cards\".")

	cmd.AddCommand(newGenerate(o))
	cmd.AddCommand(newTypes(o))
	return cmd
}

// project loads the project file and applies the flags set on cmd.
func (o *options) project(cmd *cobra.Command) (*Project, error) {
	p := &Project{}
	path := o.config
	if path == "" {
		if _, err := os.Stat(DefaultProjectFile); err == nil {
			path = DefaultProjectFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if path != "" {
		var err error
		if p, err = LoadProject(path); err != nil {
			return nil, err
		}
		o.log.Debug("loaded project file", "path", path)
	}
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set(FlagDir, &p.Source.Dir, o.source.Dir)
	set(FlagDriver, &p.Source.Driver, o.source.Driver)
	set(FlagDSN, &p.Source.DSN, o.source.DSN)
	set(FlagTable, &p.Source.Table, o.source.Table)
	// A source flag replaces the other source kind of the project file.
	if cmd.Flags().Changed(FlagDir) && !cmd.Flags().Changed(FlagDriver) {
		p.Source.Driver, p.Source.DSN = "", ""
	}
	if cmd.Flags().Changed(FlagDriver) && !cmd.Flags().Changed(FlagDir) {
		p.Source.Dir = ""
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// compile compiles the cards of the project source.
func (o *options) compile(ctx context.Context, p *Project) (*graph.Schema, error) {
	src, err := p.Source.open(o.log, o.verbose)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := src.close(); err != nil {
			o.log.Warn("closing card source failed", "error", err)
		}
	}()
	s, err := compiler.Generate(ctx, src, gen.WithLogger(o.log))
	if src.stats != nil {
		o.log.Debug("card query stats", "stats", src.stats.QueryStats().Stats().String())
	}
	return s, err
}
