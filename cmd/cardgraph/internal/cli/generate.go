package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/syssam/cardgraph/compiler/gen"
	"github.com/syssam/cardgraph/compiler/load"
	"github.com/syssam/cardgraph/contrib/gomodel"
	"github.com/syssam/cardgraph/contrib/graphql"
	"github.com/syssam/cardgraph/graph"
)

const (
	FlagOut         = "out"
	FlagGQLGen      = "gqlgen"
	FlagModels      = "models"
	FlagPackage     = "package"
	FlagModelImport = "model-import"
	FlagWatch       = "watch"
)

func newGenerate(o *options) *cobra.Command {
	var (
		out    OutputConfig
		watch  bool
		output = func(cmd *cobra.Command, p *Project) {
			set := func(name string, dst *string, v string) {
				if cmd.Flags().Changed(name) {
					*dst = v
				}
			}
			set(FlagOut, &p.Output.Schema, out.Schema)
			set(FlagGQLGen, &p.Output.GQLGen, out.GQLGen)
			set(FlagModels, &p.Output.Models, out.Models)
			set(FlagPackage, &p.Output.Package, out.Package)
			set(FlagModelImport, &p.Output.ModelImport, out.ModelImport)
		}
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compile the type cards and write the generated artifacts",
		Example: `  cardgraph generate --dir cards
  cardgraph generate --dir cards --out schema.graphql --gqlgen gqlgen.yml --models model/models_gen.go
  cardgraph generate --driver postgres --dsn "postgres://localhost/cards?sslmode=disable"
  cardgraph generate --config cardgraph.yml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := o.project(cmd)
			if err != nil {
				return err
			}
			output(cmd, p)
			run := func(ctx context.Context) error {
				s, err := o.compile(ctx, p)
				if err != nil {
					return err
				}
				return o.write(cmd.OutOrStdout(), s, p.Output)
			}
			if !watch {
				return run(cmd.Context())
			}
			if p.Source.Dir == "" {
				return gen.NewConfigError(FlagWatch, true, "watching requires a card directory")
			}
			if err := run(cmd.Context()); err != nil {
				o.log.Error("generate failed", "error", err)
			}
			o.log.Info("watching card documents", "dir", p.Source.Dir)
			w := &load.Watcher{Path: p.Source.Dir, Logger: o.log}
			return w.Run(cmd.Context(), run)
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	flags := cmd.Flags()
	flags.StringVarP(&out.Schema, FlagOut, "o", "", "Path of the GraphQL schema. Printed to standard output when empty.")
	flags.StringVar(&out.GQLGen, FlagGQLGen, "", "Path of a gqlgen.yml to update with the card bindings.")
	flags.StringVar(&out.Models, FlagModels, "", "Path of the generated Go models.")
	flags.StringVar(&out.Package, FlagPackage, "", "Package name of the Go models. Defaults to the models directory name.")
	flags.StringVar(&out.ModelImport, FlagModelImport, "", "Import path of the Go models, autobound in gqlgen.yml.")
	flags.BoolVarP(&watch, FlagWatch, "w", false, "Regenerate whenever a card document changes.")
	return cmd
}

// write writes the artifacts of s listed in out.
func (o *options) write(stdout io.Writer, s *graph.Schema, out OutputConfig) error {
	if out.Schema == "" || out.Schema == "-" {
		if _, err := io.WriteString(stdout, s.SDL()); err != nil {
			return err
		}
	} else {
		if err := graphql.WriteSchema(out.Schema, s); err != nil {
			return fmt.Errorf("write schema: %w", err)
		}
		o.log.Info("wrote schema", "path", out.Schema, "types", len(s.Types))
	}
	if out.Models != "" {
		pkg := out.Package
		if pkg == "" {
			pkg = filepath.Base(filepath.Dir(out.Models))
		}
		if err := gomodel.Write(out.Models, s, pkg); err != nil {
			return fmt.Errorf("write models: %w", err)
		}
		o.log.Info("wrote models", "path", out.Models, "package", pkg)
	}
	if out.GQLGen != "" {
		cfg, err := graphql.LoadGQLGenConfig(out.GQLGen)
		if err != nil {
			return err
		}
		var schemaPath string
		if out.Schema != "" && out.Schema != "-" {
			if schemaPath, err = filepath.Rel(filepath.Dir(out.GQLGen), out.Schema); err != nil {
				schemaPath = out.Schema
			}
		}
		cfg.InjectCardBindings(s, out.ModelImport, schemaPath)
		if err := graphql.SaveGQLGenConfig(out.GQLGen, cfg); err != nil {
			return err
		}
		o.log.Info("updated gqlgen config", "path", out.GQLGen)
	}
	return nil
}
