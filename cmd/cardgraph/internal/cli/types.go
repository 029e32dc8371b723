package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTypes(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types [type...]",
		Short: "List the compiled types, or the fields of the named types",
		Example: `  cardgraph types --dir cards
  cardgraph types --dir cards WidgetV1_0_0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := o.project(cmd)
			if err != nil {
				return err
			}
			s, err := o.compile(cmd.Context(), p)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if len(args) == 0 {
				fmt.Fprintln(w, "NAME\tKIND\tFIELDS")
				for _, t := range s.Types {
					fmt.Fprintf(w, "%s\t%s\t%d\n", t.Name, t.Kind, len(t.Fields()))
				}
				return w.Flush()
			}
			for _, name := range args {
				t, err := s.Type(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s (%s)\n", t.Name, t.Kind)
				fmt.Fprintln(w, "FIELD\tTYPE\tSOURCE")
				for _, f := range t.Fields() {
					fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, f.Type, f.Source)
				}
			}
			return w.Flush()
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
}
