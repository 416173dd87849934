package main

import (
	"github.com/spf13/cobra"

	"hier/internal/graph"
)

func newGraphCmd() *cobra.Command {
	var opts graph.Options
	cmd := &cobra.Command{
		Use:   "graph <id>",
		Short: "Print a class's supertype graph in DOT format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				c, err := s.engine.Resolve(args[0])
				if err != nil {
					return err
				}
				edges, err := graph.Collect(s.engine.Resolver(), c, opts)
				if err != nil {
					return err
				}
				return graph.WriteDOT(s.out, edges)
			})
		},
	}
	cmd.Flags().BoolVar(&opts.Superinterfaces, "superinterfaces", false, "follow interfaces' own superinterfaces")
	return cmd
}
