package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hier/internal/version"
)

func newVersionCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			info := version.Current()
			switch strings.ToLower(format) {
			case "pretty", "":
				fmt.Fprintf(out, "hier %s\n", version.Pretty())
				if info.GitCommit != "" {
					fmt.Fprintf(out, "commit %s\n", info.GitCommit)
				}
				if info.BuildDate != "" {
					fmt.Fprintf(out, "built  %s\n", info.BuildDate)
				}
				return nil
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			default:
				return fmt.Errorf("invalid --format value %q (expected pretty|json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}
