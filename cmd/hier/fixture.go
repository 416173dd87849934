package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hier/internal/provider/fixture"
)

func newFixtureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Inspect and export hierarchy fixtures",
	}
	cmd.AddCommand(newFixtureListCmd(), newFixtureExportCmd())
	return cmd
}

func newFixtureListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List builtin fixtures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range fixture.Builtins() {
				h, err := fixture.Builtin(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-8s runtime %-4s %d classes\n", name, h.Runtime, len(h.Classes))
			}
			return nil
		},
	}
}

func newFixtureExportCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the selected fixture as TOML or msgpack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			h, err := fixture.Open(cfg.Provider.Fixture)
			if err != nil {
				return err
			}
			// Reject hierarchies the provider would refuse to serve.
			if _, err := fixture.New(h); err != nil {
				return err
			}

			switch strings.ToLower(format) {
			case "toml":
				if output == "" || output == "-" {
					return fixture.EncodeTOML(cmd.OutOrStdout(), h)
				}
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := fixture.EncodeTOML(f, h); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			case "msgpack":
				if output == "" || output == "-" {
					return fmt.Errorf("msgpack output is binary; pass -o <file>")
				}
				return fixture.WriteMsgpack(output, h)
			default:
				return fmt.Errorf("invalid --format value %q (expected toml|msgpack)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "output format (toml|msgpack)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout, toml only)")
	return cmd
}
