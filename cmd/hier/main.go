package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hier/internal/version"
)

// newRootCmd assembles the command tree. Tests build a fresh tree per run so
// flag values never leak between invocations.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hier",
		Short:         "Query class hierarchies through a cached runtime provider",
		Long:          `hier resolves classes from a runtime fixture and answers superclass, interface and assignability questions`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			mode, err := cmd.Flags().GetString("color")
			if err != nil {
				return err
			}
			return applyColor(mode)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to hier.toml (default: nearest one above the working directory)")
	flags.String("fixture", "", "builtin fixture name or path to a .toml/.msgpack hierarchy")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("timings", false, "show timing information")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	flags.Int("trace-ring-size", 0, "ring buffer capacity for ring and both modes")
	flags.String("cpuprofile", "", "write a CPU profile to this file")
	flags.String("memprofile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime execution trace to this file")
	flags.Int("assignability-cache", -1, "LRU capacity for memoized assignability checks (0 disables)")

	root.AddCommand(
		newResolveCmd(),
		newCommonCmd(),
		newAssignableCmd(),
		newInterfacesCmd(),
		newGraphCmd(),
		newWarmCmd(),
		newFixtureCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func applyColor(mode string) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
