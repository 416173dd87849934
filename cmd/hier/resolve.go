package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hier/internal/classpool"
	"hier/internal/provider/fixture"
)

func newResolveCmd() *cobra.Command {
	var showRuntime bool
	cmd := &cobra.Command{
		Use:   "resolve <id>...",
		Short: "Resolve classes and print their facts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				if showRuntime {
					if err := printRuntime(s); err != nil {
						return err
					}
				}
				for _, id := range args {
					c, err := s.engine.Resolve(id)
					if err != nil {
						return fmt.Errorf("%s: %w", id, err)
					}
					if err := describeClass(s, c); err != nil {
						return fmt.Errorf("%s: %w", id, err)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&showRuntime, "runtime", false, "print the fixture's runtime version first")
	return cmd
}

func printRuntime(s *session) error {
	raw := s.fixture.Runtime()
	if raw == "" {
		fmt.Fprintln(s.out, "runtime: unknown")
		return nil
	}
	feature, err := fixture.ParseRuntimeVersion(raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "runtime: %d (%s)\n", feature, raw)
	return nil
}

func describeClass(s *session, c *classpool.Class) error {
	name, err := c.Name()
	if err != nil {
		return err
	}
	mods, err := c.Modifiers()
	if err != nil {
		return err
	}
	super := "-"
	if sc, ok, err := c.Superclass(); err != nil {
		return err
	} else if ok {
		super = sc.SourceName()
	}
	ifaces, err := s.engine.Interfaces(c)
	if err != nil {
		return err
	}
	modText := mods.String()
	if modText == "" {
		modText = "-"
	}

	fmt.Fprintln(s.out, headerColor.Sprint(c.SourceName()))
	printFields(s.out, []field{
		{"name", name},
		{"key", c.Key()},
		{"modifiers", fmt.Sprintf("%s (0x%04x)", modText, uint16(mods))},
		{"superclass", super},
		{"interfaces", sourceNames(ifaces)},
	})
	return nil
}
