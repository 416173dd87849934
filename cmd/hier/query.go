package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hier/internal/classpool"
)

func newCommonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "common <a> <b>",
		Short: "Print the nearest common superclass of two classes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				classes, err := s.engine.ResolveAll(args...)
				if err != nil {
					return err
				}
				common, err := s.engine.CommonSuperclass(classes[0], classes[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(s.out, common.SourceName())
				return nil
			})
		},
	}
}

func newAssignableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assignable <target> <source>",
		Short: "Report whether source values can be assigned to target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				classes, err := s.engine.ResolveAll(args...)
				if err != nil {
					return err
				}
				ok, err := s.engine.IsAssignableFrom(classes[0], classes[1])
				if err != nil {
					return err
				}
				verdict := failColor.Sprint("no")
				if ok {
					verdict = okColor.Sprint("yes")
				}
				fmt.Fprintf(s.out, "%s <- %s: %s\n", classes[0].SourceName(), classes[1].SourceName(), verdict)
				return nil
			})
		},
	}
}

func newInterfacesCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "interfaces <id>",
		Short: "List the interfaces a class implements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				c, err := s.engine.Resolve(args[0])
				if err != nil {
					return err
				}
				var list []*classpool.Class
				if all {
					list, err = s.engine.AllInterfaces(c)
				} else {
					list, err = s.engine.Interfaces(c)
				}
				if err != nil {
					return err
				}
				printClassList(s.out, list)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include interfaces inherited from superclasses and superinterfaces")
	return cmd
}
