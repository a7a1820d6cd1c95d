package main

import (
	"fmt"
	"strconv"

	"github.com/henderiw/rangetree/pkg/rangeset"
	"github.com/spf13/cobra"
)

// foldCmd applies op left to right over its operands.
func (a *app) foldCmd(use, short string, op func(*rangeset.Set, *rangeset.Set) *rangeset.Set) *cobra.Command {
	return &cobra.Command{
		Use:   use + " SET...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := a.resolver.resolveAll(args)
			if err != nil {
				return err
			}
			acc := sets[0]
			for _, s := range sets[1:] {
				acc = op(acc, s)
			}
			return a.print(cmd.OutOrStdout(), acc)
		},
	}
}

func (a *app) invertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invert SET",
		Short: "Complement of a set within the domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolver.resolve(args[0])
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), s.Invert())
		},
	}
}

func (a *app) containsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contains SET POINT",
		Short: "Report whether a point is in a set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolver.resolve(args[0])
			if err != nil {
				return err
			}
			p, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid point %q: %w", args[1], err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.Has(p))
			return err
		},
	}
}

func (a *app) serializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serialize SET",
		Short: "Print a set as start/length pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolver.resolve(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), joinInts(s.StartLengths()))
			return err
		},
	}
}

func (a *app) deserializeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deserialize START LENGTH...",
		Short: "Build a set from start/length pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			flat := make([]int, len(args))
			for i, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid number %q: %w", arg, err)
				}
				flat[i] = n
			}
			s, err := rangeset.FromStartLengths(a.resolver.domain, flat)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), s)
		},
	}
}

func (a *app) subsetCmd() *cobra.Command {
	var proper bool
	cmd := &cobra.Command{
		Use:   "subset A B",
		Short: "Report whether A is a subset of B",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := a.resolver.resolveAll(args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sets[0].SubsetOf(sets[1], proper))
			return err
		},
	}
	cmd.Flags().BoolVar(&proper, "proper", false, "require A to differ from B")
	return cmd
}
