package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkschou/pdareach/engine"
	"github.com/mkschou/pdareach/internal/format"
)

func newDotCmd() *cobra.Command {
	var initialPath string

	cmd := &cobra.Command{
		Use:   "dot [pda.toml]",
		Short: "Print the initial P-automaton's Graphviz DOT text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alphabet := engine.NewAlphabet()
			p, err := format.ParsePDA(args[0], alphabet)
			if err != nil {
				return err
			}
			a, err := format.ParsePAutomaton(initialPath, p, alphabet)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.ToDot(func(id uint32) string {
				name, err := alphabet.Name(id)
				if err != nil {
					return fmt.Sprintf("%d", id)
				}
				return name
			}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&initialPath, "initial", "i", "", "P-automaton TOML file (required)")
	_ = cmd.MarkFlagRequired("initial")
	return cmd
}
