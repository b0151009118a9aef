package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkschou/pdareach/engine"
	"github.com/mkschou/pdareach/internal/dot"
	"github.com/mkschou/pdareach/internal/format"
)

func newRenderCmd() *cobra.Command {
	var initialPath, out string

	cmd := &cobra.Command{
		Use:   "render [pda.toml]",
		Short: "Render the initial P-automaton to an SVG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			alphabet := engine.NewAlphabet()
			p, err := format.ParsePDA(args[0], alphabet)
			if err != nil {
				return err
			}
			a, err := format.ParsePAutomaton(initialPath, p, alphabet)
			if err != nil {
				return err
			}
			dotText := a.ToDot(func(id uint32) string {
				name, err := alphabet.Name(id)
				if err != nil {
					return fmt.Sprintf("%d", id)
				}
				return name
			})
			svg, err := dot.RenderSVG(cmd.Context(), dotText)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, svg, 0o644); err != nil {
				return err
			}
			logger.Infof("Rendered %s (%d bytes)", out, len(svg))
			return nil
		},
	}

	cmd.Flags().StringVarP(&initialPath, "initial", "i", "", "P-automaton TOML file (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "graph.svg", "output SVG path")
	_ = cmd.MarkFlagRequired("initial")
	return cmd
}
