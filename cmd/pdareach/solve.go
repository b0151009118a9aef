package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mkschou/pdareach/engine"
	"github.com/mkschou/pdareach/internal/format"
	"github.com/mkschou/pdareach/perr"
	"github.com/mkschou/pdareach/semiring"
)

// directions maps the CLI's -e {0,1,2,3} enum (spec.md §6) onto
// engine.Direction.
var directions = map[int]engine.Direction{
	0: engine.None,
	1: engine.Post,
	2: engine.Pre,
	3: engine.Dual,
}

func newSolveCmd() *cobra.Command {
	var (
		initialPath string
		finalPath   string
		direction   int
		traceFlag   string
	)

	cmd := &cobra.Command{
		Use:   "solve [pda.toml]",
		Short: "Decide reachability between two P-automata over a PDA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args[0], initialPath, finalPath, direction, traceFlag)
		},
	}

	cmd.Flags().StringVarP(&initialPath, "initial", "i", "", "initial P-automaton TOML file (required)")
	cmd.Flags().StringVarP(&finalPath, "final", "f", "", "final P-automaton TOML file (required)")
	cmd.Flags().IntVarP(&direction, "direction", "e", 3, "0=none, 1=post, 2=pre, 3=dual")
	cmd.Flags().StringVar(&traceFlag, "trace", "any", "none, any, or shortest")
	_ = cmd.MarkFlagRequired("initial")
	_ = cmd.MarkFlagRequired("final")

	return cmd
}

func parseTraceMode(s string) (engine.TraceMode, error) {
	switch s {
	case "none":
		return engine.TraceNone, nil
	case "any":
		return engine.TraceAny, nil
	case "shortest":
		return engine.TraceShortest, nil
	default:
		return 0, perr.New(perr.CodeInvalidPDA, "unrecognized --trace %q", s)
	}
}

func runSolve(cmd *cobra.Command, pdaPath, initialPath, finalPath string, direction int, traceFlag string) error {
	logger := loggerFromContext(cmd.Context())

	dir, ok := directions[direction]
	if !ok {
		return perr.New(perr.CodeInvalidPDA, "unrecognized -e %d, must be 0-3", direction)
	}
	mode, err := parseTraceMode(traceFlag)
	if err != nil {
		return err
	}

	alphabet := engine.NewAlphabet()
	p, err := format.ParsePDA(pdaPath, alphabet)
	if err != nil {
		return err
	}
	logger.Infof("Loaded PDA: %d states, %d rules, %d labels", p.NumStates, len(p.Rules), alphabet.Len())

	aInitial, err := format.ParsePAutomaton(initialPath, p, alphabet)
	if err != nil {
		return err
	}
	aFinal, err := format.ParsePAutomaton(finalPath, p, alphabet)
	if err != nil {
		return err
	}

	result, err := engine.Solve(cmd.Context(), p, semiring.Int, aInitial, aFinal, dir, mode)
	if err != nil {
		return err
	}

	printResult(cmd, result, alphabet)
	return nil
}

func printResult(cmd *cobra.Command, result engine.Result[int], alphabet *engine.Alphabet) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "reachable: %t\n", result.Reachable)
	if len(result.Trace) == 0 {
		return
	}
	fmt.Fprintf(out, "weight: %d\n", result.Weight)
	for i, c := range result.Trace {
		fmt.Fprintf(out, "  %d: state=%d stack=[%s]\n", i, c.State, stackString(c.Stack, alphabet))
	}
}

func stackString(stack []uint32, alphabet *engine.Alphabet) string {
	out := ""
	for i, l := range stack {
		if i > 0 {
			out += " "
		}
		name, err := alphabet.Name(l)
		if err != nil {
			name = strconv.FormatUint(uint64(l), 10)
		}
		out += name
	}
	return out
}
