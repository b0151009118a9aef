package main

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *charmlog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func loggerFromContext(ctx context.Context) *charmlog.Logger {
	if l, ok := ctx.Value(loggerKey).(*charmlog.Logger); ok {
		return l
	}
	return charmlog.Default()
}

// rootCmd builds the pdareach command tree: a cobra root with a
// persistent --verbose flag and one subcommand per verb, matching
// matzehuels-stacktower's internal/cli.Execute layering.
func rootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "pdareach",
		Short:        "Solve pushdown-system reachability queries",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           level,
			})
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSolveCmd())
	root.AddCommand(newDotCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())

	return root
}
