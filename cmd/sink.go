package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/sink"
)

var (
	sinkListLimit  int
	sinkListFormat string
)

var sinkCmd = &cobra.Command{
	Use:   "sink",
	Short: "Inspect or reset the configured lead sinks",
}

var sinkClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove stored leads from sinks that support it (xlsx keeps its header)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSinkClear(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

var sinkListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the most recently stored leads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSinkList(cmd.Context(), cfg, cmd.OutOrStdout(), sinkListLimit, sinkListFormat)
	},
}

func runSinkClear(ctx context.Context, c *config.Config, w io.Writer) error {
	if err := c.Validate("sink"); err != nil {
		return err
	}
	s, closeFn, err := buildSink(ctx, c)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	cleared, err := sink.Clear(ctx, s)
	if err != nil {
		return err
	}
	zap.L().Info("sinks cleared", zap.Strings("sinks", cleared))
	_, err = fmt.Fprintf(w, "cleared: %s\n", strings.Join(cleared, ", "))
	return eris.Wrap(err, "write output")
}

func runSinkList(ctx context.Context, c *config.Config, w io.Writer, limit int, format string) error {
	if limit < 1 {
		return eris.Errorf("--limit must be > 0, got %d", limit)
	}
	if err := c.Validate("sink"); err != nil {
		return err
	}
	s, closeFn, err := buildSink(ctx, c)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	leads, err := sink.List(ctx, s, limit)
	if err != nil {
		return err
	}
	return writeOutput(w, format, leads)
}

func init() {
	sinkListCmd.Flags().IntVar(&sinkListLimit, "limit", 20, "maximum number of leads to print")
	sinkListCmd.Flags().StringVar(&sinkListFormat, "format", formatJSON, "output format: json or yaml")
	sinkCmd.AddCommand(sinkClearCmd, sinkListCmd)
	rootCmd.AddCommand(sinkCmd)
}
