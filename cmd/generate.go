package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	generateMax    int
	generateFormat string
	generateOut    string
)

var generateCmd = &cobra.Command{
	Use:   "generate <query>",
	Short: "Generate leads for a search query",
	Long:  "Discovers businesses matching the query, enriches and drafts a cold email for each, saves them to the configured sink and prints the result.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		maxResults := generateMax
		if maxResults == 0 {
			maxResults = cfg.Pipeline.DefaultMaxResults
		}

		ctx, cancel := withRunTimeout(cmd.Context(), runTimeout(cfg))
		defer cancel()

		env, err := initLeadEnv(ctx, "generate")
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Generate(ctx, query, maxResults)
		if err != nil {
			return err
		}

		zap.L().Info("generate complete",
			zap.String("query", query),
			zap.Int("leads", len(result.Leads)),
			zap.Bool("saved", result.SavedToSink),
		)
		return writeOutputFile(generateOut, generateFormat, result)
	},
}

func init() {
	generateCmd.Flags().IntVar(&generateMax, "max", 0, "maximum number of leads, 1-50 (default from config)")
	generateCmd.Flags().StringVar(&generateFormat, "format", formatJSON, "output format: json or yaml")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "write output to file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}
