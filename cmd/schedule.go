package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	cronlib "github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scheduleOnce bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Generate leads for the configured queries on a cron schedule",
	Long:  "Runs generate for every query in schedule.queries each time schedule.cron fires. Leads go to the configured sink.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initLeadEnv(ctx, "schedule")
		if err != nil {
			return err
		}
		defer env.Close()

		job := func() {
			runScheduledQueries(ctx, env.Pipeline, cfg.Schedule.Queries, cfg.Schedule.MaxResults, runTimeout(cfg))
		}

		if scheduleOnce {
			job()
			return nil
		}

		c, err := newScheduler(cfg.Schedule.Cron, job)
		if err != nil {
			return err
		}
		c.Start()
		zap.L().Info("scheduler started",
			zap.String("cron", cfg.Schedule.Cron),
			zap.Strings("queries", cfg.Schedule.Queries),
		)

		<-ctx.Done()
		zap.L().Info("stopping scheduler")
		<-c.Stop().Done()
		return nil
	},
}

// newScheduler parses a standard five-field cron expression (descriptors such
// as @daily are accepted) and registers job. Overlapping runs are skipped.
func newScheduler(expr string, job func()) (*cronlib.Cron, error) {
	logger := zapCronLogger{log: zap.L().Sugar()}
	c := cronlib.New(
		cronlib.WithParser(cronlib.NewParser(
			cronlib.Minute|cronlib.Hour|cronlib.Dom|cronlib.Month|cronlib.Dow|cronlib.Descriptor,
		)),
		cronlib.WithLogger(logger),
		cronlib.WithChain(cronlib.Recover(logger), cronlib.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(expr, job); err != nil {
		return nil, eris.Wrapf(err, "parse schedule %q", expr)
	}
	return c, nil
}

// runScheduledQueries generates leads for each query in turn. Failures are
// logged and do not stop the remaining queries.
func runScheduledQueries(ctx context.Context, gen leadGenerator, queries []string, maxResults int, timeout time.Duration) (succeeded int) {
	for _, q := range queries {
		if ctx.Err() != nil {
			return succeeded
		}
		log := zap.L().With(zap.String("query", q))

		runCtx, cancel := withRunTimeout(ctx, timeout)
		res, err := gen.Generate(runCtx, q, maxResults)
		cancel()
		if err != nil {
			log.Error("scheduled run failed", zap.Error(err))
			continue
		}
		succeeded++
		log.Info("scheduled run complete",
			zap.Int("leads", len(res.Leads)),
			zap.Bool("saved", res.SavedToSink),
		)
	}
	return succeeded
}

// zapCronLogger adapts zap to cron.Logger.
type zapCronLogger struct {
	log *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw("cron: "+msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleOnce, "once", false, "run the configured queries once and exit")
	rootCmd.AddCommand(scheduleCmd)
}
