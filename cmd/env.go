package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/ai"
	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/discovery"
	"github.com/sells-group/leadgen-cli/internal/draft"
	"github.com/sells-group/leadgen-cli/internal/extract"
	"github.com/sells-group/leadgen-cli/internal/fetcher"
	"github.com/sells-group/leadgen-cli/internal/mail"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/sink"
	"github.com/sells-group/leadgen-cli/pkg/google"
	"github.com/sells-group/leadgen-cli/pkg/notion"
	"github.com/sells-group/leadgen-cli/pkg/salesforce"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

// leadEnv holds the pipeline and the resources it owns, shared by the
// generate, serve and schedule commands.
type leadEnv struct {
	Pipeline *pipeline.Pipeline
	Sink     sink.Sink
	closers  []func()
}

// Close releases resources held by the environment.
func (e *leadEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// initLeadEnv validates configuration for mode and wires discovery, fetching,
// the AI model and the sink into a Pipeline. Callers should defer env.Close().
func initLeadEnv(ctx context.Context, mode string) (*leadEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	completer, err := ai.New(ctx, ai.Options{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.Key,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init ai")
	}

	env := &leadEnv{}
	snk, closeSink, err := buildSink(ctx, cfg)
	if err != nil {
		return nil, err
	}
	env.Sink = snk
	if closeSink != nil {
		env.closers = append(env.closers, closeSink)
	}

	env.Pipeline = pipeline.New(
		buildDiscoverer(cfg),
		fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:    cfg.Fetch.UserAgent,
			Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		}),
		extract.New(completer),
		draft.New(completer),
		pipeline.WithSink(snk),
		pipeline.WithFetchConcurrency(cfg.Fetch.Concurrency),
	)

	zap.L().Info("pipeline ready",
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("sink", snk.Name()),
	)
	return env, nil
}

// buildDiscoverer chains Google Places before Serper search; unconfigured
// providers are left out.
func buildDiscoverer(c *config.Config) *discovery.Chain {
	var places, search discovery.Discoverer
	if c.Places.Key != "" {
		places = discovery.NewPlacesDiscoverer(
			google.NewClient(c.Places.Key, google.WithBaseURL(c.Places.BaseURL)),
			c.Places.RateLimit,
		)
	} else {
		zap.L().Debug("LEADGEN_PLACES_KEY not set, places discovery disabled")
	}
	if c.Serper.Key != "" {
		search = discovery.NewSearchDiscoverer(
			serper.NewClient(c.Serper.Key, serper.WithBaseURL(c.Serper.BaseURL)),
			c.Serper.Country,
		)
	} else {
		zap.L().Debug("LEADGEN_SERPER_KEY not set, search discovery disabled")
	}
	return discovery.NewChain(places, search)
}

// buildSink opens the configured lead sinks. Several drivers are combined
// into a sink.Multi. The returned close func may be nil.
func buildSink(ctx context.Context, c *config.Config) (sink.Sink, func(), error) {
	drivers := c.Sink.Drivers()
	if len(drivers) == 0 {
		return sink.Nop{}, nil, nil
	}

	var (
		sinks   sink.Multi
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	for _, d := range drivers {
		s, closeFn, err := openSink(ctx, c, d)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, s)
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
	}

	var closeFn func()
	if len(closers) > 0 {
		closeFn = closeAll
	}
	if len(sinks) == 1 {
		return sinks[0], closeFn, nil
	}
	return sinks, closeFn, nil
}

// openSink opens a single sink driver.
func openSink(ctx context.Context, c *config.Config, driver string) (sink.Sink, func(), error) {
	switch driver {
	case config.SinkXLSX:
		return sink.NewXLSX(c.Sink.Path, c.Sink.Sheet), nil, nil

	case config.SinkSQLite:
		s, err := sink.NewSQLite(c.Sink.SQLitePath())
		if err != nil {
			return nil, nil, eris.Wrap(err, "open sqlite sink")
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, nil, eris.Wrap(err, "migrate sqlite sink")
		}
		return s, func() { _ = s.Close() }, nil

	case config.SinkPostgres:
		s, err := sink.NewPostgres(ctx, c.Sink.DatabaseURL)
		if err != nil {
			return nil, nil, eris.Wrap(err, "open postgres sink")
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, nil, eris.Wrap(err, "migrate postgres sink")
		}
		return s, s.Close, nil

	case config.SinkNotion:
		client := notion.NewClient(c.Notion.Token, notion.WithRateLimit(c.Notion.RateLimit))
		return sink.NewNotion(client, c.Notion.LeadDB), nil, nil

	case config.SinkSalesforce:
		client, err := salesforce.Connect(salesforce.Creds{
			LoginURL: c.Salesforce.LoginURL,
			Username: c.Salesforce.Username,
			ClientID: c.Salesforce.ClientID,
			KeyPath:  c.Salesforce.KeyPath,
		}, salesforce.WithRateLimit(c.Salesforce.RateLimit))
		if err != nil {
			return nil, nil, eris.Wrap(err, "connect salesforce sink")
		}
		return sink.NewSalesforce(client), nil, nil

	default:
		return nil, nil, eris.Errorf("unsupported sink driver %q", driver)
	}
}

// newMailer builds the SMTP mailer from configuration.
func newMailer(c *config.Config) *mail.Mailer {
	return mail.NewMailer(mail.SMTPOptions{
		Host:      c.SMTP.Host,
		Port:      c.SMTP.Port,
		Username:  c.SMTP.Username,
		Password:  c.SMTP.Password,
		FromEmail: c.SMTP.FromEmail,
		FromName:  c.SMTP.FromName,
	}, mail.WithRateLimit(c.SMTP.RateLimit))
}

// runTimeout returns the configured per-run deadline, or zero for none.
func runTimeout(c *config.Config) time.Duration {
	if c.Pipeline.RunTimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(c.Pipeline.RunTimeoutSecs) * time.Second
}

// withRunTimeout bounds ctx by d when d is positive.
func withRunTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
