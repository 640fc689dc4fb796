// Package pipeline turns a search query into drafted, outreach-ready leads.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/discovery"
	"github.com/sells-group/leadgen-cli/internal/fetcher"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/sink"
)

// Request bounds.
const (
	MinResults = 1
	MaxResults = 50

	defaultFetchConcurrency = 5
)

var (
	// ErrNoResults is returned when discovery finds no candidates.
	ErrNoResults = eris.New("pipeline: no results found")
	// ErrEmptyBatch is returned when candidates were found but none became a lead.
	ErrEmptyBatch = eris.New("pipeline: no leads generated")
	// ErrInvalidRequest is returned for a blank query or an out-of-range cap.
	ErrInvalidRequest = eris.New("pipeline: invalid request")
)

// Extractor turns a candidate and its optional fetched page into a lead.
type Extractor interface {
	Extract(ctx context.Context, fr *model.FetchResult, url, searchTitle string, meta model.Candidate) model.Lead
}

// Drafter writes the outreach email for a lead.
type Drafter interface {
	Draft(ctx context.Context, lead model.Lead) string
}

// Pipeline runs discover, fetch, extract and draft for a query.
type Pipeline struct {
	discoverer       discovery.Discoverer
	fetcher          fetcher.Fetcher
	extractor        Extractor
	drafter          Drafter
	sink             sink.Sink
	fetchConcurrency int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFetchConcurrency bounds parallel website fetches.
func WithFetchConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.fetchConcurrency = n
		}
	}
}

// WithSink sets where Generate persists leads.
func WithSink(s sink.Sink) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.sink = s
		}
	}
}

// New creates a Pipeline. Without WithSink leads are not persisted.
func New(d discovery.Discoverer, f fetcher.Fetcher, e Extractor, dr Drafter, opts ...Option) *Pipeline {
	p := &Pipeline{
		discoverer:       d,
		fetcher:          f,
		extractor:        e,
		drafter:          dr,
		sink:             sink.Nop{},
		fetchConcurrency: defaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stats summarises one run.
type Stats struct {
	Candidates     int   `json:"candidates" yaml:"candidates"`
	WithWebsite    int   `json:"with_website" yaml:"with_website"`
	WithoutWebsite int   `json:"without_website" yaml:"without_website"`
	FetchFailures  int   `json:"fetch_failures" yaml:"fetch_failures"`
	WithEmail      int   `json:"with_email" yaml:"with_email"`
	DurationMs     int64 `json:"duration_ms" yaml:"duration_ms"`
}

// Result is the outcome of Generate.
type Result struct {
	Query       string       `json:"query" yaml:"query"`
	Leads       []model.Lead `json:"leads" yaml:"leads"`
	SavedToSink bool         `json:"saved_to_sink" yaml:"saved_to_sink"`
	Stats       Stats        `json:"stats" yaml:"stats"`
}

// ValidateRequest checks a query and cap before any provider is called.
func ValidateRequest(query string, maxResults int) error {
	if strings.TrimSpace(query) == "" {
		return eris.Wrap(ErrInvalidRequest, "query is required")
	}
	if maxResults < MinResults || maxResults > MaxResults {
		return eris.Wrapf(ErrInvalidRequest, "max_results must be between %d and %d, got %d", MinResults, MaxResults, maxResults)
	}
	return nil
}

// Run returns up to maxResults drafted leads for query, in discovery order.
func (p *Pipeline) Run(ctx context.Context, query string, maxResults int) ([]model.Lead, error) {
	leads, _, err := p.run(ctx, query, maxResults)
	return leads, err
}

// Generate runs the pipeline and appends the leads to the configured sink.
// A sink failure is logged and reported through SavedToSink only.
func (p *Pipeline) Generate(ctx context.Context, query string, maxResults int) (*Result, error) {
	start := time.Now()
	log := zap.L().With(zap.String("query", query), zap.String("sink", p.sink.Name()))

	leads, stats, err := p.run(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	res := &Result{Query: query, Leads: leads, Stats: stats}
	switch sinkErr := p.sink.AppendRows(ctx, leads); {
	case sinkErr == nil:
		res.SavedToSink = true
	case eris.Is(sinkErr, sink.ErrNotConfigured):
		log.Debug("pipeline: no sink configured, leads not persisted")
	default:
		log.Warn("pipeline: failed to persist leads", zap.Error(sinkErr))
	}

	res.Stats.DurationMs = time.Since(start).Milliseconds()
	log.Info("pipeline: generate complete",
		zap.Int("leads", len(leads)),
		zap.Int("candidates", stats.Candidates),
		zap.Int("with_website", stats.WithWebsite),
		zap.Int("without_website", stats.WithoutWebsite),
		zap.Int("fetch_failures", stats.FetchFailures),
		zap.Int("with_email", stats.WithEmail),
		zap.Bool("saved", res.SavedToSink),
		zap.Int64("duration_ms", res.Stats.DurationMs),
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, query string, maxResults int) ([]model.Lead, Stats, error) {
	var stats Stats
	if err := ValidateRequest(query, maxResults); err != nil {
		return nil, stats, err
	}

	log := zap.L().With(zap.String("query", query), zap.Int("max_results", maxResults))
	log.Info("pipeline: starting run")

	candidates, err := p.discoverer.Discover(ctx, query, maxResults)
	if err != nil {
		return nil, stats, eris.Wrap(err, "pipeline: discover")
	}
	if len(candidates) == 0 {
		return nil, stats, ErrNoResults
	}
	stats.Candidates = len(candidates)

	pages := p.prefetch(ctx, candidates)

	leads := make([]model.Lead, 0, min(maxResults, len(candidates)))
	for i, c := range candidates {
		if len(leads) >= maxResults {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, stats, eris.Wrap(err, "pipeline: cancelled")
		}

		lead := p.process(ctx, c, pages[i])
		lead.ColdEmail = p.drafter.Draft(ctx, lead)
		leads = append(leads, lead)

		switch {
		case lead.WebsiteExists:
			stats.WithWebsite++
		default:
			stats.WithoutWebsite++
		}
		if lead.AttemptedWebsite != "" {
			stats.FetchFailures++
		}
		if lead.Email != "" {
			stats.WithEmail++
		}
	}

	if len(leads) == 0 {
		return nil, stats, ErrEmptyBatch
	}
	log.Info("pipeline: run complete", zap.Int("leads", len(leads)))
	return leads, stats, nil
}

// prefetch fetches every candidate website in one bounded fan-out. The result
// is aligned with candidates; entries for candidates without a link are nil.
func (p *Pipeline) prefetch(ctx context.Context, candidates []model.Candidate) []*model.FetchResult {
	pages := make([]*model.FetchResult, len(candidates))

	var (
		urls  []string
		index []int
	)
	for i, c := range candidates {
		if c.HasWebsite() {
			urls = append(urls, strings.TrimSpace(c.Link))
			index = append(index, i)
		}
	}
	if len(urls) == 0 {
		return pages
	}

	results := p.fetcher.FetchAll(ctx, urls, p.fetchConcurrency)
	for j, fr := range results {
		pages[index[j]] = &fr
	}
	return pages
}

// process builds the lead for one candidate. A candidate whose website could
// not be used (fetch failed or the page was empty) is treated as having none,
// remembering the attempted URL.
func (p *Pipeline) process(ctx context.Context, c model.Candidate, page *model.FetchResult) model.Lead {
	if page == nil {
		return p.extractor.Extract(ctx, nil, "", c.Title, c)
	}

	if !page.Success {
		zap.L().Warn("pipeline: website fetch failed, using listing metadata",
			zap.String("business", c.Title),
			zap.String("url", page.URL),
			zap.String("reason", page.Error),
		)
	} else if page.HTMLContent == "" {
		zap.L().Warn("pipeline: website returned no content, using listing metadata",
			zap.String("business", c.Title),
			zap.String("url", page.URL),
		)
	}

	lead := p.extractor.Extract(ctx, page, page.URL, c.Title, c)
	if !lead.WebsiteExists {
		lead.AttemptedWebsite = page.URL
		if lead.AttemptedWebsite == "" {
			lead.AttemptedWebsite = strings.TrimSpace(c.Link)
		}
	}
	return lead
}
