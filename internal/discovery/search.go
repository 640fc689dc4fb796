package discovery

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

// searchResultCount is the number of raw results requested per query.
const searchResultCount = 50

// SearchDiscoverer discovers businesses from a generic web search, using the
// local places pack first and organic results to fill the remainder.
type SearchDiscoverer struct {
	client  serper.Client
	country string
	retry   resilience.RetryConfig
}

// NewSearchDiscoverer creates a SearchDiscoverer. country is an optional
// two-letter region code biasing results.
func NewSearchDiscoverer(client serper.Client, country string) *SearchDiscoverer {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.LogRetries("serper", "search")
	return &SearchDiscoverer{client: client, country: country, retry: retry}
}

// Name implements Discoverer.
func (s *SearchDiscoverer) Name() string { return "serper" }

// Discover implements Discoverer.
func (s *SearchDiscoverer) Discover(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}
	zap.L().Warn("search: using generic web search, results may include listing pages",
		zap.String("query", query),
	)

	resp, err := resilience.Do(ctx, s.retry, func(ctx context.Context) (*serper.SearchResponse, error) {
		return s.client.Search(ctx, serper.SearchRequest{Q: query, Num: searchResultCount, GL: s.country})
	})
	if err != nil {
		return nil, eris.Wrap(err, "search: serper")
	}

	candidates := make([]model.Candidate, 0, limit)

	for _, p := range resp.Places {
		if len(candidates) >= limit {
			break
		}
		if IsListing(p.Title) {
			continue
		}
		candidates = append(candidates, model.Candidate{
			Title:   p.Title,
			Link:    strings.TrimSpace(p.Website),
			Snippet: p.Address,
			Rating:  formatRating(p.Rating),
			Phone:   p.PhoneNumber,
			Address: p.Address,
			Hours:   p.Hours,
			IsPlace: true,
		})
	}

	for _, o := range resp.Organic {
		if len(candidates) >= limit {
			break
		}
		if IsListing(o.Title) || isExcludedDomain(o.Link) {
			continue
		}
		candidates = append(candidates, model.Candidate{
			Title:   o.Title,
			Link:    strings.TrimSpace(o.Link),
			Snippet: o.Snippet,
		})
	}

	return candidates, nil
}
