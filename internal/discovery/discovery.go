// Package discovery finds local business candidates through a chain of
// search providers, most structured first.
package discovery

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// ErrProviderUnavailable is returned when no configured provider could serve
// a query.
var ErrProviderUnavailable = eris.New("discovery: no provider available")

// Discoverer returns up to limit candidates for a query. The result may be
// shorter than limit and never contains listing-style results.
type Discoverer interface {
	Discover(ctx context.Context, query string, limit int) ([]model.Candidate, error)
	Name() string
}

// Chain tries discoverers in order and returns the first non-empty result.
type Chain struct {
	providers []Discoverer
}

// NewChain creates a Chain. Nil providers are ignored so callers can pass
// optional providers directly.
func NewChain(providers ...Discoverer) *Chain {
	c := &Chain{}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Name implements Discoverer.
func (c *Chain) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Discover implements Discoverer. A provider error or an empty result moves on
// to the next provider. The outcome of the last provider tried decides an
// empty answer: if it failed, the returned error wraps ErrProviderUnavailable;
// if it succeeded with nothing to show, the result is empty and the error nil.
func (c *Chain) Discover(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	log := zap.L().With(zap.String("query", query), zap.Int("limit", limit))

	if len(c.providers) == 0 {
		return nil, eris.Wrap(ErrProviderUnavailable, "discovery: no providers configured")
	}

	var lastErr error
	for i, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "discovery: cancelled")
		}

		results, err := p.Discover(ctx, query, limit)
		if err != nil {
			log.Error("discovery: provider failed",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		lastErr = nil
		if len(results) > 0 {
			log.Info("discovery: provider returned candidates",
				zap.String("provider", p.Name()),
				zap.Int("count", len(results)),
			)
			return results, nil
		}
		if i < len(c.providers)-1 {
			log.Warn("discovery: provider returned no results, falling back",
				zap.String("provider", p.Name()),
			)
		}
	}

	if lastErr != nil {
		return nil, eris.Wrapf(ErrProviderUnavailable, "discovery: last provider failed: %v", lastErr)
	}
	return nil, nil
}

// formatRating renders a provider rating the way existing lead sheets store
// it ("4.5", "4.0"); zero means unrated.
func formatRating(r float64) string {
	if r == 0 || math.IsNaN(r) {
		return ""
	}
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
