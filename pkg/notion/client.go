// Package notion adds lead rows to a Notion database.
package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultRateLimit matches Notion's published average of 3 requests a second.
const DefaultRateLimit = 3

// richTextLimit caps the content of one rich text run.
const richTextLimit = 2000

// Client appends rows to a Notion database.
type Client interface {
	// AddRow creates a page under dbID with props and returns its id.
	AddRow(ctx context.Context, dbID string, props notionapi.Properties) (notionapi.PageID, error)
}

// pageCreator is the part of notionapi used here.
type pageCreator interface {
	Create(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
}

// Option configures the client.
type Option func(*client)

// WithRateLimit sets the request rate; rps <= 0 disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = nil
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type client struct {
	pages   pageCreator
	limiter *rate.Limiter
}

// NewClient returns a Client authenticated with an integration token.
func NewClient(token string, opts ...Option) Client {
	return newClient(notionapi.NewClient(notionapi.Token(token)).Page, opts...)
}

func newClient(pages pageCreator, opts ...Option) *client {
	c := &client{pages: pages, limiter: rate.NewLimiter(DefaultRateLimit, 1)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) AddRow(ctx context.Context, dbID string, props notionapi.Properties) (notionapi.PageID, error) {
	if dbID == "" {
		return "", eris.New("notion: database id is empty")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "notion: waiting for rate limit")
		}
	}

	page, err := c.pages.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: props,
	})
	if err != nil {
		return "", eris.Wrapf(err, "notion: add row to %s", dbID)
	}
	return notionapi.PageID(page.ID), nil
}
