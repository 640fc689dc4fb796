package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
)

const (
	defaultTimeout      = 15 * time.Second
	defaultMaxBodyBytes = 2 << 20
	defaultConcurrency  = 5

	// DefaultUserAgent identifies as a desktop browser; many small business
	// hosts reject obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	Client       *http.Client
}

// HTTPFetcher implements Fetcher with net/http. Redirects are followed.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTPFetcher creates an HTTPFetcher with sensible defaults.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 4,
			},
		}
	}

	return &HTTPFetcher{
		client:    client,
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBodyBytes,
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) model.FetchResult {
	targetURL = strings.TrimSpace(targetURL)
	if targetURL == "" || targetURL == model.WebsiteNA {
		return model.FailedFetch("", NoWebsiteError, 0)
	}

	log := zap.L().With(zap.String("url", targetURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		log.Warn("fetch: invalid request", zap.Error(err))
		return model.FailedFetch(targetURL, err.Error(), 0)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		log.Warn("fetch: request failed", zap.Error(err))
		return model.FailedFetch(targetURL, err.Error(), 0)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		log.Warn("fetch: non-success status", zap.Int("status", resp.StatusCode))
		return model.FailedFetch(targetURL, reason, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		log.Warn("fetch: read body failed", zap.Error(err))
		return model.FailedFetch(targetURL, err.Error(), resp.StatusCode)
	}

	html := string(body)
	head := parseHead(html)

	log.Info("fetch: success", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(body)))
	return model.FetchResult{
		URL:         targetURL,
		HTMLContent: html,
		Title:       head.Title,
		SiteName:    head.SiteName,
		Success:     true,
		StatusCode:  resp.StatusCode,
	}
}

// FetchAll implements Fetcher. A panic while fetching one URL is converted
// into a failed result for that URL only.
func (f *HTTPFetcher) FetchAll(ctx context.Context, urls []string, concurrency int) []model.FetchResult {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	results := make([]model.FetchResult, len(urls))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, u := range urls {
		g.Go(func() error {
			results[i] = f.fetchIsolated(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (f *HTTPFetcher) fetchIsolated(ctx context.Context, targetURL string) (result model.FetchResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("fetch: panic during fetch",
				zap.String("url", targetURL),
				zap.Any("panic", r),
			)
			result = model.FailedFetch(targetURL, fmt.Sprintf("panic: %v", r), 0)
		}
	}()
	return f.Fetch(ctx, targetURL)
}
