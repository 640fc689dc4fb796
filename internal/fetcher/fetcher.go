// Package fetcher retrieves business websites for extraction. Failures are
// reported inside the result, never as Go errors.
package fetcher

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// NoWebsiteError is the reason recorded when there is nothing to fetch.
const NoWebsiteError = "No website available"

// Fetcher retrieves website HTML.
type Fetcher interface {
	// Fetch retrieves a single URL. It never fails; problems are reported
	// through FetchResult.Success and FetchResult.Error.
	Fetch(ctx context.Context, url string) model.FetchResult

	// FetchAll retrieves independent URLs with bounded parallelism. The
	// result is index-aligned with urls.
	FetchAll(ctx context.Context, urls []string, concurrency int) []model.FetchResult
}
