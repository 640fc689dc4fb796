package pipeline

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadgen-cli/internal/ai"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// --- Discoverer Mock ---

type mockDiscoverer struct {
	mock.Mock
}

func (m *mockDiscoverer) Discover(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Candidate), args.Error(1)
}

func (m *mockDiscoverer) Name() string { return "mock" }

// --- Fetcher Fake ---

type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]model.FetchResult
	called [][]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) model.FetchResult {
	if fr, ok := f.pages[url]; ok {
		return fr
	}
	return model.FailedFetch(url, "HTTP 404 Not Found", 404)
}

func (f *fakeFetcher) FetchAll(ctx context.Context, urls []string, _ int) []model.FetchResult {
	f.mu.Lock()
	f.called = append(f.called, urls)
	f.mu.Unlock()

	out := make([]model.FetchResult, len(urls))
	for i, u := range urls {
		out[i] = f.Fetch(ctx, u)
	}
	return out
}

// --- Sink Fake ---

type fakeSink struct {
	err   error
	leads []model.Lead
}

func (s *fakeSink) Name() string { return "fake" }

func (s *fakeSink) AppendRows(_ context.Context, leads []model.Lead) error {
	if s.err != nil {
		return s.err
	}
	s.leads = append(s.leads, leads...)
	return nil
}

// --- Drafter Fake ---

type funcDrafter func(ctx context.Context, lead model.Lead) string

func (f funcDrafter) Draft(ctx context.Context, lead model.Lead) string { return f(ctx, lead) }

// --- Completer Stub ---

type stubCompleter struct {
	out string
}

func (s stubCompleter) Complete(context.Context, ai.Request) (string, error) {
	return s.out, nil
}
