package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadgen-cli/internal/ai"
	"github.com/sells-group/leadgen-cli/internal/model"
)

type stubCompleter struct {
	out  string
	err  error
	last ai.Request
}

func (s *stubCompleter) Complete(_ context.Context, req ai.Request) (string, error) {
	s.last = req
	return s.out, s.err
}

var (
	noSite = model.Lead{BusinessName: "Shiva Fitness", Rating: "4.5", Website: model.WebsiteNA}
	site   = model.Lead{BusinessName: "Iron Temple", Website: "https://irontemple.in", WebsiteExists: true}
)

func TestDraft_UsesAIOutput(t *testing.T) {
	stub := &stubCompleter{out: "  Hi Shiva Fitness,\n\nBody.\n\n[Your Name]  "}
	body := New(stub).Draft(context.Background(), noSite)

	assert.Equal(t, "Hi Shiva Fitness,\n\nBody.\n\n[Your Name]", body)
	assert.Equal(t, systemPrompt, stub.last.System)
	assert.InDelta(t, 0.7, stub.last.Temperature, 1e-9)
	assert.Equal(t, 350, stub.last.MaxTokens)
	assert.Contains(t, stub.last.Prompt, "DOES NOT have a website")
	assert.Contains(t, stub.last.Prompt, "Rating: 4.5")
	assert.Contains(t, stub.last.Prompt, "Owner: Not specified")
}

func TestDraft_HasWebsitePrompt(t *testing.T) {
	stub := &stubCompleter{out: "ok"}
	New(stub).Draft(context.Background(), site)

	assert.Contains(t, stub.last.Prompt, "website improvement services")
	assert.Contains(t, stub.last.Prompt, "Website: https://irontemple.in")
	assert.Contains(t, stub.last.Prompt, "mobile optimization, faster loading, better SEO")
	assert.Contains(t, stub.last.Prompt, "Rating: Not specified")
}

func TestDraft_ExistsButNA(t *testing.T) {
	stub := &stubCompleter{out: "ok"}
	lead := model.Lead{BusinessName: "X", Website: model.WebsiteNA, WebsiteExists: true}
	New(stub).Draft(context.Background(), lead)
	assert.Contains(t, stub.last.Prompt, "DOES NOT have a website")
}

func TestDraft_ErrorFallsBack(t *testing.T) {
	stub := &stubCompleter{err: errors.New("boom")}
	body := New(stub).Draft(context.Background(), noSite)
	assert.Equal(t, Fallback(noSite), body)
}

func TestDraft_EmptyOutputFallsBack(t *testing.T) {
	stub := &stubCompleter{out: "   \n"}
	body := New(stub).Draft(context.Background(), site)
	assert.Equal(t, Fallback(site), body)
}

func TestDraft_NilCompleter(t *testing.T) {
	assert.Equal(t, Fallback(site), New(nil).Draft(context.Background(), site))
}

func TestFallback_NoWebsite(t *testing.T) {
	body := Fallback(noSite)
	assert.Contains(t, body, "I came across Shiva Fitness and noticed you don't have a website yet.")
	assert.Contains(t, body, "With your 4.5 rating, you're clearly doing great")
	assert.Contains(t, body, "81% of customers")
	assert.Contains(t, body, "10-minute call")
	assert.Contains(t, body, "[Your Name]")

	noRating := Fallback(model.Lead{BusinessName: "Y", Website: model.WebsiteNA})
	assert.NotContains(t, noRating, "rating")
	assert.Contains(t, noRating, "yet. You're clearly doing great")
}

func TestFallback_HasWebsite(t *testing.T) {
	body := Fallback(site)
	assert.Contains(t, body, "I came across Iron Temple and was impressed by your online presence. I believe")
	assert.Contains(t, body, "15-minute call")
	assert.NotContains(t, body, "rating")

	rated := site
	rated.Rating = "4.9"
	assert.Contains(t, Fallback(rated), "With your 4.9 rating, I believe")
}

func TestFallback_NeverEmpty(t *testing.T) {
	assert.NotEmpty(t, Fallback(model.Lead{}))
	assert.Contains(t, Fallback(model.Lead{}), "your business")
}
