// Package draft writes personalised outreach emails for leads.
package draft

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/ai"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// Drafter writes cold emails with an AI model, falling back to a fixed
// template.
type Drafter struct {
	ai ai.Completer
}

// New creates a Drafter. A nil completer always uses the fallback template.
func New(completer ai.Completer) *Drafter {
	return &Drafter{ai: completer}
}

// Draft returns the email body for lead. The result is never empty.
func (d *Drafter) Draft(ctx context.Context, lead model.Lead) string {
	log := zap.L().With(
		zap.String("business", lead.BusinessName),
		zap.Bool("has_website", !needsWebsite(lead)),
	)

	if d.ai == nil {
		return Fallback(lead)
	}

	out, err := d.ai.Complete(ctx, ai.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(lead),
		Temperature: draftTemperature,
		MaxTokens:   draftMaxTokens,
	})
	if err != nil {
		log.Error("draft: ai completion failed, using template", zap.Error(err))
		return Fallback(lead)
	}

	body := strings.TrimSpace(out)
	if body == "" {
		log.Warn("draft: empty ai output, using template")
		return Fallback(lead)
	}

	log.Info("draft: generated cold email")
	return body
}

// Fallback renders the fixed template for lead.
func Fallback(lead model.Lead) string {
	if needsWebsite(lead) {
		opener := "You're"
		if lead.Rating != "" {
			opener = fmt.Sprintf("With your %s rating, you're", lead.Rating)
		}
		return fmt.Sprintf(noWebsiteFallback, businessName(lead), opener)
	}

	ratingText := ""
	if lead.Rating != "" {
		ratingText = fmt.Sprintf("With your %s rating, ", lead.Rating)
	}
	return fmt.Sprintf(hasWebsiteFallback, businessName(lead), ratingText)
}

// needsWebsite selects the no-website pitch.
func needsWebsite(lead model.Lead) bool {
	return !lead.WebsiteExists || lead.Website == model.WebsiteNA
}

func businessName(lead model.Lead) string {
	if name := strings.TrimSpace(lead.BusinessName); name != "" {
		return name
	}
	return "your business"
}
