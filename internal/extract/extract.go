// Package extract turns a discovery candidate and its fetched website into a
// structured Lead.
package extract

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/ai"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// Extractor builds Leads, using an AI model to read website HTML.
type Extractor struct {
	ai ai.Completer
}

// New creates an Extractor.
func New(completer ai.Completer) *Extractor {
	return &Extractor{ai: completer}
}

// Extract builds a Lead for meta. Without usable page content the Lead is
// built from provider metadata alone; otherwise the model reads the page and
// provider metadata fills any gaps. Extract never fails: model errors
// degrade to a metadata-based Lead that keeps the website.
func (e *Extractor) Extract(ctx context.Context, fr *model.FetchResult, url, searchTitle string, meta model.Candidate) model.Lead {
	if url == "" || fr == nil || !fr.Success || fr.HTMLContent == "" {
		lead := FromMetadata(searchTitle, meta)
		zap.L().Info("extract: business without website", zap.String("business", lead.BusinessName))
		return lead
	}

	log := zap.L().With(zap.String("url", url))
	emails := ExtractEmails(fr.HTMLContent)

	if e.ai == nil {
		log.Warn("extract: no ai backend configured, using metadata")
		return defaultLead(url, searchTitle, emails, meta)
	}

	out, err := e.ai.Complete(ctx, ai.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(url, searchTitle, fr.HTMLContent),
		Temperature: extractTemperature,
		MaxTokens:   extractMaxTokens,
	})
	if err != nil {
		log.Error("extract: ai completion failed", zap.Error(err))
		return defaultLead(url, searchTitle, emails, meta)
	}

	fields, err := parseFields(out)
	if err != nil {
		log.Error("extract: unparseable ai output", zap.Error(err))
		return defaultLead(url, searchTitle, emails, meta)
	}

	lead := merge(fields, url, searchTitle, emails, meta, fr)
	log.Info("extract: extracted business data", zap.String("business", lead.BusinessName))
	return lead
}

// FromMetadata builds a Lead for a business with no usable website.
func FromMetadata(searchTitle string, meta model.Candidate) model.Lead {
	return model.Lead{
		BusinessName:  coalesce(meta.Title, searchTitle),
		Rating:        meta.Rating,
		OpeningHours:  meta.Hours,
		Phone:         meta.Phone,
		Address:       coalesce(meta.Address, meta.Snippet),
		Email:         "",
		Website:       model.WebsiteNA,
		WebsiteExists: false,
	}
}

// merge prefers model-extracted values and backfills empty ones from
// provider metadata.
func merge(f extractedFields, url, searchTitle string, emails []string, meta model.Candidate, fr *model.FetchResult) model.Lead {
	return model.Lead{
		BusinessName:  coalesce(f.BusinessName, meta.Title, searchTitle, fr.SiteName, fr.Title),
		OwnerName:     f.OwnerName,
		Rating:        coalesce(f.Rating, meta.Rating),
		OpeningHours:  coalesce(f.OpeningHours, meta.Hours),
		Phone:         coalesce(f.Phone, meta.Phone),
		Address:       coalesce(f.Address, meta.Address),
		Email:         firstOr(emails, ""),
		Website:       url,
		WebsiteExists: true,
	}
}

// defaultLead is used when the model could not be consulted or understood.
func defaultLead(url, searchTitle string, emails []string, meta model.Candidate) model.Lead {
	return model.Lead{
		BusinessName:  coalesce(meta.Title, searchTitle, url),
		Rating:        meta.Rating,
		OpeningHours:  meta.Hours,
		Phone:         meta.Phone,
		Address:       coalesce(meta.Address, meta.Snippet),
		Email:         firstOr(emails, ""),
		Website:       url,
		WebsiteExists: true,
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
