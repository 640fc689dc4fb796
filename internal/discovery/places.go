package discovery

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/pkg/google"
)

// oversample compensates for listing filtering and failed detail lookups.
const oversample = 2

// PlacesDiscoverer discovers businesses through Google Places text search and
// per-place detail lookups.
type PlacesDiscoverer struct {
	client  google.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewPlacesDiscoverer creates a PlacesDiscoverer. rps paces detail lookups;
// values <= 0 default to 10 per second.
func NewPlacesDiscoverer(client google.Client, rps float64) *PlacesDiscoverer {
	if rps <= 0 {
		rps = 10
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.LogRetries("google_places", "places")
	return &PlacesDiscoverer{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		retry:   retry,
	}
}

// Name implements Discoverer.
func (p *PlacesDiscoverer) Name() string { return "google_places" }

// Discover implements Discoverer.
func (p *PlacesDiscoverer) Discover(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	log := zap.L().With(zap.String("provider", p.Name()), zap.String("query", query))
	if limit <= 0 {
		return nil, nil
	}

	resp, err := resilience.Do(ctx, p.retry, func(ctx context.Context) (*google.TextSearchResponse, error) {
		return p.client.TextSearch(ctx, query)
	})
	if err != nil {
		return nil, eris.Wrap(err, "places: text search")
	}
	if len(resp.Places) == 0 {
		log.Warn("places: no places found")
		return nil, nil
	}
	log.Info("places: text search complete", zap.Int("places", len(resp.Places)))

	raw := resp.Places
	if len(raw) > limit*oversample {
		raw = raw[:limit*oversample]
	}

	var candidates []model.Candidate
	for _, place := range raw {
		name := place.DisplayName.Text
		if IsListing(name) {
			log.Info("places: skipping listing page", zap.String("name", name))
			continue
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return candidates, eris.Wrap(err, "places: rate limit wait")
		}

		details, err := resilience.Do(ctx, p.retry, func(ctx context.Context) (*google.PlaceDetails, error) {
			return p.client.PlaceDetails(ctx, place.ID, google.DetailFields)
		})
		if err != nil {
			log.Warn("places: detail lookup failed, skipping",
				zap.String("place_id", place.ID),
				zap.String("name", name),
				zap.Error(err),
			)
			continue
		}

		c := candidateFromDetails(name, details)
		candidates = append(candidates, c)
		log.Info("places: added candidate",
			zap.String("title", c.Title),
			zap.Bool("has_website", c.HasWebsite()),
		)

		if len(candidates) >= limit {
			break
		}
	}

	return candidates, nil
}

func candidateFromDetails(searchName string, d *google.PlaceDetails) model.Candidate {
	title := d.DisplayName.Text
	if title == "" {
		title = searchName
	}

	var hours string
	if d.RegularOpeningHours != nil {
		hours = FormatHours(d.RegularOpeningHours.WeekdayDescriptions)
	}

	return model.Candidate{
		Title:   title,
		Link:    strings.TrimSpace(d.WebsiteURI),
		Snippet: d.FormattedAddress,
		Rating:  formatRating(d.Rating),
		Phone:   d.NationalPhoneNumber,
		Address: d.FormattedAddress,
		Hours:   hours,
		IsPlace: true,
		MapsURL: d.GoogleMapsURI,
	}
}
