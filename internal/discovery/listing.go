package discovery

import (
	"strings"

	"golang.org/x/text/cases"
)

// listingPatterns are phrases that mark a result as a directory or ranking
// page rather than a business. This is a heuristic with known false
// positives (a gym literally named "Best Fitness" is dropped) and is kept
// as-is for compatibility with existing lead sheets.
var listingPatterns = []string{
	"best",
	"top",
	"list of",
	"gyms in",
	"cafes in",
	"restaurants in",
	"fitness centers",
	"fitness centres",
	"near me",
	"directory",
	"available on",
	"one of the best",
}

// excludedDomains are social/media hosts never treated as a business website.
var excludedDomains = []string{
	"instagram.com",
	"facebook.com",
	"twitter.com",
	"youtube.com",
	"reddit.com",
	"quora.com",
}

// IsListing reports whether a result title looks like a listing page.
func IsListing(title string) bool {
	folded := cases.Fold().String(title)
	for _, p := range listingPatterns {
		if strings.Contains(folded, p) {
			return true
		}
	}
	return false
}

// isExcludedDomain reports whether link points at a social/media host.
func isExcludedDomain(link string) bool {
	lower := strings.ToLower(link)
	for _, d := range excludedDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

// FormatHours reduces a weekly schedule to its first entry. Only the first
// weekday line is kept; callers rely on this exact shape.
func FormatHours(weekday []string) string {
	if len(weekday) == 0 {
		return ""
	}
	return weekday[0]
}
