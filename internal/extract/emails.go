package extract

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)

// placeholderMarkers identify template or dummy addresses found in page HTML.
var placeholderMarkers = []string{"example.com", "test.com", "placeholder"}

// ExtractEmails returns the distinct email addresses in text, in first-seen
// order, without placeholder addresses. Duplicates are detected
// case-insensitively; the first spelling wins.
func ExtractEmails(text string) []string {
	matches := emailPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		key := strings.ToLower(m)
		if isPlaceholder(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

func isPlaceholder(lower string) bool {
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func firstOr(list []string, fallback string) string {
	if len(list) > 0 {
		return list[0]
	}
	return fallback
}
