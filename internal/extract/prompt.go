package extract

import (
	"fmt"
)

const (
	maxHTMLChars   = 8000
	maxPromptChars = 4000

	extractTemperature = 0.3
	extractMaxTokens   = 500
)

const systemPrompt = "You are a data extraction expert. Extract business information and return ONLY valid JSON."

const promptTemplate = `
Extract business information from the following HTML content.

Website URL: %s
Search Title: %s

Return ONLY a valid JSON object with these exact fields:
{
    "business_name": "extracted business name or from title",
    "owner_name": "owner/founder name if found, otherwise empty string",
    "rating": "rating if found (e.g., 4.5), otherwise empty string",
    "opening_hours": "opening hours if found, otherwise empty string",
    "phone": "phone number if found, otherwise empty string",
    "address": "address if found, otherwise empty string"
}

HTML Content:
%s

Return ONLY the JSON object, no other text.
`

// buildPrompt embeds the leading part of the page HTML in the extraction
// prompt.
func buildPrompt(url, searchTitle, html string) string {
	html = truncate(truncate(html, maxHTMLChars), maxPromptChars)
	return fmt.Sprintf(promptTemplate, url, searchTitle, html)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
