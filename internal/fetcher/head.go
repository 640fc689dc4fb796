package fetcher

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
)

// pageHead holds identifying metadata from a page's <head>.
type pageHead struct {
	Title    string
	SiteName string
}

// parseHead reads og:site_name and the document title. Malformed HTML yields
// empty fields.
func parseHead(html string) pageHead {
	var head pageHead

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(html)); err == nil {
		head.SiteName = strings.TrimSpace(og.SiteName)
		head.Title = strings.TrimSpace(og.Title)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return head
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		head.Title = title
	}
	return head
}
