package model

// FetchResult holds the outcome of retrieving a candidate's website.
// A failed fetch never carries content: Success=false implies HTMLContent="".
type FetchResult struct {
	URL         string `json:"url"`
	HTMLContent string `json:"html_content"`
	Title       string `json:"title,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	StatusCode  int    `json:"status_code,omitempty"`
}

// FailedFetch builds an unsuccessful FetchResult for url.
func FailedFetch(url, reason string, status int) FetchResult {
	return FetchResult{
		URL:        url,
		Success:    false,
		Error:      reason,
		StatusCode: status,
	}
}
