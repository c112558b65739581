package websearcher

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("web search is not configured")

type WebSearcher interface {
	Search(ctx context.Context, query string, opts ...SearchOption) (Response, error)
}

type Result struct {
	Title         string
	URL           string
	Content       string
	PublishedDate string
}

// Response holds the ranked results and, when requested, related image urls.
// Images are not paired with results by the provider.
type Response struct {
	Results []Result
	Images  []string
}
