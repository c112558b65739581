package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	websearcher "github.com/w-h-a/research/web_searcher"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultLocation = "https://api.tavily.com"

type searchRequest struct {
	ApiKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeImages bool   `json:"include_images"`
}

type searchResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		Content       string `json:"content"`
		PublishedDate string `json:"published_date"`
	} `json:"results"`
	// plain urls, or objects when image descriptions are enabled
	Images []json.RawMessage `json:"images"`
}

type tavilySearcher struct {
	options websearcher.Options
	client  *http.Client
}

func (s *tavilySearcher) Search(ctx context.Context, query string, opts ...websearcher.SearchOption) (websearcher.Response, error) {
	options := websearcher.NewSearchOptions(opts...)

	if len(s.options.ApiKey) == 0 {
		return websearcher.Response{}, websearcher.ErrNotConfigured
	}

	req := searchRequest{
		ApiKey:        s.options.ApiKey,
		Query:         query,
		SearchDepth:   string(options.Depth),
		MaxResults:    options.MaxResults,
		IncludeImages: options.IncludeImages,
	}

	var rsp searchResponse
	if err := s.do(ctx, http.MethodPost, "/search", req, &rsp); err != nil {
		return websearcher.Response{}, err
	}

	out := websearcher.Response{
		Results: make([]websearcher.Result, 0, len(rsp.Results)),
		Images:  make([]string, 0, len(rsp.Images)),
	}

	for _, r := range rsp.Results {
		out.Results = append(out.Results, websearcher.Result{
			Title:         r.Title,
			URL:           r.URL,
			Content:       r.Content,
			PublishedDate: r.PublishedDate,
		})
	}

	for _, raw := range rsp.Images {
		if u := imageURL(raw); len(u) > 0 {
			out.Images = append(out.Images, u)
		}
	}

	return out, nil
}

func (s *tavilySearcher) do(ctx context.Context, method string, path string, req any, rsp any) error {
	u := strings.TrimSuffix(s.options.Location, "/") + path

	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+s.options.ApiKey)

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("tavily http %d: %s", response.StatusCode, string(payload))
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

func imageURL(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.URL
	}

	return ""
}

func NewSearcher(opts ...websearcher.Option) websearcher.WebSearcher {
	options := websearcher.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = defaultLocation
	}

	client := options.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   options.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	if len(options.ApiKey) == 0 {
		slog.WarnContext(options.Context, "tavily api key missing; web search disabled")
	}

	return &tavilySearcher{
		options: options,
		client:  client,
	}
}
