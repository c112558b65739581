package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/research/completion"
	getsafe "github.com/w-h-a/research/util/get_safe"
	websearcher "github.com/w-h-a/research/web_searcher"
)

const (
	webContextBudget = 2000
	fundingSnippet   = 200
	minNews          = 3
	minConferences   = 2
	trendingTarget   = 5
)

var trendingQueries = []string{
	"latest major scientific breakthroughs 2026",
	"trending academic research news worldwide",
}

// WebResearch answers query from live web results and the caller's local context.
func (s *Service) WebResearch(ctx context.Context, query string, local string) (WebAnswer, error) {
	if len(strings.TrimSpace(query)) == 0 {
		return WebAnswer{}, completion.NewError(completion.InsufficientInput, "Query is required")
	}

	if s.options.WebSearcher == nil {
		return WebAnswer{}, completion.NewError(completion.ConfigurationMissing, "Web research is not configured.")
	}

	rsp, err := s.options.WebSearcher.Search(
		ctx,
		fmt.Sprintf("scholarly research and latest findings on %s", query),
		websearcher.WithDepth(websearcher.DepthAdvanced),
		websearcher.WithMaxResults(5),
	)
	if errors.Is(err, websearcher.ErrNotConfigured) {
		return WebAnswer{}, completion.NewError(completion.ConfigurationMissing, "Web research is not configured.")
	}
	if err != nil {
		return WebAnswer{}, &completion.Error{Kind: completion.ProviderError, Detail: "web search failed", Err: err}
	}

	answer, err := s.client.Complete(ctx, synthesisPrompt(query, truncate(local, webContextBudget), webContext(rsp.Results)))
	if err != nil {
		return WebAnswer{}, err
	}

	sources := make([]WebSource, 0, len(rsp.Results))
	for _, r := range rsp.Results {
		sources = append(sources, WebSource{Title: r.Title, URL: r.URL, Content: r.Content})
	}

	return WebAnswer{Answer: answer, Sources: sources}, nil
}

// ResearchTrends estimates interest in topic, using web data when available.
func (s *Service) ResearchTrends(ctx context.Context, topic string) (Trends, error) {
	if len(strings.TrimSpace(topic)) == 0 {
		return Trends{}, completion.NewError(completion.InsufficientInput, "Topic required")
	}

	var web string
	if s.options.WebSearcher != nil {
		rsp, err := s.options.WebSearcher.Search(
			ctx,
			fmt.Sprintf("publication volume and research trends for %s 2020-2026", topic),
			websearcher.WithMaxResults(3),
		)
		if err != nil {
			slog.WarnContext(ctx, "trend web search failed", "error", err)
		}
		contents := make([]string, 0, len(rsp.Results))
		for _, r := range rsp.Results {
			contents = append(contents, r.Content)
		}
		web = strings.Join(contents, "\n")
	}

	raw, err := s.client.Complete(ctx, trendsPrompt(topic, web))
	if err != nil {
		return Trends{}, err
	}

	trends := Trends{
		TrendScore:   50,
		MarketStatus: "Stable",
		YearlyVolume: []YearVolume{},
	}

	obj, err := parseObject(raw)
	if err != nil {
		slog.WarnContext(ctx, "research trends were not valid json", "error", err)
		return trends, nil
	}

	trends.TrendScore = integer(obj, "trend_score", trends.TrendScore)
	trends.MarketStatus = getsafe.StringOr(obj, "market_status", trends.MarketStatus)
	trends.Analysis = getsafe.String(obj, "analysis")

	for _, v := range getsafe.Maps(obj, "yearly_volume") {
		year := integer(v, "year", 0)
		if year == 0 {
			continue
		}
		trends.YearlyVolume = append(trends.YearlyVolume, YearVolume{
			Year:  year,
			Count: integer(v, "count", 0),
		})
	}

	return trends, nil
}

// ScoutFunding lists open grants. Without a web searcher it finds nothing.
func (s *Service) ScoutFunding(ctx context.Context, keywords string) ([]Funding, error) {
	if len(strings.TrimSpace(keywords)) == 0 {
		return nil, completion.NewError(completion.InsufficientInput, "Keywords required")
	}

	funding := []Funding{}

	if s.options.WebSearcher == nil {
		return funding, nil
	}

	rsp, err := s.options.WebSearcher.Search(
		ctx,
		fmt.Sprintf("open research grants and funding opportunities for %s 2025 2026", keywords),
		websearcher.WithDepth(websearcher.DepthAdvanced),
		websearcher.WithMaxResults(5),
	)
	if err != nil {
		slog.WarnContext(ctx, "funding search failed", "error", err)
		return funding, nil
	}

	for _, r := range rsp.Results {
		f := Funding{
			Title:   r.Title,
			Source:  r.URL,
			Snippet: truncate(r.Content, fundingSnippet),
		}
		if len(f.Title) == 0 {
			f.Title = "Funding Opportunity"
		}
		if len(f.Source) == 0 {
			f.Source = "#"
		}
		funding = append(funding, f)
	}

	return funding, nil
}

// LatestNews searches for news on topic and falls back to globally trending
// research when the topic yields too little.
func (s *Service) LatestNews(ctx context.Context, topic string) ([]Article, error) {
	if s.options.WebSearcher == nil {
		return []Article{}, nil
	}

	rsp, err := s.options.WebSearcher.Search(
		ctx,
		topic,
		websearcher.WithDepth(websearcher.DepthAdvanced),
		websearcher.WithMaxResults(8),
		websearcher.WithImages(),
	)
	if err != nil {
		slog.WarnContext(ctx, "news search failed; using trending research", "error", err)
		return s.trending(ctx), nil
	}

	if len(rsp.Results) < minNews {
		return s.trending(ctx), nil
	}

	return articles(rsp, "Recently", false), nil
}

func (s *Service) trending(ctx context.Context) []Article {
	var merged websearcher.Response

	for _, q := range trendingQueries {
		rsp, err := s.options.WebSearcher.Search(
			ctx,
			q,
			websearcher.WithDepth(websearcher.DepthAdvanced),
			websearcher.WithMaxResults(5),
			websearcher.WithImages(),
		)
		if err != nil {
			slog.WarnContext(ctx, "trending search failed", "query", q, "error", err)
			continue
		}

		merged.Results = append(merged.Results, rsp.Results...)
		merged.Images = append(merged.Images, rsp.Images...)

		if len(merged.Results) >= trendingTarget {
			break
		}
	}

	return articles(merged, "Trending", true)
}

func articles(rsp websearcher.Response, date string, trending bool) []Article {
	out := make([]Article, 0, len(rsp.Results))
	for i, r := range rsp.Results {
		a := Article{
			Title:         r.Title,
			URL:           r.URL,
			Content:       r.Content,
			PublishedDate: r.PublishedDate,
			IsTrending:    trending,
		}
		if i < len(rsp.Images) {
			a.Image = rsp.Images[i]
		}
		if len(a.PublishedDate) == 0 {
			a.PublishedDate = date
		}
		out = append(out, a)
	}
	return out
}

// Conferences lists upcoming calls for papers on topic, widening to all
// fields when the topic yields too little.
func (s *Service) Conferences(ctx context.Context, topic string) ([]Conference, error) {
	if s.options.WebSearcher == nil {
		return []Conference{}, nil
	}

	rsp, err := s.options.WebSearcher.Search(
		ctx,
		fmt.Sprintf("upcoming %s academic conferences call for papers 2026", topic),
		websearcher.WithDepth(websearcher.DepthAdvanced),
		websearcher.WithMaxResults(6),
		websearcher.WithImages(),
	)
	if err != nil {
		slog.WarnContext(ctx, "conference search failed", "error", err)
		return []Conference{}, nil
	}

	if len(rsp.Results) < minConferences {
		rsp, err = s.options.WebSearcher.Search(
			ctx,
			"top upcoming global academic conferences 2026 for all research fields",
			websearcher.WithMaxResults(6),
			websearcher.WithImages(),
		)
		if err != nil {
			slog.WarnContext(ctx, "global conference search failed", "error", err)
			return []Conference{}, nil
		}
	}

	lowered := strings.ToLower(topic)

	out := make([]Conference, 0, len(rsp.Results))
	for i, r := range rsp.Results {
		c := Conference{
			Title:      r.Title,
			URL:        r.URL,
			Content:    r.Content,
			Deadline:   "Check website for Call for Papers",
			IsTrending: !strings.Contains(strings.ToLower(r.Title), lowered),
		}
		if i < len(rsp.Images) {
			c.Image = rsp.Images[i]
		}
		out = append(out, c)
	}

	return out, nil
}
