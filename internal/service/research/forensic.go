package research

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/w-h-a/research/completion"
	"github.com/w-h-a/research/retriever"
	getsafe "github.com/w-h-a/research/util/get_safe"
)

const (
	searchBudget   = 1000
	forensicBudget = 5000
)

// CheckPlagiarism compares text with the stored corpus and asks the model for
// a forensic report. The stored copy of filename itself is never a match.
// Model failures are reported in the assessment rather than returned.
func (s *Service) CheckPlagiarism(ctx context.Context, text string, filename string) (ForensicReport, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return ForensicReport{}, completion.NewError(completion.InsufficientInput, "Text or file content is required")
	}

	matches := s.internalMatches(ctx, text, filename)

	raw, err := s.client.Complete(ctx, forensicPrompt(truncate(text, forensicBudget), internalMatches(matches)))
	if err != nil {
		raw = completion.Render(err)
	}

	report := parseForensic(ctx, raw)
	report.InternalMatches = matches

	return report, nil
}

func (s *Service) internalMatches(ctx context.Context, text string, filename string) []retriever.Result {
	results, err := s.retriever.Search(ctx, truncate(text, searchBudget), retriever.WithLimit(contextResults))
	if err != nil {
		slog.WarnContext(ctx, "internal similarity search failed", "error", err)
		return []retriever.Result{}
	}

	matches := make([]retriever.Result, 0, len(results))
	for _, r := range results {
		if r.Source == filename {
			continue
		}
		matches = append(matches, r)
	}

	return matches
}

func parseForensic(ctx context.Context, raw string) ForensicReport {
	report := ForensicReport{
		FlaggedSegments: []string{},
		CitationReport:  []CitationCheck{},
		WebMatches:      []WebMatch{},
	}

	obj, err := parseObject(raw)
	if err != nil {
		slog.WarnContext(ctx, "forensic report was not valid json", "error", err)
		report.Assessment = raw
		return report
	}

	scores := normalize([]float64{
		getsafe.NumberOr(obj, "originality_score", 0),
		getsafe.NumberOr(obj, "plagiarism_score", 0),
		getsafe.NumberOr(obj, "ai_detection_score", 0),
	})

	report.OriginalityScore = scores[0]
	report.PlagiarismScore = scores[1]
	report.AIDetectionScore = scores[2]
	report.Perplexity = getsafe.String(obj, "perplexity")
	report.Burstiness = getsafe.String(obj, "burstiness")
	report.FlaggedSegments = getsafe.Strings(obj, "flagged_segments")
	report.Assessment = getsafe.String(obj, "assessment")

	for _, c := range getsafe.Maps(obj, "citation_report") {
		report.CitationReport = append(report.CitationReport, CitationCheck{
			Citation: field(c, "citation"),
			Status:   field(c, "status"),
			Reason:   field(c, "reason"),
		})
	}

	for _, m := range getsafe.Maps(obj, "web_matches") {
		report.WebMatches = append(report.WebMatches, WebMatch{
			Source:          field(m, "source"),
			MatchPercentage: getsafe.NumberOr(m, "match_percentage", 0),
		})
	}

	return report
}

// normalize scales non-negative scores so they sum to exactly 100 using
// largest remainder rounding. All zero scores stay zero.
func normalize(scores []float64) []int {
	out := make([]int, len(scores))

	sum := 0.0
	for i, s := range scores {
		scores[i] = math.Max(s, 0)
		sum += scores[i]
	}

	if sum == 0 {
		return out
	}

	type remainder struct {
		idx  int
		frac float64
	}

	rems := make([]remainder, len(scores))
	total := 0
	for i, s := range scores {
		exact := s * 100 / sum
		out[i] = int(math.Floor(exact))
		total += out[i]
		rems[i] = remainder{idx: i, frac: exact - math.Floor(exact)}
	}

	sort.SliceStable(rems, func(i, j int) bool {
		return rems[i].frac > rems[j].frac
	})

	for i := 0; total < 100; i++ {
		out[rems[i%len(rems)].idx]++
		total++
	}

	return out
}
