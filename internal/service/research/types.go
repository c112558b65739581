package research

import "github.com/w-h-a/research/retriever"

type Document struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type CitationCheck struct {
	Citation string `json:"citation"`
	Status   string `json:"status"`
	Reason   string `json:"reason"`
}

type WebMatch struct {
	Source          string  `json:"source"`
	MatchPercentage float64 `json:"match_percentage"`
}

// ForensicReport is the outcome of a plagiarism check. The three scores sum
// to 100 whenever the model produced any of them.
type ForensicReport struct {
	OriginalityScore int                `json:"originality_score"`
	PlagiarismScore  int                `json:"plagiarism_score"`
	AIDetectionScore int                `json:"ai_detection_score"`
	Perplexity       string             `json:"perplexity"`
	Burstiness       string             `json:"burstiness"`
	FlaggedSegments  []string           `json:"flagged_segments"`
	CitationReport   []CitationCheck    `json:"citation_report"`
	WebMatches       []WebMatch         `json:"web_matches"`
	Assessment       string             `json:"assessment"`
	InternalMatches  []retriever.Result `json:"internal_matches"`
}

type ComparisonRow struct {
	Paper       string `json:"paper"`
	Objective   string `json:"objective"`
	Methodology string `json:"methodology"`
	Findings    string `json:"findings"`
	Novelty     string `json:"novelty"`
}

type Node struct {
	Id    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

type KnowledgeGraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type WebSource struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type WebAnswer struct {
	Answer  string      `json:"answer"`
	Sources []WebSource `json:"sources"`
}

type Journal struct {
	Name       string  `json:"name"`
	Impact     float64 `json:"impact"`
	ReviewTime string  `json:"review_time"`
	Prob       string  `json:"prob"`
}

type YearVolume struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

type Trends struct {
	TrendScore   int          `json:"trend_score"`
	MarketStatus string       `json:"market_status"`
	YearlyVolume []YearVolume `json:"yearly_volume"`
	Analysis     string       `json:"analysis,omitempty"`
}

type Funding struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	Snippet string `json:"snippet"`
}

type IEEEReport struct {
	IsEligible      bool     `json:"is_eligible"`
	Score           int      `json:"score"`
	Feedback        string   `json:"feedback"`
	RequiredChanges []string `json:"required_changes"`
	Strengths       []string `json:"strengths"`
}

type Article struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	Image         string `json:"image,omitempty"`
	PublishedDate string `json:"published_date"`
	IsTrending    bool   `json:"is_trending,omitempty"`
}

type Conference struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Content    string `json:"content"`
	Image      string `json:"image,omitempty"`
	Deadline   string `json:"deadline"`
	IsTrending bool   `json:"is_trending"`
}
