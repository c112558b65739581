package research

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/research/completion"
	"github.com/w-h-a/research/extractor"
	"github.com/w-h-a/research/extractor/text"
	"github.com/w-h-a/research/generator"
	imageprovider "github.com/w-h-a/research/image_provider"
	"github.com/w-h-a/research/retriever"
	"github.com/w-h-a/research/store"
	"github.com/w-h-a/research/store/local"
	websearcher "github.com/w-h-a/research/web_searcher"
)

type stubGenerator struct {
	mtx     sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (g *stubGenerator) Generate(ctx context.Context, req generator.Request) (string, error) {
	prompt := req.Messages[len(req.Messages)-1].Text()

	g.mtx.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mtx.Unlock()

	if g.reply == nil {
		return "", nil
	}
	return g.reply(prompt)
}

func (g *stubGenerator) Stream(ctx context.Context, req generator.Request) (<-chan generator.Chunk, error) {
	rsp, err := g.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	ch := make(chan generator.Chunk, len(rsp))
	for _, r := range rsp {
		ch <- generator.Chunk{Content: string(r)}
	}
	close(ch)

	return ch, nil
}

func (g *stubGenerator) calls() int {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return len(g.prompts)
}

func (g *stubGenerator) last() string {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.prompts[len(g.prompts)-1]
}

func replyWith(rsp string) func(string) (string, error) {
	return func(string) (string, error) { return rsp, nil }
}

type stubRetriever struct {
	results []retriever.Result
	err     error
	queries []string
	limits  []int
}

func (r *stubRetriever) Search(ctx context.Context, query string, opts ...retriever.SearchOption) ([]retriever.Result, error) {
	r.queries = append(r.queries, query)
	r.limits = append(r.limits, retriever.NewSearchOptions(opts...).Limit)
	return r.results, r.err
}

type searchCall struct {
	query   string
	options websearcher.SearchOptions
}

type stubSearcher struct {
	calls     []searchCall
	responses map[string]websearcher.Response
	err       error
}

func (s *stubSearcher) Search(ctx context.Context, query string, opts ...websearcher.SearchOption) (websearcher.Response, error) {
	s.calls = append(s.calls, searchCall{query: query, options: websearcher.NewSearchOptions(opts...)})
	if s.err != nil {
		return websearcher.Response{}, s.err
	}
	return s.responses[query], nil
}

type stubImages struct {
	img imageprovider.Image
	err error
}

func (p *stubImages) Find(ctx context.Context, keywords string) (imageprovider.Image, error) {
	return p.img, p.err
}

type fixture struct {
	service   *Service
	gen       *stubGenerator
	retriever *stubRetriever
	store     store.Store
}

func newFixture(t *testing.T, apiKey string, opts ...Option) *fixture {
	t.Helper()

	gen := &stubGenerator{}
	r := &stubRetriever{}
	s := local.NewStore(store.WithLocation(t.TempDir()))

	client := completion.NewClient(
		gen,
		completion.WithApiKey(apiKey),
		completion.WithSleeper(func(ctx context.Context, d time.Duration) error { return nil }),
	)

	opts = append([]Option{
		WithStore(s),
		WithExtractor(extractor.ByExtension(map[string]extractor.Extractor{".txt": text.NewExtractor()})),
	}, opts...)

	return &fixture{
		service:   NewService(r, client, opts...),
		gen:       gen,
		retriever: r,
		store:     s,
	}
}

func requireKind(t *testing.T, err error, kind completion.Kind) {
	t.Helper()
	got, ok := completion.KindOf(err)
	require.True(t, ok, "expected a completion error, got %v", err)
	assert.Equal(t, kind, got)
}

func TestAnswerQuestionSearchesWhenNoContext(t *testing.T) {
	f := newFixture(t, "key")
	f.gen.reply = replyWith("transformers use attention")
	f.retriever.results = []retriever.Result{
		{Source: "a.txt", Score: 80, Content: "attention is all you need..."},
		{Source: "b.txt", Score: 40, Content: "recurrent networks..."},
	}

	answer, err := f.service.AnswerQuestion(context.Background(), "what do transformers use?", "")
	require.NoError(t, err)

	assert.Equal(t, "transformers use attention", answer)
	assert.Equal(t, []int{3}, f.retriever.limits)
	assert.Equal(t,
		"Context:\nattention is all you need...\nrecurrent networks...\n\nQuestion: what do transformers use?\n\nAnswer the question based on the context provided. If the answer is not in the context, use your general knowledge.",
		f.gen.last(),
	)
}

func TestAnswerQuestionPrompts(t *testing.T) {
	f := newFixture(t, "key")

	_, err := f.service.AnswerQuestion(context.Background(), "why?", "given notes")
	require.NoError(t, err)
	assert.Empty(t, f.retriever.queries)
	assert.True(t, strings.HasPrefix(f.gen.last(), "Context:\ngiven notes\n\n"))

	f.retriever.err = errors.New("index unavailable")
	_, err = f.service.AnswerQuestion(context.Background(), "why?", "")
	require.NoError(t, err)
	assert.Equal(t, "Question: why?\n\nAnswer the question clearly and concisely.", f.gen.last())
}

func TestAnswerQuestionValidation(t *testing.T) {
	f := newFixture(t, "key")

	_, err := f.service.AnswerQuestion(context.Background(), "  ", "")
	requireKind(t, err, completion.InsufficientInput)
	assert.Zero(t, f.gen.calls())
}

func TestAnswerQuestionNotConfigured(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.service.AnswerQuestion(context.Background(), "why?", "notes")
	requireKind(t, err, completion.ConfigurationMissing)
	assert.Equal(t, "AI service is not configured.", completion.Render(err))
}

func TestStreamAnswer(t *testing.T) {
	f := newFixture(t, "key")
	f.gen.reply = replyWith("hello")

	frags, err := f.service.StreamAnswer(context.Background(), nil, "hi there")
	require.NoError(t, err)

	out, err := completion.Collect(frags)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "hi there", f.gen.last())

	_, err = f.service.StreamAnswer(context.Background(), nil, "")
	requireKind(t, err, completion.InsufficientInput)
}

func TestAnalyzeImage(t *testing.T) {
	f := newFixture(t, "key")
	f.gen.reply = replyWith("a chart")

	frags, err := f.service.AnalyzeImage(context.Background(), "", "https://img.example/x.png")
	require.NoError(t, err)

	out, err := completion.Collect(frags)
	require.NoError(t, err)
	assert.Equal(t, "a chart", out)
	assert.Equal(t, "Describe this image", f.gen.last())

	_, err = f.service.AnalyzeImage(context.Background(), "what?", "")
	requireKind(t, err, completion.InsufficientInput)
}

func TestCheckPlagiarismExcludesOwnDocument(t *testing.T) {
	f := newFixture(t, "key")
	f.retriever.results = []retriever.Result{
		{Source: "mine.txt", Score: 100, Content: "my own text..."},
		{Source: "other.txt", Score: 42.5, Content: "borrowed text..."},
	}
	f.gen.reply = replyWith(`Here is the report:
` + "```json" + `
{"originality_score": 50, "plagiarism_score": 30, "ai_detection_score": 40,
 "perplexity": "Low", "burstiness": "High",
 "flagged_segments": ["borrowed text"],
 "citation_report": [{"citation": "[1]", "status": "ok", "reason": "exists"}],
 "web_matches": [{"source": "arxiv", "match_percentage": "12"}],
 "assessment": "mostly original"}
` + "```")

	body := strings.Repeat("a", 1200)
	report, err := f.service.CheckPlagiarism(context.Background(), body, "mine.txt")
	require.NoError(t, err)

	require.Len(t, report.InternalMatches, 1)
	assert.Equal(t, "other.txt", report.InternalMatches[0].Source)
	assert.Equal(t, []string{strings.Repeat("a", 1000)}, f.retriever.queries)
	assert.Equal(t, []int{3}, f.retriever.limits)

	prompt := f.gen.last()
	assert.Contains(t, prompt, "Matches found in our internal database:\n- Source: other.txt (Similarity: 42.5%)\n  Snippet: borrowed text...\n")
	assert.NotContains(t, prompt, "mine.txt")

	assert.Equal(t, 42, report.OriginalityScore)
	assert.Equal(t, 25, report.PlagiarismScore)
	assert.Equal(t, 33, report.AIDetectionScore)
	assert.Equal(t, "Low", report.Perplexity)
	assert.Equal(t, []string{"borrowed text"}, report.FlaggedSegments)
	assert.Equal(t, []CitationCheck{{Citation: "[1]", Status: "ok", Reason: "exists"}}, report.CitationReport)
	assert.Equal(t, []WebMatch{{Source: "arxiv", MatchPercentage: 12}}, report.WebMatches)
	assert.Equal(t, "mostly original", report.Assessment)
}

func TestCheckPlagiarismDegrades(t *testing.T) {
	f := newFixture(t, "key")
	f.gen.reply = replyWith("I cannot produce JSON today.")

	report, err := f.service.CheckPlagiarism(context.Background(), "some text", "Pasted Text")
	require.NoError(t, err)

	assert.Equal(t, "I cannot produce JSON today.", report.Assessment)
	assert.Zero(t, report.OriginalityScore)
	assert.NotNil(t, report.InternalMatches)

	unconfigured := newFixture(t, "")
	report, err = unconfigured.service.CheckPlagiarism(context.Background(), "some text", "Pasted Text")
	require.NoError(t, err)
	assert.Equal(t, "AI service is not configured.", report.Assessment)

	_, err = f.service.CheckPlagiarism(context.Background(), "", "Pasted Text")
	requireKind(t, err, completion.InsufficientInput)
}

func TestComparePapers(t *testing.T) {
	f := newFixture(t, "key")
	f.gen.reply = replyWith("they differ")

	_, err := f.service.ComparePapers(context.Background(), []string{"only one"})
	requireKind(t, err, completion.InsufficientInput)
	assert.Zero(t, f.gen.calls())

	out, err := f.service.ComparePapers(context.Background(), []string{strings.Repeat("x", 2500), "second"})
	require.NoError(t, err)
	assert.Equal(t, "they differ", out)

	want := "Compare the following papers (separated by ---) and highlight key similarities and differences:\n\n" +
		strings.Repeat("x", 2000) + "\n\n---\n\nsecond"
	assert.Equal(t, want, f.gen.last())
}

func TestComparePaperFilesSkipsMissing(t *testing.T) {
	f := newFixture(t, "key")
	ctx := context.Background()

	_, err := f.store.Save(ctx, "a.txt", strings.NewReader("first paper"))
	require.NoError(t, err)
	_, err = f.store.Save(ctx, "b.txt", strings.NewReader("second paper"))
	require.NoError(t, err)

	_, err = f.service.ComparePaperFiles(ctx, []string{"a.txt", "missing.txt"})
	requireKind(t, err, completion.InsufficientInput)

	_, err = f.service.ComparePaperFiles(ctx, []string{"a.txt", "missing.txt", "b.txt"})
	require.NoError(t, err)
	assert.Contains(t, f.gen.last(), "first paper\n\n---\n\nsecond paper")
}

func TestSynthesizePapers(t *testing.T) {
	f := newFixture(t, "key")
	papers := []Document{
		{Filename: "a.pdf", Content: strings.Repeat("a", 2100)},
		{Filename: "b.pdf", Content: "beta"},
	}

	_, err := f.service.SynthesizePapers(context.Background(), papers[:1])
	requireKind(t, err, completion.InsufficientInput)

	f.gen.reply = replyWith(`Sure! [{"paper": "a.pdf", "objective": "o", "methodology": "m", "findings": "f", "novelty": "n"}, "noise"] Hope it helps.`)
	rows, err := f.service.SynthesizePapers(context.Background(), papers)
	require.NoError(t, err)
	assert.Equal(t, []ComparisonRow{{Paper: "a.pdf", Objective: "o", Methodology: "m", Findings: "f", Novelty: "n"}}, rows)
	assert.Contains(t, f.gen.last(), "\n--- PAPER 1: a.pdf ---\n"+strings.Repeat("a", 2000)+"\n")
	assert.Contains(t, f.gen.last(), "\n--- PAPER 2: b.pdf ---\nbeta\n")

	f.gen.reply = replyWith("no grid")
	rows, err = f.service.SynthesizePapers(context.Background(), papers)
	require.NoError(t, err)
	assert.Equal(t, []ComparisonRow{}, rows)
}

func TestGenerateVisualAbstract(t *testing.T) {
	f := newFixture(t, "key")
	f.gen.reply = replyWith(`"Quantum Error Correction"`)

	img, err := f.service.GenerateVisualAbstract(context.Background(), "a paper about qubits")
	require.NoError(t, err)
	assert.Equal(t, "Visualizing Quantum Error Correction...", img.Prompt)
	assert.Equal(t, "https://image.pollinations.ai/prompt/Quantum%20Error%20Correction?width=1024&height=1024&nologo=true", img.URL)

	found := newFixture(t, "key", WithImageProvider(&stubImages{img: imageprovider.Image{Prompt: "p", URL: "https://img.example/q.png"}}))
	found.gen.reply = replyWith("qubits")
	img, err = found.service.GenerateVisualAbstract(context.Background(), "a paper about qubits")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/q.png", img.URL)

	failing := newFixture(t, "", WithImageProvider(&stubImages{err: imageprovider.ErrNoImage}))
	img, err = failing.service.GenerateVisualAbstract(context.Background(), "Surface codes protect logical qubits")
	require.NoError(t, err)
	assert.Equal(t, "Visualizing Surface codes protect...", img.Prompt)
	assert.NotEmpty(t, img.URL)

	_, err = f.service.GenerateVisualAbstract(context.Background(), "")
	requireKind(t, err, completion.InsufficientInput)
}

func TestStructuredDefaults(t *testing.T) {
	f := newFixture(t, "key")
	f.gen.reply = replyWith("not json at all")
	ctx := context.Background()

	graph, err := f.service.ExtractKnowledgeGraph(ctx, "text")
	require.NoError(t, err)
	assert.Equal(t, KnowledgeGraph{Nodes: []Node{}, Edges: []Edge{}}, graph)

	journals, err := f.service.MatchJournals(ctx, "abstract")
	require.NoError(t, err)
	assert.Equal(t, []Journal{}, journals)

	ieee, err := f.service.CheckIEEE(ctx, "text")
	require.NoError(t, err)
	assert.Equal(t, IEEEReport{Feedback: "Unrecognized format", RequiredChanges: []string{}, Strengths: []string{}}, ieee)

	trends, err := f.service.ResearchTrends(ctx, "topic")
	require.NoError(t, err)
	assert.Equal(t, Trends{TrendScore: 50, MarketStatus: "Stable", YearlyVolume: []YearVolume{}}, trends)
}

func TestStructuredFieldDefaults(t *testing.T) {
	f := newFixture(t, "key")
	ctx := context.Background()

	f.gen.reply = replyWith(`{"nodes": [{"id": 1, "label": "Attention", "type": "concept"}, {"label": "no id"}], "edges": [{"from": 1, "to": "2", "label": "enables"}, {"from": "1"}]}`)
	graph, err := f.service.ExtractKnowledgeGraph(ctx, "text")
	require.NoError(t, err)
	assert.Equal(t, []Node{{Id: "1", Label: "Attention", Type: "concept"}}, graph.Nodes)
	assert.Equal(t, []Edge{{From: "1", To: "2", Label: "enables"}}, graph.Edges)

	f.gen.reply = replyWith(`{"trend_score": "81", "yearly_volume": [{"year": 2024, "count": 120}, {"count": 5}]}`)
	trends, err := f.service.ResearchTrends(ctx, "topic")
	require.NoError(t, err)
	assert.Equal(t, 81, trends.TrendScore)
	assert.Equal(t, "Stable", trends.MarketStatus)
	assert.Equal(t, []YearVolume{{Year: 2024, Count: 120}}, trends.YearlyVolume)

	f.gen.reply = replyWith(`{"is_eligible": true, "score": 88.6, "required_changes": ["add index terms"]}`)
	ieee, err := f.service.CheckIEEE(ctx, "text")
	require.NoError(t, err)
	assert.True(t, ieee.IsEligible)
	assert.Equal(t, 89, ieee.Score)
	assert.Equal(t, "Unrecognized format", ieee.Feedback)
	assert.Equal(t, []string{"add index terms"}, ieee.RequiredChanges)
	assert.Equal(t, []string{}, ieee.Strengths)

	f.gen.reply = replyWith("```json\n[{\"name\": \"Nature\", \"impact\": 42.1, \"review_time\": \"3 months\", \"prob\": \"Low\"}]\n```")
	journals, err := f.service.MatchJournals(ctx, "abstract")
	require.NoError(t, err)
	assert.Equal(t, []Journal{{Name: "Nature", Impact: 42.1, ReviewTime: "3 months", Prob: "Low"}}, journals)
}

func TestStructuredPropagatesCompletionFailures(t *testing.T) {
	f := newFixture(t, "key")
	f.gen.reply = func(string) (string, error) { return "", generator.Connection(errors.New("dial tcp")) }

	_, err := f.service.ExtractKnowledgeGraph(context.Background(), "text")
	requireKind(t, err, completion.ConnectivityFailure)
}

func TestWebResearch(t *testing.T) {
	ctx := context.Background()

	offline := newFixture(t, "key")
	_, err := offline.service.WebResearch(ctx, "graph learning", "")
	requireKind(t, err, completion.ConfigurationMissing)
	assert.Equal(t, "Web research is not configured.", completion.Render(err))

	searcher := &stubSearcher{responses: map[string]websearcher.Response{
		"scholarly research and latest findings on graph learning": {Results: []websearcher.Result{
			{Title: "GNN survey", URL: "https://a.example", Content: "gnns are popular"},
		}},
	}}
	f := newFixture(t, "key", WithWebSearcher(searcher))
	f.gen.reply = replyWith("synthesized")

	answer, err := f.service.WebResearch(ctx, "graph learning", "")
	require.NoError(t, err)

	assert.Equal(t, "synthesized", answer.Answer)
	assert.Equal(t, []WebSource{{Title: "GNN survey", URL: "https://a.example", Content: "gnns are popular"}}, answer.Sources)
	assert.Equal(t, websearcher.DepthAdvanced, searcher.calls[0].options.Depth)
	assert.Equal(t, 5, searcher.calls[0].options.MaxResults)
	assert.Contains(t, f.gen.last(), "LOCAL DOCUMENT CONTEXT: None")
	assert.Contains(t, f.gen.last(), "Source: https://a.example\nContent: gnns are popular")
}

func TestScoutFunding(t *testing.T) {
	ctx := context.Background()

	offline := newFixture(t, "key")
	funding, err := offline.service.ScoutFunding(ctx, "robotics")
	require.NoError(t, err)
	assert.Equal(t, []Funding{}, funding)

	searcher := &stubSearcher{responses: map[string]websearcher.Response{
		"open research grants and funding opportunities for robotics 2025 2026": {Results: []websearcher.Result{
			{Content: strings.Repeat("g", 250)},
		}},
	}}
	f := newFixture(t, "key", WithWebSearcher(searcher))

	funding, err = f.service.ScoutFunding(ctx, "robotics")
	require.NoError(t, err)
	assert.Equal(t, []Funding{{Title: "Funding Opportunity", Source: "#", Snippet: strings.Repeat("g", 200)}}, funding)
}

func TestLatestNewsFallsBackToTrending(t *testing.T) {
	searcher := &stubSearcher{responses: map[string]websearcher.Response{
		"quantum biology": {Results: []websearcher.Result{{Title: "only one"}}},
		"latest major scientific breakthroughs 2026": {
			Results: []websearcher.Result{{Title: "t1"}, {Title: "t2", PublishedDate: "2026-03-01"}},
			Images:  []string{"https://img.example/1.png"},
		},
		"trending academic research news worldwide": {
			Results: []websearcher.Result{{Title: "t3"}},
		},
	}}
	f := newFixture(t, "key", WithWebSearcher(searcher))

	news, err := f.service.LatestNews(context.Background(), "quantum biology")
	require.NoError(t, err)

	require.Len(t, news, 3)
	assert.Equal(t, Article{Title: "t1", Image: "https://img.example/1.png", PublishedDate: "Trending", IsTrending: true}, news[0])
	assert.Equal(t, "2026-03-01", news[1].PublishedDate)
	assert.Len(t, searcher.calls, 3)
	assert.Equal(t, 8, searcher.calls[0].options.MaxResults)
	assert.True(t, searcher.calls[0].options.IncludeImages)
}

func TestLatestNews(t *testing.T) {
	searcher := &stubSearcher{responses: map[string]websearcher.Response{
		"ai": {Results: []websearcher.Result{{Title: "a"}, {Title: "b"}, {Title: "c"}}},
	}}
	f := newFixture(t, "key", WithWebSearcher(searcher))

	news, err := f.service.LatestNews(context.Background(), "ai")
	require.NoError(t, err)

	require.Len(t, news, 3)
	assert.Equal(t, "Recently", news[0].PublishedDate)
	assert.False(t, news[0].IsTrending)
	assert.Len(t, searcher.calls, 1)
}

func TestConferences(t *testing.T) {
	searcher := &stubSearcher{responses: map[string]websearcher.Response{
		"upcoming Robotics academic conferences call for papers 2026": {Results: []websearcher.Result{{Title: "one"}}},
		"top upcoming global academic conferences 2026 for all research fields": {Results: []websearcher.Result{
			{Title: "ICRA robotics 2026"},
			{Title: "NeurIPS 2026"},
		}},
	}}
	f := newFixture(t, "key", WithWebSearcher(searcher))

	confs, err := f.service.Conferences(context.Background(), "Robotics")
	require.NoError(t, err)

	require.Len(t, confs, 2)
	assert.Equal(t, "Check website for Call for Papers", confs[0].Deadline)
	assert.False(t, confs[0].IsTrending)
	assert.True(t, confs[1].IsTrending)

	offline := newFixture(t, "key")
	confs, err = offline.service.Conferences(context.Background(), "Robotics")
	require.NoError(t, err)
	assert.Empty(t, confs)
}

func TestUploadAndRead(t *testing.T) {
	f := newFixture(t, "key")
	ctx := context.Background()

	doc, err := f.service.Upload(ctx, "my notes.txt", strings.NewReader("hello corpus"))
	require.NoError(t, err)
	assert.Equal(t, Document{Filename: "my_notes.txt", Content: "hello corpus"}, doc)

	papers, err := f.service.ListPapers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"my_notes.txt"}, papers)

	_, err = f.service.ReadPaper(ctx, "missing.txt")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.service.Upload(ctx, "run.sh", strings.NewReader("echo"))
	assert.ErrorIs(t, err, store.ErrInvalidName)
}

func TestSummarizeTruncates(t *testing.T) {
	f := newFixture(t, "key")

	_, err := f.service.Summarize(context.Background(), strings.Repeat("s", 3500))
	require.NoError(t, err)
	assert.Equal(t, "Please provide a concise summary of the following text:\n\n"+strings.Repeat("s", 3000), f.gen.last())

	_, err = f.service.Summarize(context.Background(), "")
	requireKind(t, err, completion.InsufficientInput)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   []float64
		want []int
	}{
		{in: []float64{50, 30, 40}, want: []int{42, 25, 33}},
		{in: []float64{60, 30, 10}, want: []int{60, 30, 10}},
		{in: []float64{1, 1, 1}, want: []int{34, 33, 33}},
		{in: []float64{0, 0, 0}, want: []int{0, 0, 0}},
		{in: []float64{-5, 10, 0}, want: []int{0, 100, 0}},
	}

	for _, c := range cases {
		got := normalize(c.in)
		assert.Equal(t, c.want, got)
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	client := completion.NewClient(&stubGenerator{}, completion.WithApiKey("key"))

	assert.Panics(t, func() { NewService(nil, client) })
	assert.Panics(t, func() { NewService(&stubRetriever{}, client) })
}

type ctxKey struct{}

func TestServiceKeepsConstructionContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "boot")

	f := newFixture(t, "key", WithContext(ctx))
	assert.Equal(t, "boot", f.service.options.Context.Value(ctxKey{}))

	assert.Equal(t, context.Background(), NewOptions().Context)
}
