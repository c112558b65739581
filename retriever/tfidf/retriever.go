package tfidf

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/w-h-a/research/retriever"
	"github.com/w-h-a/research/store"
)

type tfidfRetriever struct {
	options retriever.Options
	corpus  *corpus
}

// Search ranks the stored documents against query. Failures are logged and
// yield no results.
func (r *tfidfRetriever) Search(ctx context.Context, query string, opts ...retriever.SearchOption) ([]retriever.Result, error) {
	options := retriever.NewSearchOptions(opts...)

	results := []retriever.Result{}

	if len(strings.TrimSpace(query)) == 0 || options.Limit <= 0 {
		return results, nil
	}

	docs, err := r.corpus.load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load document corpus", "error", err)
		return results, nil
	}

	if len(docs) == 0 {
		return results, nil
	}

	texts := make([]string, 0, len(docs)+1)
	for _, d := range docs {
		texts = append(texts, d.text)
	}
	texts = append(texts, query)

	vecs, err := fit(texts)
	if err != nil {
		slog.WarnContext(ctx, "failed to vectorize corpus", "error", err)
		return results, nil
	}

	q := vecs[len(vecs)-1]

	type scored struct {
		doc document
		sim float64
	}

	var hits []scored
	for i, d := range docs {
		sim := retriever.CosineSimilarity(q, vecs[i])
		if sim < options.Threshold {
			continue
		}
		hits = append(hits, scored{doc: d, sim: sim})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].sim > hits[j].sim
	})

	if len(hits) > options.Limit {
		hits = hits[:options.Limit]
	}

	for _, h := range hits {
		results = append(results, retriever.Result{
			Source:  h.doc.id,
			Score:   score(h.sim),
			Content: snippet(h.doc.text, r.options.SnippetSize),
		})
	}

	return results, nil
}

func score(sim float64) float64 {
	s := retriever.Round2(sim * 100)
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func snippet(text string, size int) string {
	runes := []rune(text)
	if len(runes) > size {
		runes = runes[:size]
	}
	return string(runes) + "..."
}

func NewRetriever(opts ...retriever.Option) retriever.Retriever {
	options := retriever.NewOptions(opts...)

	if options.Store == nil || options.Extractor == nil {
		detail := "tfidf retriever requires a store and an extractor"
		slog.ErrorContext(context.Background(), detail)
		panic(detail)
	}

	r := &tfidfRetriever{
		options: options,
		corpus:  newCorpus(options.Store, options.Extractor, options.MinLength),
	}

	if w, ok := options.Store.(store.Watcher); ok {
		r.corpus.watch(options.Context, w)
	}

	return r
}
