package tfidf

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

var ErrEmptyVocabulary = errors.New("empty vocabulary; documents contain only stop words")

var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// analyze lowercases text, drops stop words and returns its unigrams
// followed by its bigrams.
func analyze(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)

	words := raw[:0]
	for _, w := range raw {
		if _, ok := stopwords[w]; ok {
			continue
		}
		words = append(words, w)
	}

	if len(words) == 0 {
		return nil
	}

	terms := make([]string, 0, 2*len(words)-1)
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}

	return terms
}

// fit weighs every document against the vocabulary of all of them. Term
// frequency is the raw count, idf is smoothed as ln((1+n)/(1+df))+1 and each
// vector is L2 normalized.
func fit(docs []string) ([]map[string]float64, error) {
	counts := make([]map[string]float64, len(docs))
	df := map[string]int{}

	for i, doc := range docs {
		tf := map[string]float64{}
		for _, term := range analyze(doc) {
			tf[term]++
		}
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}

	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	for _, vec := range counts {
		norm := 0.0
		for term, c := range vec {
			w := c * idf[term]
			vec[term] = w
			norm += w * w
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for term := range vec {
			vec[term] /= norm
		}
	}

	return counts, nil
}
