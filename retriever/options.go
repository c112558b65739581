package retriever

import (
	"context"

	"github.com/w-h-a/research/extractor"
	"github.com/w-h-a/research/store"
)

type Option func(*Options)

type Options struct {
	Store     store.Store
	Extractor extractor.Extractor
	// MinLength is the trimmed text length a document must exceed to join the corpus.
	MinLength   int
	SnippetSize int
	Context     context.Context
}

func WithStore(s store.Store) Option {
	return func(o *Options) {
		o.Store = s
	}
}

func WithExtractor(x extractor.Extractor) Option {
	return func(o *Options) {
		o.Extractor = x
	}
}

func WithMinLength(n int) Option {
	return func(o *Options) {
		o.MinLength = n
	}
}

func WithSnippetSize(n int) Option {
	return func(o *Options) {
		o.SnippetSize = n
	}
}

// WithContext bounds background work such as watching the store.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MinLength:   50,
		SnippetSize: 300,
		Context:     context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type SearchOption func(*SearchOptions)

type SearchOptions struct {
	Limit     int
	Threshold float64
}

func WithLimit(k int) SearchOption {
	return func(o *SearchOptions) {
		o.Limit = k
	}
}

func WithThreshold(t float64) SearchOption {
	return func(o *SearchOptions) {
		o.Threshold = t
	}
}

func NewSearchOptions(opts ...SearchOption) SearchOptions {
	options := SearchOptions{
		Limit:     5,
		Threshold: 0.1,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
