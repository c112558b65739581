package research

import (
	"context"

	"github.com/w-h-a/research/extractor"
	imageprovider "github.com/w-h-a/research/image_provider"
	"github.com/w-h-a/research/store"
	websearcher "github.com/w-h-a/research/web_searcher"
)

type Option func(*Options)

type Options struct {
	Store     store.Store
	Extractor extractor.Extractor
	// WebSearcher is optional; web backed operations degrade without it.
	WebSearcher websearcher.WebSearcher
	// ImageProvider resolves visual abstracts before the url template is used.
	ImageProvider imageprovider.ImageProvider
	Context       context.Context
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

func WithWebSearcher(s websearcher.WebSearcher) Option {
	return func(o *Options) {
		o.WebSearcher = s
	}
}

func WithImageProvider(p imageprovider.ImageProvider) Option {
	return func(o *Options) {
		o.ImageProvider = p
	}
}

func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
