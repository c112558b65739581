package imageprovider

import (
	"context"
	"net/http"
	"time"

	websearcher "github.com/w-h-a/research/web_searcher"
)

type Option func(*Options)

type Options struct {
	Location   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Searcher   websearcher.WebSearcher
	Context    context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = c
	}
}

func WithSearcher(s websearcher.WebSearcher) Option {
	return func(o *Options) {
		o.Searcher = s
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Timeout: 5 * time.Second,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
