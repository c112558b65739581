package websearcher

import (
	"context"
	"net/http"
	"time"
)

type Option func(*Options)

type Options struct {
	ApiKey     string
	Location   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Context    context.Context
}

func WithApiKey(key string) Option {
	return func(o *Options) {
		o.ApiKey = key
	}
}

// WithLocation overrides the provider's base url.
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

func NewOptions(opts ...Option) Options {
	options := Options{
		Timeout: 30 * time.Second,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type Depth string

const (
	DepthBasic    Depth = "basic"
	DepthAdvanced Depth = "advanced"
)

type SearchOption func(*SearchOptions)

type SearchOptions struct {
	Depth         Depth
	MaxResults    int
	IncludeImages bool
}

func WithDepth(d Depth) SearchOption {
	return func(o *SearchOptions) {
		o.Depth = d
	}
}

func WithMaxResults(n int) SearchOption {
	return func(o *SearchOptions) {
		o.MaxResults = n
	}
}

func WithImages() SearchOption {
	return func(o *SearchOptions) {
		o.IncludeImages = true
	}
}

func NewSearchOptions(opts ...SearchOption) SearchOptions {
	options := SearchOptions{
		Depth:      DepthBasic,
		MaxResults: 5,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
