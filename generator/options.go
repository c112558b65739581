package generator

import (
	"context"
	"net/http"
)

type Option func(*Options)

type Options struct {
	ApiKey     string
	Model      string
	BaseURL    string
	MaxTokens  int
	HTTPClient *http.Client
	Context    context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

// WithModel sets the model used when a Request leaves Model empty.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = c
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxTokens: 1024,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func (o Options) ModelFor(req Request) string {
	if len(req.Model) > 0 {
		return req.Model
	}
	return o.Model
}
