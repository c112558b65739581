package server

import (
	"context"
	"net/http"
	"time"
)

type Option func(*Options)

type Options struct {
	Address         string
	Handler         http.Handler
	ShutdownTimeout time.Duration
	Context         context.Context
}

func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

func WithHandler(h http.Handler) Option {
	return func(o *Options) {
		o.Handler = h
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ShutdownTimeout = d
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Address:         ":5000",
		ShutdownTimeout: 10 * time.Second,
		Context:         context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
