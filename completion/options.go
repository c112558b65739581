package completion

import (
	"context"
	"time"
)

const (
	defaultTextModel   = "llama-3.3-70b-versatile"
	defaultVisionModel = "llama-3.2-11b-vision-preview"
)

const (
	defaultSystemPrompt = "You are ResearchAI, an advanced research assistant for academic papers and technical documents. " +
		"Give deep, well-grounded insights in a professional and academic tone while staying helpful. " +
		"When a document is provided in your context, prioritize its content when answering."
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type Option func(*Options)

type Options struct {
	ApiKey       string
	TextModel    string
	VisionModel  string
	SystemPrompt string
	MaxRetries   int
	Timeout      time.Duration
	Sleeper      Sleeper
	Context      context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithTextModel(model string) Option {
	return func(o *Options) {
		o.TextModel = model
	}
}

func WithVisionModel(model string) Option {
	return func(o *Options) {
		o.VisionModel = model
	}
}

func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

func WithMaxRetries(n int) Option {
	return func(o *Options) {
		o.MaxRetries = n
	}
}

// WithTimeout bounds every call, streams included. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func WithSleeper(s Sleeper) Option {
	return func(o *Options) {
		o.Sleeper = s
	}
}

func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		TextModel:    defaultTextModel,
		VisionModel:  defaultVisionModel,
		SystemPrompt: defaultSystemPrompt,
		MaxRetries:   3,
		Timeout:      2 * time.Minute,
		Sleeper:      sleep,
		Context:      context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxRetries < 1 {
		options.MaxRetries = 1
	}
	return options
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
