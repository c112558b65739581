package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/w-h-a/research/generator"
)

type Fragment struct {
	Text string
	Err  error
}

type Client struct {
	options   Options
	generator generator.Generator
}

func (c *Client) Configured() bool {
	return c.generator != nil && len(strings.TrimSpace(c.options.ApiKey)) > 0
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithHistory(ctx, []generator.Message{
		generator.TextMessage(generator.RoleUser, prompt),
	})
}

func (c *Client) CompleteWithHistory(ctx context.Context, msgs []generator.Message) (string, error) {
	if !c.Configured() {
		return "", NewError(ConfigurationMissing, "")
	}

	return c.generate(ctx, generator.Request{
		Model:    c.options.TextModel,
		Messages: c.frame(msgs),
	})
}

func (c *Client) Stream(ctx context.Context, prompt string) <-chan Fragment {
	return c.StreamWithHistory(ctx, []generator.Message{
		generator.TextMessage(generator.RoleUser, prompt),
	})
}

func (c *Client) StreamWithHistory(ctx context.Context, msgs []generator.Message) <-chan Fragment {
	if !c.Configured() {
		return failed(NewError(ConfigurationMissing, ""))
	}

	return c.stream(ctx, generator.Request{
		Model:    c.options.TextModel,
		Messages: c.frame(msgs),
	})
}

// StreamVision sends a single user turn made of the prompt and the image.
// The persona is not prepended for vision requests.
func (c *Client) StreamVision(ctx context.Context, prompt string, image string) <-chan Fragment {
	if !c.Configured() {
		return failed(NewError(ConfigurationMissing, ""))
	}

	return c.stream(ctx, generator.Request{
		Model: c.options.VisionModel,
		Messages: []generator.Message{{
			Role: generator.RoleUser,
			Parts: []generator.Part{
				{Type: generator.PartTypeText, Text: prompt},
				{Type: generator.PartTypeImage, ImageURL: ImageURL(image)},
			},
		}},
	})
}

func (c *Client) frame(msgs []generator.Message) []generator.Message {
	framed := make([]generator.Message, 0, len(msgs)+1)
	framed = append(framed, generator.TextMessage(generator.RoleSystem, c.options.SystemPrompt))

	for _, m := range msgs {
		switch m.Role {
		case generator.RoleUser, generator.RoleAssistant, generator.RoleSystem:
			framed = append(framed, m)
		default:
			slog.DebugContext(c.options.Context, "dropping message with unsupported role", "role", m.Role)
		}
	}

	return framed
}

func (c *Client) generate(ctx context.Context, req generator.Request) (string, error) {
	ctx, cancel := c.deadline(ctx)
	defer cancel()

	for attempt := range c.options.MaxRetries {
		rsp, err := c.generator.Generate(ctx, req)
		if err == nil {
			return rsp, nil
		}

		if !errors.Is(err, generator.ErrRateLimited) {
			return "", c.fail(ctx, err)
		}

		if attempt == c.options.MaxRetries-1 {
			break
		}

		wait := backoff(attempt)
		slog.WarnContext(ctx, "rate limit hit, retrying", "attempt", attempt+1, "wait", wait)

		if err := c.options.Sleeper(ctx, wait); err != nil {
			return "", &Error{Kind: ConnectivityFailure, Err: err}
		}
	}

	slog.WarnContext(ctx, "rate limit retries exhausted", "attempts", c.options.MaxRetries)

	return "", NewError(RateLimited, "")
}

func (c *Client) stream(ctx context.Context, req generator.Request) <-chan Fragment {
	out := make(chan Fragment)

	go func() {
		defer close(out)

		callCtx, cancel := c.deadline(ctx)
		defer cancel()

		chunks, err := c.generator.Stream(callCtx, req)
		if err != nil {
			send(ctx, out, Fragment{Err: c.fail(ctx, err)})
			return
		}

		for chunk := range chunks {
			if chunk.Err != nil {
				send(ctx, out, Fragment{Err: c.fail(ctx, chunk.Err)})
				return
			}

			if !send(ctx, out, Fragment{Text: chunk.Content}) {
				return
			}
		}

		// providers close quietly once callCtx is done
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			send(ctx, out, Fragment{Err: c.fail(ctx, callCtx.Err())})
		}
	}()

	return out
}

func (c *Client) fail(ctx context.Context, err error) *Error {
	var perr *generator.ProviderError

	switch {
	case errors.Is(err, generator.ErrConnection),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		slog.ErrorContext(ctx, "connection error", "error", err)
		return &Error{Kind: ConnectivityFailure, Err: err}
	case errors.As(err, &perr):
		slog.ErrorContext(ctx, "provider error", "error", err)
		return &Error{Kind: ProviderError, Detail: perr.Message, Err: err}
	default:
		slog.ErrorContext(ctx, "unexpected completion error", "error", err)
		return &Error{Kind: ProviderError, Detail: err.Error(), Err: err}
	}
}

func (c *Client) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.options.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.options.Timeout)
}

// backoff is 2^attempt + 1 seconds.
func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt + 1) * time.Second
}

// ImageURL passes http(s) URLs through and wraps anything else as base64 JPEG.
func ImageURL(image string) string {
	if strings.HasPrefix(image, "http") {
		return image
	}
	return fmt.Sprintf("data:image/jpeg;base64,%s", image)
}

// Collect drains a fragment stream into one string, stopping at the first error.
func Collect(frags <-chan Fragment) (string, error) {
	var sb strings.Builder
	for f := range frags {
		if f.Err != nil {
			return sb.String(), f.Err
		}
		sb.WriteString(f.Text)
	}
	return sb.String(), nil
}

func send(ctx context.Context, out chan<- Fragment, f Fragment) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}

func failed(err error) <-chan Fragment {
	out := make(chan Fragment, 1)
	out <- Fragment{Err: err}
	close(out)
	return out
}

func NewClient(gen generator.Generator, opts ...Option) *Client {
	options := NewOptions(opts...)

	c := &Client{
		options:   options,
		generator: gen,
	}

	if !c.Configured() {
		slog.WarnContext(options.Context, "completion api key not set, ai features are disabled")
	}

	return c
}
