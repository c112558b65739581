package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/w-h-a/research/generator"
)

type anthropicGenerator struct {
	options generator.Options
	client  *anthropic.Client
}

func (g *anthropicGenerator) Generate(ctx context.Context, req generator.Request) (string, error) {
	rsp, err := g.client.Messages.New(ctx, g.params(req))
	if err != nil {
		return "", classify(err)
	}

	var b strings.Builder
	for _, content := range rsp.Content {
		if text, ok := content.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}

	result := b.String()
	if len(result) == 0 {
		return "", generator.ErrNoResponse
	}

	return result, nil
}

func (g *anthropicGenerator) Stream(ctx context.Context, req generator.Request) (<-chan generator.Chunk, error) {
	stream := g.client.Messages.NewStreaming(ctx, g.params(req))

	ch := make(chan generator.Chunk)

	go func() {
		defer close(ch)
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()

			delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
			if !ok {
				continue
			}

			text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
			if !ok || len(text.Text) == 0 {
				continue
			}

			if !generator.Send(ctx, ch, generator.Chunk{Content: text.Text}) {
				return
			}
		}

		if err := stream.Err(); err != nil {
			generator.Send(ctx, ch, generator.Chunk{Err: classify(err)})
		}
	}()

	return ch, nil
}

func (g *anthropicGenerator) params(req generator.Request) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	msgs := make([]anthropic.MessageParam, 0, len(req.Messages))

	for _, m := range req.Messages {
		if m.Role == generator.RoleSystem {
			system = append(system, anthropic.TextBlockParam{Text: m.Text()})
			continue
		}

		blocks := blocksFor(m)
		if len(blocks) == 0 {
			continue
		}

		if m.Role == generator.RoleAssistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(blocks...))
		} else {
			msgs = append(msgs, anthropic.NewUserMessage(blocks...))
		}
	}

	return anthropic.MessageNewParams{
		Model:     anthropic.Model(g.options.ModelFor(req)),
		MaxTokens: int64(g.options.MaxTokens),
		System:    system,
		Messages:  msgs,
	}
}

func blocksFor(m generator.Message) []anthropic.ContentBlockParamUnion {
	if len(m.Parts) == 0 {
		if len(m.Content) == 0 {
			return nil
		}
		return []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(m.Content)}
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Parts))

	for _, p := range m.Parts {
		switch p.Type {
		case generator.PartTypeText:
			blocks = append(blocks, anthropic.NewTextBlock(p.Text))
		case generator.PartTypeImage:
			if mimeType, data, ok := generator.ParseDataURI(p.ImageURL); ok {
				blocks = append(blocks, anthropic.NewImageBlockBase64(mimeType, data))
			} else {
				blocks = append(blocks, anthropic.NewImageBlock(anthropic.URLImageSourceParam{URL: p.ImageURL}))
			}
		}
	}

	return blocks
}

func classify(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", generator.ErrRateLimited, apiErr.Error())
		}
		return &generator.ProviderError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return generator.Connection(err)
	}

	return &generator.ProviderError{Message: err.Error()}
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	g := &anthropicGenerator{
		options: options,
	}

	clientOpts := []anthropicopt.RequestOption{
		anthropicopt.WithAPIKey(options.ApiKey),
		// retries belong to the completion client
		anthropicopt.WithMaxRetries(0),
	}
	if len(options.BaseURL) > 0 {
		clientOpts = append(clientOpts, anthropicopt.WithBaseURL(options.BaseURL))
	}
	if options.HTTPClient != nil {
		clientOpts = append(clientOpts, anthropicopt.WithHTTPClient(options.HTTPClient))
	}

	client := anthropic.NewClient(clientOpts...)

	g.client = &client

	return g
}
