package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/research/generator"
)

type openAIGenerator struct {
	options generator.Options
	client  *openai.Client
}

func (g *openAIGenerator) Generate(ctx context.Context, req generator.Request) (string, error) {
	rsp, err := g.client.CreateChatCompletion(ctx, g.request(req, false))
	if err != nil {
		return "", classify(err)
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", generator.ErrNoResponse
	}

	return rsp.Choices[0].Message.Content, nil
}

func (g *openAIGenerator) Stream(ctx context.Context, req generator.Request) (<-chan generator.Chunk, error) {
	stream, err := g.client.CreateChatCompletionStream(ctx, g.request(req, true))
	if err != nil {
		return nil, classify(err)
	}

	ch := make(chan generator.Chunk)

	go func() {
		defer close(ch)
		defer stream.Close()

		for {
			rsp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				generator.Send(ctx, ch, generator.Chunk{Err: classify(err)})
				return
			}

			if len(rsp.Choices) == 0 || len(rsp.Choices[0].Delta.Content) == 0 {
				continue
			}

			if !generator.Send(ctx, ch, generator.Chunk{Content: rsp.Choices[0].Delta.Content}) {
				return
			}
		}
	}()

	return ch, nil
}

func (g *openAIGenerator) request(req generator.Request, stream bool) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))

	for _, m := range req.Messages {
		msg := openai.ChatCompletionMessage{
			Role: m.Role,
		}

		if len(m.Parts) == 0 {
			msg.Content = m.Content
			msgs = append(msgs, msg)
			continue
		}

		for _, p := range m.Parts {
			switch p.Type {
			case generator.PartTypeText:
				msg.MultiContent = append(msg.MultiContent, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: p.Text,
				})
			case generator.PartTypeImage:
				msg.MultiContent = append(msg.MultiContent, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    p.ImageURL,
						Detail: openai.ImageURLDetailAuto,
					},
				})
			}
		}

		msgs = append(msgs, msg)
	}

	return openai.ChatCompletionRequest{
		Model:    g.options.ModelFor(req),
		Messages: msgs,
		Stream:   stream,
	}
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", generator.ErrRateLimited, apiErr.Message)
		}
		return &generator.ProviderError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", generator.ErrRateLimited, reqErr.Error())
		}
		return &generator.ProviderError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return generator.Connection(err)
	}

	return &generator.ProviderError{Message: err.Error()}
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	g := &openAIGenerator{
		options: options,
	}

	config := openai.DefaultConfig(options.ApiKey)
	if len(options.BaseURL) > 0 {
		config.BaseURL = options.BaseURL
	}
	if options.HTTPClient != nil {
		config.HTTPClient = options.HTTPClient
	}

	g.client = openai.NewClientWithConfig(config)

	return g
}
