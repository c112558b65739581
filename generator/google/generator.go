package google

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/research/generator"
	genaiopt "google.golang.org/api/option"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

var errImageURL = errors.New("remote image urls are not supported by this provider")

type googleGenerator struct {
	options generator.Options
	client  *genai.Client
}

func (g *googleGenerator) Generate(ctx context.Context, req generator.Request) (string, error) {
	session, parts, err := g.chat(req)
	if err != nil {
		return "", err
	}

	rsp, err := session.SendMessage(ctx, parts...)
	if err != nil {
		return "", classify(err)
	}

	result := textOf(rsp)
	if len(result) == 0 {
		return "", generator.ErrNoResponse
	}

	return result, nil
}

func (g *googleGenerator) Stream(ctx context.Context, req generator.Request) (<-chan generator.Chunk, error) {
	session, parts, err := g.chat(req)
	if err != nil {
		return nil, err
	}

	iter := session.SendMessageStream(ctx, parts...)

	ch := make(chan generator.Chunk)

	go func() {
		defer close(ch)

		for {
			rsp, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				generator.Send(ctx, ch, generator.Chunk{Err: classify(err)})
				return
			}

			text := textOf(rsp)
			if len(text) == 0 {
				continue
			}

			if !generator.Send(ctx, ch, generator.Chunk{Content: text}) {
				return
			}
		}
	}()

	return ch, nil
}

// chat splits the request into a chat session holding the history and the
// parts of the final message, which is what gets sent.
func (g *googleGenerator) chat(req generator.Request) (*genai.ChatSession, []genai.Part, error) {
	model := g.client.GenerativeModel(g.options.ModelFor(req))
	model.SetMaxOutputTokens(int32(g.options.MaxTokens))

	var system []genai.Part
	var history []*genai.Content

	for _, m := range req.Messages {
		if m.Role == generator.RoleSystem {
			system = append(system, genai.Text(m.Text()))
			continue
		}

		parts, err := partsFor(m)
		if err != nil {
			return nil, nil, err
		}

		role := "user"
		if m.Role == generator.RoleAssistant {
			role = "model"
		}

		history = append(history, &genai.Content{Role: role, Parts: parts})
	}

	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}

	if len(history) == 0 {
		return nil, nil, &generator.ProviderError{Message: "no messages to send"}
	}

	session := model.StartChat()
	session.History = history[:len(history)-1]

	return session, history[len(history)-1].Parts, nil
}

func partsFor(m generator.Message) ([]genai.Part, error) {
	if len(m.Parts) == 0 {
		return []genai.Part{genai.Text(m.Content)}, nil
	}

	parts := make([]genai.Part, 0, len(m.Parts))

	for _, p := range m.Parts {
		switch p.Type {
		case generator.PartTypeText:
			parts = append(parts, genai.Text(p.Text))
		case generator.PartTypeImage:
			mimeType, data, ok := generator.ParseDataURI(p.ImageURL)
			if !ok {
				return nil, &generator.ProviderError{Message: errImageURL.Error()}
			}
			raw, err := base64.StdEncoding.DecodeString(data)
			if err != nil {
				return nil, &generator.ProviderError{Message: fmt.Sprintf("invalid image data: %v", err)}
			}
			parts = append(parts, genai.ImageData(strings.TrimPrefix(mimeType, "image/"), raw))
		}
	}

	return parts, nil
}

func textOf(rsp *genai.GenerateContentResponse) string {
	if rsp == nil || len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return b.String()
}

func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", generator.ErrRateLimited, apiErr.Message)
		}
		return &generator.ProviderError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return generator.Connection(err)
	}

	return &generator.ProviderError{Message: err.Error()}
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	g := &googleGenerator{
		options: options,
	}

	clientOpts := []genaiopt.ClientOption{
		genaiopt.WithAPIKey(options.ApiKey),
	}
	if len(options.BaseURL) > 0 {
		clientOpts = append(clientOpts, genaiopt.WithEndpoint(options.BaseURL))
	}

	client, err := genai.NewClient(options.Context, clientOpts...)
	if err != nil {
		panic(err)
	}

	g.client = client

	return g
}
