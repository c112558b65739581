package research

import (
	"context"
	"log/slog"
	"strings"

	"github.com/w-h-a/research/completion"
	"github.com/w-h-a/research/generator"
	"github.com/w-h-a/research/retriever"
)

const (
	contextResults   = 3
	summaryBudget    = 3000
	defaultImageText = "Describe this image"
)

type Service struct {
	options   Options
	retriever retriever.Retriever
	client    *completion.Client
}

// Search ranks stored documents against query.
func (s *Service) Search(ctx context.Context, query string, k int) ([]retriever.Result, error) {
	return s.retriever.Search(ctx, query, retriever.WithLimit(k))
}

// AnswerQuestion grounds the answer in the given context, or in the closest
// stored documents when no context is given.
func (s *Service) AnswerQuestion(ctx context.Context, question string, grounding string) (string, error) {
	if len(strings.TrimSpace(question)) == 0 {
		return "", completion.NewError(completion.InsufficientInput, "Question is required")
	}

	if len(strings.TrimSpace(grounding)) == 0 {
		grounding = s.groundingContext(ctx, question)
	}

	return s.client.Complete(ctx, answerPrompt(grounding, question))
}

// StreamAnswer continues a conversation. A bare question is treated as a
// one-message conversation.
func (s *Service) StreamAnswer(ctx context.Context, msgs []generator.Message, question string) (<-chan completion.Fragment, error) {
	if len(msgs) == 0 {
		if len(strings.TrimSpace(question)) == 0 {
			return nil, completion.NewError(completion.InsufficientInput, "Question or messages is required")
		}
		msgs = []generator.Message{generator.TextMessage(generator.RoleUser, question)}
	}

	return s.client.StreamWithHistory(ctx, msgs), nil
}

func (s *Service) AnalyzeImage(ctx context.Context, prompt string, image string) (<-chan completion.Fragment, error) {
	if len(strings.TrimSpace(image)) == 0 {
		return nil, completion.NewError(completion.InsufficientInput, "Image data required")
	}

	if len(strings.TrimSpace(prompt)) == 0 {
		prompt = defaultImageText
	}

	return s.client.StreamVision(ctx, prompt, image), nil
}

func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return "", completion.NewError(completion.InsufficientInput, "Content or filename is required")
	}

	return s.client.Complete(ctx, summaryPrompt(truncate(text, summaryBudget)))
}

func (s *Service) GenerateInsight(ctx context.Context, topic string) (string, error) {
	if len(strings.TrimSpace(topic)) == 0 {
		return "", completion.NewError(completion.InsufficientInput, "Topic required")
	}

	return s.client.Complete(ctx, insightPrompt(topic))
}

func (s *Service) DraftSection(ctx context.Context, topic string, sectionType string, notes string) (string, error) {
	if len(strings.TrimSpace(topic)) == 0 || len(strings.TrimSpace(sectionType)) == 0 {
		return "", completion.NewError(completion.InsufficientInput, "Topic and section type required")
	}

	return s.client.Complete(ctx, draftPrompt(topic, sectionType, notes))
}

func (s *Service) groundingContext(ctx context.Context, query string) string {
	results, err := s.retriever.Search(ctx, query, retriever.WithLimit(contextResults))
	if err != nil {
		slog.WarnContext(ctx, "failed to search for grounding context", "error", err)
		return ""
	}

	snippets := make([]string, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, r.Content)
	}

	return strings.Join(snippets, "\n")
}

func NewService(r retriever.Retriever, c *completion.Client, opts ...Option) *Service {
	options := NewOptions(opts...)

	if r == nil || c == nil {
		detail := "research service requires a retriever and a completion client"
		slog.ErrorContext(options.Context, detail)
		panic(detail)
	}

	if options.Store == nil || options.Extractor == nil {
		detail := "research service requires a document store and an extractor"
		slog.ErrorContext(options.Context, detail)
		panic(detail)
	}

	if options.WebSearcher == nil {
		slog.WarnContext(options.Context, "web searcher not configured; web research features are disabled")
	}

	return &Service{
		options:   options,
		retriever: r,
		client:    c,
	}
}
