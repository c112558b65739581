package research

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/w-h-a/research/completion"
	imageprovider "github.com/w-h-a/research/image_provider"
	"github.com/w-h-a/research/image_provider/pollinations"
	"github.com/w-h-a/research/store"
)

const (
	paperBudget   = 2000
	keywordBudget = 1500
	minPapers     = 2
)

// Upload stores a document and returns its id with the extracted text.
func (s *Service) Upload(ctx context.Context, name string, r io.Reader) (Document, error) {
	id, err := s.options.Store.Save(ctx, name, r)
	if err != nil {
		return Document{}, err
	}

	slog.InfoContext(ctx, "document uploaded", "document", id)

	content, err := s.ReadPaper(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "failed to extract uploaded document", "document", id, "error", err)
	}

	return Document{Filename: id, Content: content}, nil
}

func (s *Service) ListPapers(ctx context.Context) ([]string, error) {
	return s.options.Store.List(ctx)
}

// ReadPaper returns the extracted text of a stored document.
func (s *Service) ReadPaper(ctx context.Context, id string) (string, error) {
	raw, err := s.options.Store.Read(ctx, id)
	if err != nil {
		return "", err
	}

	content, err := s.options.Extractor.Extract(ctx, id, raw)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", id, err)
	}

	return content, nil
}

func (s *Service) ComparePapers(ctx context.Context, texts []string) (string, error) {
	if len(texts) < minPapers {
		return "", completion.NewError(completion.InsufficientInput, "At least two valid papers required for comparison")
	}

	truncated := make([]string, 0, len(texts))
	for _, t := range texts {
		truncated = append(truncated, truncate(t, paperBudget))
	}

	return s.client.Complete(ctx, comparePrompt(truncated))
}

// ComparePaperFiles compares stored documents. Unknown ids are skipped and
// unreadable ones contribute no text.
func (s *Service) ComparePaperFiles(ctx context.Context, ids []string) (string, error) {
	texts := make([]string, 0, len(ids))

	for _, id := range ids {
		content, err := s.ReadPaper(ctx, id)
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidName) {
			continue
		}
		if err != nil {
			slog.WarnContext(ctx, "failed to read paper for comparison", "document", id, "error", err)
		}
		texts = append(texts, content)
	}

	return s.ComparePapers(ctx, texts)
}

// SynthesizePapers builds a comparison grid with one row per paper. Output
// the model did not shape as a list yields no rows.
func (s *Service) SynthesizePapers(ctx context.Context, papers []Document) ([]ComparisonRow, error) {
	if len(papers) < minPapers {
		return nil, completion.NewError(completion.InsufficientInput, "At least two papers are required for synthesis")
	}

	raw, err := s.client.Complete(ctx, synthesizePrompt(papers))
	if err != nil {
		return nil, err
	}

	rows := []ComparisonRow{}

	items, err := parseArray(raw)
	if err != nil {
		slog.WarnContext(ctx, "synthesis grid was not valid json", "error", err)
		return rows, nil
	}

	for _, item := range items {
		rows = append(rows, ComparisonRow{
			Paper:       field(item, "paper"),
			Objective:   field(item, "objective"),
			Methodology: field(item, "methodology"),
			Findings:    field(item, "findings"),
			Novelty:     field(item, "novelty"),
		})
	}

	return rows, nil
}

// GenerateVisualAbstract always returns an image reference once text is
// given, falling back to a rendered prompt url.
func (s *Service) GenerateVisualAbstract(ctx context.Context, text string) (imageprovider.Image, error) {
	if len(strings.TrimSpace(text)) == 0 {
		return imageprovider.Image{}, completion.NewError(completion.InsufficientInput, "Paper content required")
	}

	keywords := s.keywords(ctx, text)

	if s.options.ImageProvider != nil {
		img, err := s.options.ImageProvider.Find(ctx, keywords)
		if err == nil && len(img.URL) > 0 {
			return img, nil
		}
		slog.WarnContext(ctx, "image providers found nothing", "keywords", keywords, "error", err)
	}

	return pollinations.NewProvider().Find(ctx, keywords)
}

func (s *Service) keywords(ctx context.Context, text string) string {
	rsp, err := s.client.Complete(ctx, keywordPrompt(truncate(text, keywordBudget)))
	if err == nil {
		kw := strings.TrimSpace(strings.NewReplacer("'", "", `"`, "").Replace(rsp))
		if len(kw) > 0 {
			return kw
		}
	}

	slog.WarnContext(ctx, "keyword extraction failed; using leading words", "error", err)

	return leadingWords(text, 3)
}

// leadingWords returns the first n words longer than three letters.
func leadingWords(text string, n int) string {
	var words []string
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, ".,;:!?()[]{}\"'")
		if len([]rune(w)) <= 3 {
			continue
		}
		words = append(words, w)
		if len(words) == n {
			break
		}
	}

	if len(words) == 0 {
		return "research"
	}

	return strings.Join(words, " ")
}
