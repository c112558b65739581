package text

import (
	"context"
	"strings"

	"github.com/w-h-a/research/extractor"
)

type textExtractor struct{}

func (e *textExtractor) Extract(ctx context.Context, name string, raw []byte) (string, error) {
	return strings.ToValidUTF8(string(raw), ""), nil
}

func NewExtractor() extractor.Extractor {
	return &textExtractor{}
}
