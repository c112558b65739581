package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/w-h-a/research/extractor"
)

type pdfExtractor struct{}

// Extract decodes the shown text of every page through each font's ToUnicode
// map or encoding differences. Pages are separated by a newline.
func (e *pdfExtractor) Extract(ctx context.Context, name string, raw []byte) (text string, err error) {
	raw = e.normalize(ctx, name, raw)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse pdf %s: %v", name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf %s: %w", name, err)
	}

	fonts := map[string]*pdf.Font{}
	pages := make([]string, 0, reader.NumPage())

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		for _, f := range page.Fonts() {
			if _, ok := fonts[f]; !ok {
				font := page.Font(f)
				fonts[f] = &font
			}
		}

		content, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d of %s: %w", i, name, err)
		}

		if content = strings.TrimSpace(content); len(content) > 0 {
			pages = append(pages, content)
		}
	}

	return strings.Join(pages, "\n"), nil
}

// normalize rewrites the document through pdfcpu with a plain xref table,
// decrypting and repairing what relaxed validation tolerates. The original
// bytes are kept when that fails.
func (e *pdfExtractor) normalize(ctx context.Context, name string, raw []byte) []byte {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(raw), &out, conf); err != nil {
		slog.DebugContext(ctx, "pdf normalization skipped", "document", name, "error", err)
		return raw
	}

	return out.Bytes()
}

func NewExtractor() extractor.Extractor {
	return &pdfExtractor{}
}
