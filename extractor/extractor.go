package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnsupported = errors.New("unsupported document type")

type Extractor interface {
	Extract(ctx context.Context, name string, raw []byte) (string, error)
}

type byExtension map[string]Extractor

func (e byExtension) Extract(ctx context.Context, name string, raw []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))

	x, ok := e[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	return x.Extract(ctx, name, raw)
}

// ByExtension dispatches on the lowercased file extension, e.g. ".pdf".
func ByExtension(extractors map[string]Extractor) Extractor {
	e := make(byExtension, len(extractors))
	for ext, x := range extractors {
		e[strings.ToLower(ext)] = x
	}
	return e
}
