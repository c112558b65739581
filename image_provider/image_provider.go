package imageprovider

import (
	"context"
	"errors"
	"log/slog"
)

var ErrNoImage = errors.New("no image found")

type ImageProvider interface {
	// Find resolves an image for the given keywords.
	Find(ctx context.Context, keywords string) (Image, error)
}

type Image struct {
	Prompt string `json:"prompt"`
	URL    string `json:"image_url"`
}

type chain []ImageProvider

func (c chain) Find(ctx context.Context, keywords string) (Image, error) {
	for _, p := range c {
		img, err := p.Find(ctx, keywords)
		if err == nil && len(img.URL) > 0 {
			return img, nil
		}
		if err != nil {
			slog.WarnContext(ctx, "image provider failed; trying next", "error", err)
		}
	}
	return Image{}, ErrNoImage
}

// Chain tries each provider in order and returns the first image found.
func Chain(providers ...ImageProvider) ImageProvider {
	return chain(providers)
}
