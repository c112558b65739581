package web

import (
	"context"
	"fmt"
	"log/slog"

	imageprovider "github.com/w-h-a/research/image_provider"
	websearcher "github.com/w-h-a/research/web_searcher"
)

type webProvider struct {
	options imageprovider.Options
}

func (p *webProvider) Find(ctx context.Context, keywords string) (imageprovider.Image, error) {
	rsp, err := p.options.Searcher.Search(
		ctx,
		fmt.Sprintf("scientific academic abstract image of %s", keywords),
		websearcher.WithDepth(websearcher.DepthBasic),
		websearcher.WithMaxResults(3),
		websearcher.WithImages(),
	)
	if err != nil {
		return imageprovider.Image{}, err
	}

	if len(rsp.Images) == 0 {
		return imageprovider.Image{}, imageprovider.ErrNoImage
	}

	return imageprovider.Image{
		Prompt: fmt.Sprintf("Academic visual representation of %s", keywords),
		URL:    rsp.Images[0],
	}, nil
}

func NewProvider(opts ...imageprovider.Option) imageprovider.ImageProvider {
	options := imageprovider.NewOptions(opts...)

	if options.Searcher == nil {
		detail := "web image provider requires a web searcher"
		slog.ErrorContext(context.Background(), detail)
		panic(detail)
	}

	return &webProvider{
		options: options,
	}
}
