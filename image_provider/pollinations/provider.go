package pollinations

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	imageprovider "github.com/w-h-a/research/image_provider"
)

const defaultLocation = "https://image.pollinations.ai"

// pollinationsProvider renders a prompt url and never fails.
type pollinationsProvider struct {
	options imageprovider.Options
}

func (p *pollinationsProvider) Find(ctx context.Context, keywords string) (imageprovider.Image, error) {
	return imageprovider.Image{
		Prompt: fmt.Sprintf("Visualizing %s...", keywords),
		URL: fmt.Sprintf(
			"%s/prompt/%s?width=1024&height=1024&nologo=true",
			strings.TrimSuffix(p.options.Location, "/"),
			url.PathEscape(strings.TrimSpace(keywords)),
		),
	}, nil
}

func NewProvider(opts ...imageprovider.Option) imageprovider.ImageProvider {
	options := imageprovider.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = defaultLocation
	}

	return &pollinationsProvider{
		options: options,
	}
}
