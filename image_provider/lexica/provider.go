package lexica

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	imageprovider "github.com/w-h-a/research/image_provider"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultLocation = "https://lexica.art"

type searchResponse struct {
	Images []struct {
		Src string `json:"src"`
	} `json:"images"`
}

type lexicaProvider struct {
	options imageprovider.Options
	client  *http.Client
}

func (p *lexicaProvider) Find(ctx context.Context, keywords string) (imageprovider.Image, error) {
	u := strings.TrimSuffix(p.options.Location, "/") + "/api/v1/search?q=" + url.QueryEscape(keywords)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return imageprovider.Image{}, err
	}

	response, err := p.client.Do(request)
	if err != nil {
		return imageprovider.Image{}, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return imageprovider.Image{}, fmt.Errorf("lexica http %d", response.StatusCode)
	}

	var rsp searchResponse
	if err := json.NewDecoder(response.Body).Decode(&rsp); err != nil {
		return imageprovider.Image{}, err
	}

	if len(rsp.Images) == 0 || len(rsp.Images[0].Src) == 0 {
		return imageprovider.Image{}, imageprovider.ErrNoImage
	}

	return imageprovider.Image{
		Prompt: fmt.Sprintf("AI interpretation of %s", keywords),
		URL:    rsp.Images[0].Src,
	}, nil
}

func NewProvider(opts ...imageprovider.Option) imageprovider.ImageProvider {
	options := imageprovider.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = defaultLocation
	}

	client := options.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   options.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &lexicaProvider{
		options: options,
		client:  client,
	}
}
