package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/research/generator"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) generator.Generator {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewGenerator(
		generator.WithApiKey("test-key"),
		generator.WithModel("test-model"),
		generator.WithBaseURL(srv.URL),
	)
}

func TestGenerate(t *testing.T) {
	var body map[string]any

	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hello there"},"finish_reason":"stop"}]}`)
	})

	rsp, err := g.Generate(context.Background(), generator.Request{
		Messages: []generator.Message{
			generator.TextMessage(generator.RoleSystem, "persona"),
			generator.TextMessage(generator.RoleUser, "hi"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", rsp)

	assert.Equal(t, "test-model", body["model"])
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "hi", msgs[1].(map[string]any)["content"])
}

func TestGenerateMultiContent(t *testing.T) {
	var body map[string]any

	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"a cat"}}]}`)
	})

	_, err := g.Generate(context.Background(), generator.Request{
		Model: "vision-model",
		Messages: []generator.Message{{
			Role: generator.RoleUser,
			Parts: []generator.Part{
				{Type: generator.PartTypeText, Text: "what is this"},
				{Type: generator.PartTypeImage, ImageURL: "https://example.com/cat.jpg"},
			},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "vision-model", body["model"])
	content := body["messages"].([]any)[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, "text", content[0].(map[string]any)["type"])
	assert.Equal(t, "image_url", content[1].(map[string]any)["type"])
	assert.Equal(t, "https://example.com/cat.jpg", content[1].(map[string]any)["image_url"].(map[string]any)["url"])
}

func TestGenerateClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, generator.ErrRateLimited)
			},
		},
		{
			name:   "provider error",
			status: http.StatusBadRequest,
			check: func(t *testing.T, err error) {
				var perr *generator.ProviderError
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
				assert.Contains(t, perr.Message, "model exploded")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"error":{"message":"model exploded","type":"invalid_request_error"}}`)
			})

			_, err := g.Generate(context.Background(), generator.Request{
				Messages: []generator.Message{generator.TextMessage(generator.RoleUser, "hi")},
			})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestGenerateConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewGenerator(generator.WithBaseURL(url), generator.WithModel("m"))

	_, err := g.Generate(context.Background(), generator.Request{
		Messages: []generator.Message{generator.TextMessage(generator.RoleUser, "hi")},
	})
	assert.ErrorIs(t, err, generator.ErrConnection)
}

func TestStream(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, frag := range []string{"Hel", "lo", " world"} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", frag)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	ch, err := g.Stream(context.Background(), generator.Request{
		Messages: []generator.Message{generator.TextMessage(generator.RoleUser, "hi")},
	})
	require.NoError(t, err)

	var sb strings.Builder
	for c := range ch {
		require.NoError(t, c.Err)
		sb.WriteString(c.Content)
	}

	assert.Equal(t, "Hello world", sb.String())
}

func TestStreamRateLimited(t *testing.T) {
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"slow down"}}`)
	})

	_, err := g.Stream(context.Background(), generator.Request{
		Messages: []generator.Message{generator.TextMessage(generator.RoleUser, "hi")},
	})
	assert.True(t, errors.Is(err, generator.ErrRateLimited))
}
