package http

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/research/server"
)

func TestServerAppliesMiddlewareInOrder(t *testing.T) {
	var order []string

	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	s := NewServer(
		server.WithAddress("127.0.0.1:0"),
		server.WithHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "ok")
		})),
		WithMiddleware(tag("outer"), tag("inner")),
	)

	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	rsp, err := http.Get("http://" + s.Address() + "/")
	require.NoError(t, err)
	defer rsp.Body.Close()

	body, err := io.ReadAll(rsp.Body)
	require.NoError(t, err)

	assert.Equal(t, "ok", string(body))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestServerStop(t *testing.T) {
	s := NewServer(server.WithAddress("127.0.0.1:0"))
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop(context.Background()))

	_, err := http.Get("http://" + s.Address() + "/")
	assert.Error(t, err)
}
