package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/w-h-a/research/completion"
)

type event struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
	Done    bool   `json:"done,omitempty"`
}

// stream relays fragments as server sent events until the channel closes or
// the client goes away. Cancelling the request context closes the upstream.
func stream(w http.ResponseWriter, r *http.Request, frags <-chan completion.Fragment) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for f := range frags {
		ev := event{Content: f.Text}
		if f.Err != nil {
			ev = event{Error: completion.Render(f.Err)}
		}
		if err := send(w, flusher, ev); err != nil {
			return
		}
	}

	if r.Context().Err() == nil {
		_ = send(w, flusher, event{Done: true})
	}
}

func send(w http.ResponseWriter, flusher http.Flusher, ev event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
