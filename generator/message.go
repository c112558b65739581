package generator

import (
	"context"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type PartType string

const (
	PartTypeText  PartType = "text"
	PartTypeImage PartType = "image"
)

type Part struct {
	Type     PartType `json:"type"`
	Text     string   `json:"text,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// Message carries either plain Content or an ordered list of Parts.
// Parts win when both are set.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
	Parts   []Part `json:"parts,omitempty"`
}

func (m Message) Text() string {
	if len(m.Parts) == 0 {
		return m.Content
	}

	var sb strings.Builder
	for _, p := range m.Parts {
		if p.Type == PartTypeText {
			sb.WriteString(p.Text)
		}
	}

	return sb.String()
}

type Request struct {
	Model    string
	Messages []Message
}

type Chunk struct {
	Content string
	Err     error
}

func TextMessage(role string, content string) Message {
	return Message{Role: role, Content: content}
}

// ParseDataURI splits a data:<mime>;base64,<payload> URI. ok is false for
// anything else, including http(s) URLs.
func ParseDataURI(uri string) (mimeType string, payload string, ok bool) {
	rest, found := strings.CutPrefix(uri, "data:")
	if !found {
		return "", "", false
	}

	meta, data, found := strings.Cut(rest, ",")
	if !found {
		return "", "", false
	}

	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 || len(mimeType) == 0 {
		return "", "", false
	}

	return mimeType, data, true
}

// Send delivers c unless ctx is done first.
func Send(ctx context.Context, ch chan<- Chunk, c Chunk) bool {
	select {
	case ch <- c:
		return true
	case <-ctx.Done():
		return false
	}
}
