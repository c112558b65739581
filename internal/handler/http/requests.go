package http

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type searchRequest struct {
	Query string `json:"query" validate:"required"`
}

type summarizeRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content" validate:"required_without=Filename"`
}

type questionRequest struct {
	Question string `json:"question" validate:"required"`
	Context  string `json:"context"`
}

// streamRequest is checked by the service, which accepts either field.
type streamRequest struct {
	Messages []message `json:"messages"`
	Question string    `json:"question"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type imageRequest struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt"`
}

type plagiarismRequest struct {
	Text string `json:"text" validate:"required"`
}

type compareRequest struct {
	Filenames []string `json:"filenames" validate:"required"`
}

type paper struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type synthesizeRequest struct {
	Papers []paper `json:"papers" validate:"required"`
}

type contentRequest struct {
	Content  string `json:"content" validate:"required"`
	Filename string `json:"filename"`
}

type webResearchRequest struct {
	Query   string `json:"query" validate:"required"`
	Context string `json:"context"`
}

type abstractRequest struct {
	Abstract string `json:"abstract" validate:"required"`
}

type topicRequest struct {
	Topic string `json:"topic" validate:"required"`
}

type keywordsRequest struct {
	Keywords string `json:"keywords" validate:"required"`
}

type draftRequest struct {
	Topic       string `json:"topic" validate:"required"`
	SectionType string `json:"section_type" validate:"required"`
	Context     string `json:"context"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors maps each invalid json field to the rule it broke.
func fieldErrors(err error) map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": err.Error()}
	}

	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return out
}
