package completion

import (
	"errors"
	"fmt"
)

type Kind int

const (
	ConfigurationMissing Kind = iota + 1
	RateLimited
	ConnectivityFailure
	ProviderError
	MalformedModelOutput
	InsufficientInput
)

func (k Kind) String() string {
	switch k {
	case ConfigurationMissing:
		return "configuration_missing"
	case RateLimited:
		return "rate_limited"
	case ConnectivityFailure:
		return "connectivity_failure"
	case ProviderError:
		return "provider_error"
	case MalformedModelOutput:
		return "malformed_model_output"
	case InsufficientInput:
		return "insufficient_input"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case len(e.Detail) > 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	case len(e.Detail) > 0:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message renders the error the way it is shown to an end user in place of
// a model reply.
func (e *Error) Message() string {
	switch e.Kind {
	case ConfigurationMissing:
		if len(e.Detail) > 0 {
			return e.Detail
		}
		return "AI service is not configured."
	case RateLimited:
		return "Service busy. Please try again later."
	case ConnectivityFailure:
		return "Network error: Unable to connect to AI service."
	case ProviderError:
		return fmt.Sprintf("AI Service Error: %s", e.Detail)
	case InsufficientInput:
		return e.Detail
	default:
		return "An unexpected error occurred."
	}
}

func NewError(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// KindOf reports the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind, true
	}
	return 0, false
}

// Render returns the user-facing message for err.
func Render(err error) string {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Message()
	}
	return "An unexpected error occurred."
}
