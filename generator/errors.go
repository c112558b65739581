package generator

import (
	"errors"
	"fmt"
)

var (
	ErrRateLimited = errors.New("rate limited by provider")
	ErrConnection  = errors.New("unable to reach provider")
	ErrNoResponse  = errors.New("no response from provider")
)

type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func Connection(err error) error {
	return fmt.Errorf("%w: %w", ErrConnection, err)
}
