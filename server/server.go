package server

import "context"

type Server interface {
	Options() Options
	// Start listens and serves in the background.
	Start() error
	Stop(ctx context.Context) error
	// Address is the bound address once started.
	Address() string
}
