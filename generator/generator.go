package generator

import "context"

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Stream(ctx context.Context, req Request) (<-chan Chunk, error)
}
