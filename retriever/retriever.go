package retriever

import "context"

type Retriever interface {
	Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error)
}
