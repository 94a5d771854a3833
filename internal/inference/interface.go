package inference

import "context"

// Generator produces a free-text description of the image at a publicly
// retrievable URL. Implementations are provider adapters; the provider is
// a black box to the rest of the system.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
