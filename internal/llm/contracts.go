package llm

import "context"

// Completer is the narrow interface every pipeline stage depends on. The
// provider behind it is swappable; nothing above this line may assume a
// particular request or response shape.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
