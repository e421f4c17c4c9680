package contract

import "context"

// Generator produces raw model text for a prompt. Implementations must
// honor ctx cancellation; maxTokens <= 0 means the backend default.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Embedder turns text into dense vectors for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever returns the top-k chunks ranked by relevance to the query.
// An empty result is a valid outcome, not an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]ScoredChunk, error)
}
