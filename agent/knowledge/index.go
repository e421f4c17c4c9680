package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	contractx "github.com/ecomarket/support-agent/agent/contract"
)

const (
	defaultMaxChunkChars = 600
	defaultMinScore      = 0.1
)

// IndexConfig tunes retrieval. Zero values take the defaults.
type IndexConfig struct {
	MaxChunkChars int
	MinScore      float64
}

// Index is an in-memory vector index over the unstructured corpus.
// Chunks are embedded once at build time; the index is immutable
// afterwards and safe for concurrent queries.
type Index struct {
	embedder      contractx.Embedder
	chunks        []contractx.Chunk
	vectors       [][]float32
	maxChunkChars int
	minScore      float64
}

// BuildIndex embeds every chunk and returns a ready index. An embedding
// failure here wraps contract.ErrBackend; callers building at startup
// treat it as fatal.
func BuildIndex(ctx context.Context, embedder contractx.Embedder, chunks []contractx.Chunk, cfg IndexConfig) (*Index, error) {
	if cfg.MaxChunkChars <= 0 {
		cfg.MaxChunkChars = defaultMaxChunkChars
	}
	if cfg.MinScore <= 0 {
		cfg.MinScore = defaultMinScore
	}

	ix := &Index{
		embedder:      embedder,
		chunks:        chunks,
		maxChunkChars: cfg.MaxChunkChars,
		minScore:      cfg.MinScore,
	}
	if len(chunks) == 0 {
		return ix, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed corpus: %v", contractx.ErrBackend, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d chunks", contractx.ErrBackend, len(vectors), len(chunks))
	}

	ix.vectors = vectors
	return ix, nil
}

// Retrieve returns up to k chunks ranked by cosine similarity to the
// query. Ties break on chunk id so ranking is deterministic for a fixed
// embedding backend. An empty result is a valid outcome.
func (ix *Index) Retrieve(ctx context.Context, query string, k int) ([]contractx.ScoredChunk, error) {
	if k <= 0 || len(ix.chunks) == 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	queryVec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", contractx.ErrBackend, err)
	}

	scored := make([]contractx.ScoredChunk, 0, len(ix.chunks))
	for i, c := range ix.chunks {
		score := cosineSimilarity(queryVec, ix.vectors[i])
		if score < ix.minScore {
			continue
		}
		sc := contractx.ScoredChunk{Chunk: c, Score: score}
		sc.Text = truncate(sc.Text, ix.maxChunkChars)
		scored = append(scored, sc)
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		return scored[a].ID < scored[b].ID
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// truncate cuts at a rune boundary so prompt assembly never sees a torn
// UTF-8 sequence.
func truncate(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
