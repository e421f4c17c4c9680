package knowledge

import (
	"fmt"
	"strings"

	contractx "github.com/ecomarket/support-agent/agent/contract"
)

const (
	SourcePolicy = "returns_policy"
	SourceFAQ    = "faq"
)

// ChunkPolicy splits the returns-policy markdown into one chunk per
// "## " section. Text before the first section header becomes its own
// preamble chunk. Chunk ids are positional ("policy:0", "policy:1", ...)
// so retrieval output stays deterministic across runs.
func ChunkPolicy(text string) []contractx.Chunk {
	return chunkMarkdown(text, "\n## ", "## ", SourcePolicy, "policy")
}

// ChunkFAQ splits the FAQ markdown into one chunk per "### " question
// block.
func ChunkFAQ(text string) []contractx.Chunk {
	return chunkMarkdown(text, "\n### ", "### ", SourceFAQ, "faq")
}

func chunkMarkdown(text, separator, headerPrefix, source, idPrefix string) []contractx.Chunk {
	var chunks []contractx.Chunk
	for _, part := range strings.Split("\n"+text, separator) {
		body := strings.TrimSpace(part)
		if body == "" {
			continue
		}
		section := ""
		if !strings.HasPrefix(body, "#") {
			// Split ate the header marker; restore it and take the
			// first line as the section title.
			section, _, _ = strings.Cut(body, "\n")
			body = headerPrefix + body
		}
		chunks = append(chunks, contractx.Chunk{
			ID:      fmt.Sprintf("%s:%d", idPrefix, len(chunks)),
			Source:  source,
			Section: strings.TrimSpace(section),
			Text:    body,
		})
	}
	return chunks
}
