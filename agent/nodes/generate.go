package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/ecomarket/support-agent/agent/contract"
	envelopex "github.com/ecomarket/support-agent/agent/envelope"
)

const (
	transcriptTurns        = 8
	defaultMaxContextChars = 1800
)

// GenerateOptions bound the prompt and the completion.
type GenerateOptions struct {
	MaxTokens       int
	MaxContextChars int
}

// Generate assembles the grounded prompt and invokes the generative
// backend. Backend failure absorbs into the fallback envelope; the raw
// output goes to the validation node untouched.
func Generate(ctx context.Context, in *GraphState, gen contractx.Generator, systemPrompt string, opts GenerateOptions) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.decided() {
		return in, nil
	}

	prompt := buildPrompt(in, systemPrompt, opts.MaxContextChars)

	raw, err := gen.Generate(ctx, prompt, opts.MaxTokens)
	if err != nil {
		log.Warn().
			Str("session_id", in.SessionID).
			Err(fmt.Errorf("%w: %v", contractx.ErrBackend, err)).
			Msg("generation failed, falling back")
		in.Envelope = envelopex.Fallback()
		return in, nil
	}

	in.RawOutput = raw
	return in, nil
}

// buildPrompt places the deterministic facts before the retrieved
// snippets so they always survive the context budget.
func buildPrompt(in *GraphState, systemPrompt string, maxContextChars int) string {
	if maxContextChars <= 0 {
		maxContextChars = defaultMaxContextChars
	}

	var facts strings.Builder

	facts.WriteString("### Order record\n")
	facts.WriteString(mustJSON(in.Order))
	facts.WriteByte('\n')

	if len(in.Verdicts) > 0 {
		facts.WriteString("### Return eligibility verdicts\n")
		facts.WriteString(mustJSON(in.Verdicts))
		facts.WriteByte('\n')
	}

	if len(in.Chunks) > 0 {
		var snippets strings.Builder
		for _, c := range in.Chunks {
			block := fmt.Sprintf("[%s] %s\n", c.ID, c.Text)
			if facts.Len()+snippets.Len()+len(block) > maxContextChars {
				break
			}
			snippets.WriteString(block)
		}
		if snippets.Len() > 0 {
			facts.WriteString("### Policy and FAQ passages\n")
			facts.WriteString(snippets.String())
		}
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n## Required intent\n")
	b.WriteString(string(in.Intent))
	b.WriteString("\n\n## Facts\n")
	b.WriteString(facts.String())

	if transcript := in.Session.RecentTranscript(transcriptTurns); transcript != "" {
		b.WriteString("\n## Conversation so far\n")
		b.WriteString(transcript)
		b.WriteByte('\n')
	}

	b.WriteString("\n## User message\n")
	b.WriteString(in.Text)
	b.WriteByte('\n')
	return b.String()
}

func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
