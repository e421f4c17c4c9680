package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/ecomarket/support-agent/agent/contract"
	envelopex "github.com/ecomarket/support-agent/agent/envelope"
)

// Retrieve pulls grounding passages for return questions. An empty
// result set is fine; a backend failure absorbs into the fallback
// envelope.
func Retrieve(ctx context.Context, in *GraphState, retriever contractx.Retriever, topK int) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.decided() || in.Intent != contractx.IntentReturnGuidance {
		return in, nil
	}

	chunks, err := retriever.Retrieve(ctx, in.Text, topK)
	if err != nil {
		log.Warn().
			Str("session_id", in.SessionID).
			Err(err).
			Msg("retrieval failed, falling back")
		in.Envelope = envelopex.Fallback()
		return in, nil
	}

	in.Chunks = chunks
	return in, nil
}
