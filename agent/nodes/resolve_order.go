package nodes

import (
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/ecomarket/support-agent/agent/contract"
	envelopex "github.com/ecomarket/support-agent/agent/envelope"
	knowledgex "github.com/ecomarket/support-agent/agent/knowledge"
)

// ResolveOrder binds the turn to an order record. Lookup prefers a
// known tracking id from the message, then the session-remembered one.
// An id-shaped token that matches no order yields a clarification
// envelope (the unknown-tracking case), never an error to the caller.
func ResolveOrder(in *GraphState, ds *knowledgex.Dataset) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.decided() {
		return in, nil
	}

	candidates := TrackingCandidates(in.Text)
	for _, candidate := range candidates {
		if order, ok := ds.Order(candidate); ok {
			in.TrackingID = order.TrackingID
			in.Order = &order
			return in, nil
		}
	}

	if in.Session != nil && in.Session.LastTrackingID != "" {
		if order, ok := ds.Order(in.Session.LastTrackingID); ok {
			in.TrackingID = order.TrackingID
			in.Order = &order
			return in, nil
		}
	}

	if len(candidates) > 0 {
		log.Debug().
			Str("session_id", in.SessionID).
			Str("candidate", candidates[0]).
			Err(contractx.ErrUnknownTracking).
			Msg("tracking id not found in dataset")
		in.Envelope = envelopex.Clarification(fmt.Sprintf(
			"I couldn't find an order with tracking ID %s. Could you double-check the ID on your confirmation email?",
			candidates[0],
		))
		return in, nil
	}

	in.Envelope = envelopex.Clarification("Which order is this about? Please share the tracking ID from your confirmation email (for example TRK-1001).")
	return in, nil
}
