package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/ecomarket/support-agent/agent/contract"
	statex "github.com/ecomarket/support-agent/agent/state"
)

// CommitSession appends the user and assistant turns and the tracking id
// update in one save, after the envelope is final. A failed save leaves
// the stored session untouched (no half-written turn) and is logged, not
// surfaced; the user still gets their envelope.
func CommitSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Envelope == nil {
		return nil, fmt.Errorf("%w: commit without an envelope", contractx.ErrValidation)
	}

	in.Session.Append(statex.RoleUser, in.Text, in.Now)
	in.Session.Append(statex.RoleAssistant, in.Envelope.Message, in.Now)
	if in.Order != nil {
		in.Session.LastTrackingID = in.Order.TrackingID
	}

	if err := store.Save(ctx, in.Session); err != nil {
		log.Error().
			Str("session_id", in.SessionID).
			Err(err).
			Msg("session save failed, turn not persisted")
	}
	return in, nil
}
