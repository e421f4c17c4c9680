package nodes

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/ecomarket/support-agent/agent/contract"
	statex "github.com/ecomarket/support-agent/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Envelope *contractx.ResponseEnvelope
}

// GraphState is threaded through every node of the turn graph. Once a
// node sets Envelope the turn is decided and downstream reasoning nodes
// pass the state through untouched; only the commit and finalize nodes
// still act on it.
type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session *statex.Session

	Intent     contractx.Intent
	TrackingID string
	Order      *contractx.Order

	Chunks   []contractx.ScoredChunk
	Verdicts []contractx.EligibilityVerdict

	RawOutput string
	Envelope  *contractx.ResponseEnvelope
}

// decided reports whether a short-circuit or final envelope exists.
func (s *GraphState) decided() bool {
	return s.Envelope != nil
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
