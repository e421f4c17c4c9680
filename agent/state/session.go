package state

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrNilSession     = errors.New("session is nil")
	ErrInvalidSession = errors.New("session id is empty")
)

// Turn is one message in a conversation, user or assistant.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the per-conversation source of truth. LastTrackingID lets a
// follow-up message omit the tracking id and still resolve an order.
type Session struct {
	SessionID      string    `json:"session_id"`
	Turns          []Turn    `json:"turns,omitempty"`
	LastTrackingID string    `json:"last_tracking_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewSession(sessionID string, now time.Time) *Session {
	return &Session{
		SessionID: sessionID,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Append adds one turn to the transcript.
func (s *Session) Append(role, text string, now time.Time) {
	s.Turns = append(s.Turns, Turn{
		Role:      role,
		Text:      text,
		Timestamp: now.UTC(),
	})
	s.Touch(now)
}

// Reset clears the transcript and the remembered tracking id but keeps
// the session itself. Resetting an already-empty session is a no-op.
func (s *Session) Reset(now time.Time) {
	s.Turns = nil
	s.LastTrackingID = ""
	s.Touch(now)
}

// RecentTranscript renders the last maxTurns turns as "role: text" lines
// for prompt assembly.
func (s *Session) RecentTranscript(maxTurns int) string {
	if s == nil || len(s.Turns) == 0 || maxTurns <= 0 {
		return ""
	}
	turns := s.Turns
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t.Role)
		b.WriteString(": ")
		b.WriteString(t.Text)
	}
	return b.String()
}

func (s *Session) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	return nil
}
