package nodes

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractx "github.com/ecomarket/support-agent/agent/contract"
	statex "github.com/ecomarket/support-agent/agent/state"
)

func LoadOrCreateSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	s, err := loadOrCreateSession(ctx, store, in.SessionID, in.Now)
	if err != nil {
		return nil, err
	}
	in.Session = s
	return in, nil
}

func loadOrCreateSession(ctx context.Context, store statex.Store, sessionID string, now time.Time) (*statex.Session, error) {
	s, err := store.Load(ctx, sessionID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, statex.ErrStateNotFound) {
		return nil, err
	}

	return statex.NewSession(sessionID, now), nil
}
