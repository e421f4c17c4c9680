package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/ecomarket/support-agent/agent/contract"
	knowledgex "github.com/ecomarket/support-agent/agent/knowledge"
	nodex "github.com/ecomarket/support-agent/agent/nodes"
	promptx "github.com/ecomarket/support-agent/agent/prompt"
	returnsx "github.com/ecomarket/support-agent/agent/returns"
	statex "github.com/ecomarket/support-agent/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

type Config struct {
	RetrievalTopK   int
	MaxTokens       int
	MaxContextChars int
}

// Orchestrator drives one support turn end to end: intent detection,
// order resolution, retrieval, eligibility evaluation, generation and
// contract validation, then the atomic session commit. Turns for the
// same session are serialized; the dataset and index are immutable and
// shared freely.
type Orchestrator struct {
	store     statex.Store
	dataset   *knowledgex.Dataset
	retriever contractx.Retriever
	generator contractx.Generator
	prompts   promptx.Set
	rules     returnsx.Rules

	topK            int
	maxTokens       int
	maxContextChars int

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time

	mu           sync.Mutex
	sessionLocks map[string]*sync.Mutex
}

func New(
	store statex.Store,
	dataset *knowledgex.Dataset,
	retriever contractx.Retriever,
	generator contractx.Generator,
	prompts promptx.Set,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if dataset == nil {
		return nil, errors.New("dataset is required")
	}
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if generator == nil {
		return nil, errors.New("generator is required")
	}
	if strings.TrimSpace(prompts.SupportSystem) == "" {
		return nil, errors.New("support system prompt is required")
	}

	topK := cfg.RetrievalTopK
	if topK <= 0 {
		topK = 4
	}

	rules := returnsx.DefaultRules()
	rules.ForbiddenCategories = returnsx.ForbiddenCategoriesFromPolicy(dataset.PolicyText)

	o := &Orchestrator{
		store:           store,
		dataset:         dataset,
		retriever:       retriever,
		generator:       generator,
		prompts:         prompts,
		rules:           rules,
		topK:            topK,
		maxTokens:       cfg.MaxTokens,
		maxContextChars: cfg.MaxContextChars,
		now:             time.Now,
		sessionLocks:    make(map[string]*sync.Mutex),
	}

	graphRunner, err := o.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleTurn processes one user message and always returns a well-formed
// envelope; internal failures surface as fallback or clarification
// envelopes. The error return is reserved for caller bugs such as an
// empty session id.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID string, text string) (*contractx.ResponseEnvelope, error) {
	// Lock on the trimmed id so padded variants of the same session
	// serialize on one mutex.
	id := strings.TrimSpace(sessionID)

	unlock := o.lockSession(id)
	defer unlock()

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: id,
		Text:      text,
	})
	if err != nil {
		return nil, err
	}
	return out.Envelope, nil
}

// ResetSession clears a session's transcript and remembered order.
// Resetting an unknown session creates it empty, so the call is
// idempotent.
func (o *Orchestrator) ResetSession(ctx context.Context, sessionID string) error {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return ErrInvalidSession
	}

	unlock := o.lockSession(id)
	defer unlock()

	s, err := o.store.Load(ctx, id)
	if errors.Is(err, statex.ErrStateNotFound) {
		s = statex.NewSession(id, o.now())
	} else if err != nil {
		return err
	}

	s.Reset(o.now())
	return o.store.Save(ctx, s)
}

// lockSession serializes turns per session id.
func (o *Orchestrator) lockSession(sessionID string) func() {
	o.mu.Lock()
	l, ok := o.sessionLocks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		o.sessionLocks[sessionID] = l
	}
	o.mu.Unlock()

	l.Lock()
	return l.Unlock
}
