package envelope

import (
	contractx "github.com/ecomarket/support-agent/agent/contract"
)

// FallbackMessage is the generic user-facing text for internal failures.
// Diagnostic detail never leaks into it.
const FallbackMessage = "Sorry, something went wrong on our side. Please try again in a moment."

// Fallback builds the canonical fallback envelope.
func Fallback() *contractx.ResponseEnvelope {
	return &contractx.ResponseEnvelope{
		Intent:          contractx.IntentFallback,
		Message:         FallbackMessage,
		Data:            struct{}{},
		GroundedSources: []string{},
	}
}

// Clarification builds a deterministic clarification envelope asking the
// user for the detail the turn was missing.
func Clarification(message string) *contractx.ResponseEnvelope {
	return &contractx.ResponseEnvelope{
		Intent:          contractx.IntentClarification,
		Message:         message,
		Data:            struct{}{},
		GroundedSources: []string{},
	}
}
