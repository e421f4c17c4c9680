package nodes

import (
	"fmt"
	"regexp"
	"strings"

	contractx "github.com/ecomarket/support-agent/agent/contract"
	envelopex "github.com/ecomarket/support-agent/agent/envelope"
)

// trackingCandidate matches alphanumeric-and-dash tokens of 3 to 14
// chars; candidates without a digit are filtered out afterwards because
// RE2 has no lookahead.
var trackingCandidate = regexp.MustCompile(`\b[A-Za-z0-9-]{3,14}\b`)

var digitPattern = regexp.MustCompile(`\d`)

// Keyword cues, English and Spanish.
var (
	returnPattern  = regexp.MustCompile(`(?i)\b(return|returns|refund|refunds|send back|devolver|devoluci[oó]n|retornar|reembolso)\b`)
	statusPattern  = regexp.MustCompile(`(?i)\b(status|track|tracking|order|shipping|delivery|deliver|arrive|arriving|eta|where|package|estado|pedido|env[ií]o|entrega|d[oó]nde|paquete)\b`)
	affirmPattern  = regexp.MustCompile(`(?i)\b(s[ií]|yes|yeah|yup|ok|okay|sure|claro|adelante)\b`)
	declinePattern = regexp.MustCompile(`(?i)\b(no|nop|nope|negativo)\b`)
)

const (
	clarificationAsk = "I can help with order status and return questions. Could you share your tracking ID (for example TRK-1001) and what you'd like to know?"
	declineClose     = "No problem. If you need anything else about an order or a return, just send the tracking ID."
)

// TrackingCandidates returns the tracking-id-shaped tokens in text, in
// order of appearance.
func TrackingCandidates(text string) []string {
	var out []string
	for _, m := range trackingCandidate.FindAllString(text, -1) {
		if digitPattern.MatchString(m) {
			out = append(out, strings.ToUpper(m))
		}
	}
	return out
}

// DetectIntent classifies the inbound text. Unclear messages with no
// tracking id in the message or the session short-circuit to a
// deterministic clarification envelope, no model call involved.
func DetectIntent(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	candidates := TrackingCandidates(in.Text)

	switch {
	case returnPattern.MatchString(in.Text):
		in.Intent = contractx.IntentReturnGuidance
	case len(candidates) > 0 || statusPattern.MatchString(in.Text):
		in.Intent = contractx.IntentOrderStatus
	case declinePattern.MatchString(in.Text):
		// A bare "no" closes the thread instead of riding a remembered
		// order.
		in.Envelope = envelopex.Clarification(declineClose)
	case affirmPattern.MatchString(in.Text), in.Session != nil && in.Session.LastTrackingID != "":
		// Agreement or a terse follow-up like "what about item 2?"
		// continues on the remembered order; without one the resolve
		// step asks for a tracking ID.
		in.Intent = contractx.IntentOrderStatus
	default:
		in.Envelope = envelopex.Clarification(clarificationAsk)
	}
	return in, nil
}
