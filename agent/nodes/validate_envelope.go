package nodes

import (
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/ecomarket/support-agent/agent/contract"
	envelopex "github.com/ecomarket/support-agent/agent/envelope"
)

// ValidateEnvelope is the correctness backstop for generative output.
// The raw text must parse into a contract-valid envelope whose intent
// matches the detected one; the data payload and grounded sources are
// then replaced with the deterministic values computed earlier in the
// turn, so the model can phrase the message but never alter the facts.
// Any violation substitutes the canonical fallback envelope.
func ValidateEnvelope(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.decided() {
		return in, nil
	}

	env, err := envelopex.Parse(in.RawOutput)
	if err == nil && env.Intent != in.Intent {
		err = fmt.Errorf("%w: model answered with intent %q, expected %q", contractx.ErrSchemaViolation, env.Intent, in.Intent)
	}
	if err != nil {
		log.Warn().
			Str("session_id", in.SessionID).
			Err(err).
			Msg("model output rejected, falling back")
		in.Envelope = envelopex.Fallback()
		return in, nil
	}

	env.Data = groundedData(in)
	env.GroundedSources = groundedSources(in)
	in.Envelope = env
	return in, nil
}

func groundedData(in *GraphState) any {
	switch in.Intent {
	case contractx.IntentOrderStatus:
		return contractx.OrderStatusData{
			TrackingID:  in.Order.TrackingID,
			Status:      in.Order.Status,
			Carrier:     in.Order.Carrier,
			ETA:         in.Order.ETA,
			DeliveredAt: in.Order.DeliveredAt,
			Items:       in.Order.Items,
		}
	case contractx.IntentReturnGuidance:
		return contractx.ReturnGuidanceData{
			TrackingID:  in.Order.TrackingID,
			Verdicts:    in.Verdicts,
			MaskedEmail: envelopex.MaskEmail(in.Order.Customer.Email),
		}
	default:
		return struct{}{}
	}
}

func groundedSources(in *GraphState) []string {
	sources := []string{}
	if in.Order != nil {
		sources = append(sources, "order:"+in.Order.TrackingID)
	}
	for _, c := range in.Chunks {
		sources = append(sources, c.ID)
	}
	return sources
}
