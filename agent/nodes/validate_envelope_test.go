package nodes

import (
	"testing"

	contractx "github.com/ecomarket/support-agent/agent/contract"
)

func deliveredTestOrder() *contractx.Order {
	return &contractx.Order{
		TrackingID:  "TRK-1001",
		Status:      contractx.StatusDelivered,
		Carrier:     "EcoShip",
		DeliveredAt: "2025-08-20",
		Customer:    contractx.Customer{Email: "jordan@example.com"},
		Items: []contractx.OrderItem{
			{SKU: "COFFEE-01", Quantity: 1},
			{SKU: "MUG-02", Quantity: 2},
		},
	}
}

func TestValidateEnvelopeRepairsDataAndSources(t *testing.T) {
	t.Parallel()

	days := 10
	in := newTurnState(t, "can I return the coffee from TRK-1001?")
	in.Intent = contractx.IntentReturnGuidance
	in.Order = deliveredTestOrder()
	in.Verdicts = []contractx.EligibilityVerdict{
		{SKU: "COFFEE-01", DaysSinceDelivery: &days, ApplicableWindowDays: 7, Reason: "outside the 7-day sealed-exception window (10 days since delivery)"},
	}
	in.Chunks = []contractx.ScoredChunk{
		{Chunk: contractx.Chunk{ID: "policy:2", Source: "returns_policy", Text: "..."}, Score: 0.9},
	}
	// The model hallucinated its own data; it must be overwritten.
	in.RawOutput = `{
		"intent": "return_guidance",
		"message": "The coffee is outside its return window, sorry.",
		"data": {"trackingId": "TRK-9999", "verdicts": [{"sku": "GHOST", "eligible": true, "daysSinceDelivery": 1, "applicableWindowDays": 99, "reason": "made up"}]},
		"groundedSources": ["made-up:1"]
	}`

	in, err := ValidateEnvelope(in)
	if err != nil {
		t.Fatalf("ValidateEnvelope() error = %v", err)
	}
	if in.Envelope == nil {
		t.Fatal("expected an envelope")
	}
	if in.Envelope.Message != "The coffee is outside its return window, sorry." {
		t.Fatalf("Message = %q", in.Envelope.Message)
	}

	data, ok := in.Envelope.Data.(contractx.ReturnGuidanceData)
	if !ok {
		t.Fatalf("Data type = %T", in.Envelope.Data)
	}
	if data.TrackingID != "TRK-1001" || len(data.Verdicts) != 1 || data.Verdicts[0].SKU != "COFFEE-01" {
		t.Fatalf("data not grounded: %+v", data)
	}
	if data.MaskedEmail != "jo***@example.com" {
		t.Fatalf("MaskedEmail = %q", data.MaskedEmail)
	}

	wantSources := []string{"order:TRK-1001", "policy:2"}
	if len(in.Envelope.GroundedSources) != 2 ||
		in.Envelope.GroundedSources[0] != wantSources[0] ||
		in.Envelope.GroundedSources[1] != wantSources[1] {
		t.Fatalf("GroundedSources = %v, want %v", in.Envelope.GroundedSources, wantSources)
	}
}

func TestValidateEnvelopeFallsBackOnMalformedOutput(t *testing.T) {
	t.Parallel()

	in := newTurnState(t, "where is TRK-1001?")
	in.Intent = contractx.IntentOrderStatus
	in.Order = deliveredTestOrder()
	in.RawOutput = "I'm not sure how to answer that in JSON."

	in, err := ValidateEnvelope(in)
	if err != nil {
		t.Fatalf("ValidateEnvelope() error = %v", err)
	}
	if in.Envelope == nil || in.Envelope.Intent != contractx.IntentFallback {
		t.Fatalf("expected fallback envelope, got %+v", in.Envelope)
	}
}

func TestValidateEnvelopeFallsBackOnIntentMismatch(t *testing.T) {
	t.Parallel()

	in := newTurnState(t, "where is TRK-1001?")
	in.Intent = contractx.IntentOrderStatus
	in.Order = deliveredTestOrder()
	in.RawOutput = `{"intent": "clarification", "message": "Which order?", "data": {}, "groundedSources": []}`

	in, err := ValidateEnvelope(in)
	if err != nil {
		t.Fatalf("ValidateEnvelope() error = %v", err)
	}
	if in.Envelope == nil || in.Envelope.Intent != contractx.IntentFallback {
		t.Fatalf("expected fallback envelope, got %+v", in.Envelope)
	}
}

func TestValidateEnvelopeSkipsDecidedTurns(t *testing.T) {
	t.Parallel()

	in := newTurnState(t, "hello")
	decided := &contractx.ResponseEnvelope{Intent: contractx.IntentClarification, Message: "Which order?", Data: struct{}{}, GroundedSources: []string{}}
	in.Envelope = decided

	in, err := ValidateEnvelope(in)
	if err != nil {
		t.Fatalf("ValidateEnvelope() error = %v", err)
	}
	if in.Envelope != decided {
		t.Fatal("decided envelope must pass through untouched")
	}
}
