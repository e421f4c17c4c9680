package nodes

import (
	"reflect"
	"testing"
	"time"

	contractx "github.com/ecomarket/support-agent/agent/contract"
	statex "github.com/ecomarket/support-agent/agent/state"
)

func newTurnState(t *testing.T, text string) *GraphState {
	t.Helper()

	in, err := ValidateRequest(GraphInput{SessionID: "s-1", Text: text}, func() time.Time {
		return time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	in.Session = statex.NewSession("s-1", in.Now)
	return in
}

func TestTrackingCandidates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want []string
	}{
		{"where is TRK-1001?", []string{"TRK-1001"}},
		{"trk-1001 please", []string{"TRK-1001"}},
		{"orders TRK-1001 and TRK-2002", []string{"TRK-1001", "TRK-2002"}},
		{"no ids here", nil},
		{"too short: A1", nil},
		{"no digits: TRK-ABCD", nil},
	}

	for _, tc := range cases {
		if got := TrackingCandidates(tc.text); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("TrackingCandidates(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestDetectIntentClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want contractx.Intent
	}{
		{"return keyword", "I want to return the mug from TRK-1001", contractx.IntentReturnGuidance},
		{"refund keyword", "can I get a refund?", contractx.IntentReturnGuidance},
		{"spanish return", "quiero devolver el paquete TRK-1001", contractx.IntentReturnGuidance},
		{"status keyword", "where is my package?", contractx.IntentOrderStatus},
		{"spanish status", "donde esta mi pedido TRK-1001", contractx.IntentOrderStatus},
		{"tracking id only", "TRK-1001", contractx.IntentOrderStatus},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in, err := DetectIntent(newTurnState(t, tc.text))
			if err != nil {
				t.Fatalf("DetectIntent() error = %v", err)
			}
			if in.Intent != tc.want {
				t.Fatalf("Intent = %q, want %q", in.Intent, tc.want)
			}
			if in.Envelope != nil {
				t.Fatalf("unexpected short-circuit envelope: %+v", in.Envelope)
			}
		})
	}
}

func TestDetectIntentUnclearShortCircuits(t *testing.T) {
	t.Parallel()

	in, err := DetectIntent(newTurnState(t, "hello there"))
	if err != nil {
		t.Fatalf("DetectIntent() error = %v", err)
	}
	if in.Envelope == nil {
		t.Fatal("unclear message without tracking context must short-circuit")
	}
	if in.Envelope.Intent != contractx.IntentClarification {
		t.Fatalf("Intent = %q, want clarification", in.Envelope.Intent)
	}
}

func TestDetectIntentUnclearWithRememberedTracking(t *testing.T) {
	t.Parallel()

	in := newTurnState(t, "what about item 2?")
	in.Session.LastTrackingID = "TRK-1001"

	in, err := DetectIntent(in)
	if err != nil {
		t.Fatalf("DetectIntent() error = %v", err)
	}
	if in.Envelope != nil {
		t.Fatal("remembered tracking id must avoid the clarification short-circuit")
	}
	if in.Intent != contractx.IntentOrderStatus {
		t.Fatalf("Intent = %q, want order_status", in.Intent)
	}
}

func TestDetectIntentAffirmationContinuesOnRememberedOrder(t *testing.T) {
	t.Parallel()

	cases := []string{"yes please", "sí, adelante", "ok sure"}
	for _, text := range cases {
		in := newTurnState(t, text)
		in.Session.LastTrackingID = "TRK-1001"

		in, err := DetectIntent(in)
		if err != nil {
			t.Fatalf("DetectIntent(%q) error = %v", text, err)
		}
		if in.Envelope != nil {
			t.Fatalf("affirmation %q must not short-circuit: %+v", text, in.Envelope)
		}
		if in.Intent != contractx.IntentOrderStatus {
			t.Fatalf("Intent for %q = %q, want order_status", text, in.Intent)
		}
	}
}

func TestDetectIntentDeclineClosesThread(t *testing.T) {
	t.Parallel()

	cases := []string{"no", "nope", "no thanks", "negativo"}
	for _, text := range cases {
		in := newTurnState(t, text)
		in.Session.LastTrackingID = "TRK-1001"

		in, err := DetectIntent(in)
		if err != nil {
			t.Fatalf("DetectIntent(%q) error = %v", text, err)
		}
		if in.Envelope == nil {
			t.Fatalf("decline %q must short-circuit even with a remembered order", text)
		}
		if in.Envelope.Intent != contractx.IntentClarification {
			t.Fatalf("Intent for %q = %q, want clarification", text, in.Envelope.Intent)
		}
		if in.Envelope.Message != declineClose {
			t.Fatalf("message for %q = %q", text, in.Envelope.Message)
		}
	}
}

func TestValidateRequestRejectsBlankInput(t *testing.T) {
	t.Parallel()

	now := func() time.Time { return time.Now() }
	if _, err := ValidateRequest(GraphInput{SessionID: " ", Text: "hi"}, now); err != ErrInvalidSession {
		t.Fatalf("error = %v, want ErrInvalidSession", err)
	}
	if _, err := ValidateRequest(GraphInput{SessionID: "s", Text: "  "}, now); err != ErrInvalidMessage {
		t.Fatalf("error = %v, want ErrInvalidMessage", err)
	}
}
