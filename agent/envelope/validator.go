package envelope

import (
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/ecomarket/support-agent/agent/contract"
)

var requiredKeys = []string{"intent", "message", "data", "groundedSources"}

// Parse extracts the first balanced JSON object from raw model output
// and validates it against the response contract. The returned envelope
// carries a typed Data payload. Any contract violation yields
// contract.ErrSchemaViolation; callers substitute the fallback envelope.
func Parse(raw string) (*contractx.ResponseEnvelope, error) {
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in model output", contractx.ErrSchemaViolation)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrSchemaViolation, err)
	}

	for _, key := range requiredKeys {
		if _, ok := fields[key]; !ok {
			return nil, fmt.Errorf("%w: missing key %q", contractx.ErrSchemaViolation, key)
		}
	}
	if len(fields) != len(requiredKeys) {
		for key := range fields {
			if !isRequiredKey(key) {
				return nil, fmt.Errorf("%w: extraneous key %q", contractx.ErrSchemaViolation, key)
			}
		}
	}

	var intent string
	if err := json.Unmarshal(fields["intent"], &intent); err != nil {
		return nil, fmt.Errorf("%w: intent is not a string", contractx.ErrSchemaViolation)
	}
	if !contractx.ValidIntent(intent) {
		return nil, fmt.Errorf("%w: unknown intent %q", contractx.ErrSchemaViolation, intent)
	}

	var message string
	if err := json.Unmarshal(fields["message"], &message); err != nil {
		return nil, fmt.Errorf("%w: message is not a string", contractx.ErrSchemaViolation)
	}
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is empty", contractx.ErrSchemaViolation)
	}

	sources := []string{}
	if !isJSONNull(fields["groundedSources"]) {
		if err := json.Unmarshal(fields["groundedSources"], &sources); err != nil {
			return nil, fmt.Errorf("%w: groundedSources is not a string list", contractx.ErrSchemaViolation)
		}
	}

	data, err := parseData(contractx.Intent(intent), fields["data"])
	if err != nil {
		return nil, err
	}

	return &contractx.ResponseEnvelope{
		Intent:          contractx.Intent(intent),
		Message:         message,
		Data:            data,
		GroundedSources: sources,
	}, nil
}

// parseData decodes the data payload into the shape the intent demands.
func parseData(intent contractx.Intent, raw json.RawMessage) (any, error) {
	switch intent {
	case contractx.IntentOrderStatus:
		var data contractx.OrderStatusData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("%w: order_status data: %v", contractx.ErrSchemaViolation, err)
		}
		if strings.TrimSpace(data.TrackingID) == "" {
			return nil, fmt.Errorf("%w: order_status data missing trackingId", contractx.ErrSchemaViolation)
		}
		if !contractx.ValidOrderStatus(string(data.Status)) {
			return nil, fmt.Errorf("%w: order_status data has invalid status %q", contractx.ErrSchemaViolation, data.Status)
		}
		if strings.TrimSpace(data.Carrier) == "" {
			return nil, fmt.Errorf("%w: order_status data missing carrier", contractx.ErrSchemaViolation)
		}
		if data.ETA == "" && data.DeliveredAt == "" {
			return nil, fmt.Errorf("%w: order_status data needs eta or deliveredAt", contractx.ErrSchemaViolation)
		}
		return data, nil

	case contractx.IntentReturnGuidance:
		var data contractx.ReturnGuidanceData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("%w: return_guidance data: %v", contractx.ErrSchemaViolation, err)
		}
		if strings.TrimSpace(data.TrackingID) == "" {
			return nil, fmt.Errorf("%w: return_guidance data missing trackingId", contractx.ErrSchemaViolation)
		}
		if len(data.Verdicts) == 0 {
			return nil, fmt.Errorf("%w: return_guidance data has no verdicts", contractx.ErrSchemaViolation)
		}
		return data, nil

	default:
		// fallback and clarification carry an empty object.
		var data map[string]any
		if isJSONNull(raw) {
			return struct{}{}, nil
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("%w: %s data is not an object", contractx.ErrSchemaViolation, intent)
		}
		return struct{}{}, nil
	}
}

func isRequiredKey(key string) bool {
	for _, k := range requiredKeys {
		if k == key {
			return true
		}
	}
	return false
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
