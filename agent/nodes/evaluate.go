package nodes

import (
	"fmt"

	contractx "github.com/ecomarket/support-agent/agent/contract"
	returnsx "github.com/ecomarket/support-agent/agent/returns"
)

// EvaluateReturns runs the deterministic eligibility evaluator for
// return questions. Other intents pass through.
func EvaluateReturns(in *GraphState, catalog map[string]contractx.ProductCatalogEntry, rules returnsx.Rules) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.decided() || in.Intent != contractx.IntentReturnGuidance {
		return in, nil
	}

	in.Verdicts = returnsx.Evaluate(in.Order, catalog, in.Now, rules)
	return in, nil
}
