package nodes

import (
	"fmt"

	contractx "github.com/ecomarket/support-agent/agent/contract"
)

func Finalize(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Envelope == nil {
		return GraphOutput{}, fmt.Errorf("%w: turn ended without an envelope", contractx.ErrValidation)
	}
	return GraphOutput{Envelope: in.Envelope}, nil
}
