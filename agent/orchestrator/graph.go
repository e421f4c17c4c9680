package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/ecomarket/support-agent/agent/nodes"
)

func (o *Orchestrator) compileHandleTurnGraph(ctx context.Context) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_or_create_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadOrCreateSession(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_or_create_session: %w", err)
	}

	if err := graph.AddLambdaNode("detect_intent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DetectIntent(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node detect_intent: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_order",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ResolveOrder(in, o.dataset)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_order: %w", err)
	}

	if err := graph.AddLambdaNode("retrieve",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Retrieve(ctx, in, o.retriever, o.topK)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node retrieve: %w", err)
	}

	if err := graph.AddLambdaNode("evaluate_returns",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.EvaluateReturns(in, o.dataset.Catalog, o.rules)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node evaluate_returns: %w", err)
	}

	if err := graph.AddLambdaNode("generate",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Generate(ctx, in, o.generator, o.prompts.SupportSystem, nodex.GenerateOptions{
				MaxTokens:       o.maxTokens,
				MaxContextChars: o.maxContextChars,
			})
		}),
	); err != nil {
		return nil, fmt.Errorf("add node generate: %w", err)
	}

	if err := graph.AddLambdaNode("validate_envelope",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ValidateEnvelope(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_envelope: %w", err)
	}

	if err := graph.AddLambdaNode("commit_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CommitSession(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node commit_session: %w", err)
	}

	if err := graph.AddLambdaNode("finalize",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.Finalize(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_or_create_session"},
		{"load_or_create_session", "detect_intent"},
		{"detect_intent", "resolve_order"},
		{"resolve_order", "retrieve"},
		{"retrieve", "evaluate_returns"},
		{"evaluate_returns", "generate"},
		{"generate", "validate_envelope"},
		{"validate_envelope", "commit_session"},
		{"commit_session", "finalize"},
		{"finalize", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("support.handle_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}
