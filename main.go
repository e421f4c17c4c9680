package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	knowledgex "github.com/ecomarket/support-agent/agent/knowledge"
	orchestratorx "github.com/ecomarket/support-agent/agent/orchestrator"
	promptx "github.com/ecomarket/support-agent/agent/prompt"
	statex "github.com/ecomarket/support-agent/agent/state"
	configx "github.com/ecomarket/support-agent/pkg/config"
	llmx "github.com/ecomarket/support-agent/pkg/llm"
	_ "github.com/ecomarket/support-agent/pkg/logger/autoload"
)

type AppConfig struct {
	DataDir         string `envconfig:"DATA_DIR" split_words:"true" default:"data"`
	SessionID       string `envconfig:"SESSION_ID" split_words:"true" default:"local"`
	RetrievalTopK   int    `envconfig:"RETRIEVAL_TOP_K" split_words:"true" default:"4"`
	MaxTokens       int    `envconfig:"MAX_TOKENS" split_words:"true" default:"600"`
	MaxContextChars int    `envconfig:"MAX_CONTEXT_CHARS" split_words:"true" default:"1800"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("APP")
	llmCfg := configx.MustNew[llmx.Config]("LLM")

	// An incomplete dataset must never serve traffic.
	dataset, err := knowledgex.Load(appCfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset load failed")
	}

	chatModel, err := llmCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("chat model init failed")
	}
	generator, err := llmx.NewGenerator(chatModel, llmCfg.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("generator init failed")
	}

	client := llmx.NewClient(*llmCfg)
	if client == nil {
		log.Fatal().Msg("llm api key is required")
	}
	embedder, err := llmx.NewEmbedder(client, llmCfg.EmbeddingModel)
	if err != nil {
		log.Fatal().Err(err).Msg("embedder init failed")
	}

	index, err := knowledgex.BuildIndex(ctx, embedder, dataset.Chunks(), knowledgex.IndexConfig{
		MaxChunkChars: appCfg.MaxContextChars / 3,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("index build failed")
	}

	agent, err := orchestratorx.New(newSessionStore(ctx), dataset, index, generator, promptx.LoadSet(), orchestratorx.Config{
		RetrievalTopK:   appCfg.RetrievalTopK,
		MaxTokens:       appCfg.MaxTokens,
		MaxContextChars: appCfg.MaxContextChars,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("orchestrator init failed")
	}

	log.Info().
		Int("orders", len(dataset.Orders)).
		Int("catalog", len(dataset.Catalog)).
		Int("chunks", len(dataset.Chunks())).
		Msg("support agent ready")

	runConsole(ctx, agent, appCfg.SessionID)
}

// newSessionStore picks Postgres when a DSN is configured, otherwise
// the in-process store.
func newSessionStore(ctx context.Context) statex.Store {
	pgCfg := configx.MustNew[statex.PostgresConfig]("PG")
	if strings.TrimSpace(pgCfg.DSN) == "" {
		return statex.NewMemoryStore()
	}

	store, err := statex.NewPostgresStore(*pgCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres store init failed")
	}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres schema init failed")
	}
	return store
}

func runConsole(ctx context.Context, agent *orchestratorx.Orchestrator, sessionID string) {
	fmt.Println("EcoMarket support agent. Type a message, /reset, or /quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit":
			return
		case line == "/reset":
			if err := agent.ResetSession(ctx, sessionID); err != nil {
				log.Error().Err(err).Msg("reset failed")
				continue
			}
			fmt.Println("session cleared")
		default:
			env, err := agent.HandleTurn(ctx, sessionID, line)
			if err != nil {
				log.Error().Err(err).Msg("turn failed")
				continue
			}
			raw, err := json.MarshalIndent(env, "", "  ")
			if err != nil {
				log.Error().Err(err).Msg("marshal envelope failed")
				continue
			}
			fmt.Println(string(raw))
		}
	}
}
