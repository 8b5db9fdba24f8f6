package llm

import (
	"context"
	"fmt"

	"sheetgen/adapters/llm/heuristic"
	"sheetgen/ai"
	"sheetgen/domain/core"
	"sheetgen/domain/generation"
	"sheetgen/internal"
	"sheetgen/ports"
)

// GeneratorAdapter implements GeneratorPort using an LLM
type GeneratorAdapter struct {
	config      Config
	client      *ai.StructuredClient
	fallbackGen ports.GeneratorPort
	logger      *internal.Logger
}

// NewGeneratorAdapter creates a new LLM generator adapter from config
func NewGeneratorAdapter(config Config, logger *internal.Logger) (*GeneratorAdapter, error) {
	client, err := NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewGeneratorAdapterWithClient(config, client, logger), nil
}

// NewGeneratorAdapterWithClient wires an existing client, mainly for tests
func NewGeneratorAdapterWithClient(config Config, client ports.LLMClient, logger *internal.Logger) *GeneratorAdapter {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	prompts := ai.NewPromptManager(config.PromptsDir, logger)
	g := &GeneratorAdapter{
		config: config,
		client: ai.NewStructuredClient(client, prompts, config.Model, config.MaxTokens, config.Temperature, logger),
		logger: logger.Named("Generator"),
	}
	if config.FallbackToHeuristic {
		g.fallbackGen = heuristic.NewGenerator()
	}
	return g
}

// GenerateSheetData implements GeneratorPort. The request must already be
// normalized. One model call is made; its output is shape-checked but the
// row count and column contract are left to the caller.
func (g *GeneratorAdapter) GenerateSheetData(ctx context.Context, req generation.Request) (*ports.SheetGeneration, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	resp, err := g.client.GetJSONFromPrompts(ctx, ai.PromptSyntheticSystem, ai.PromptSyntheticTask,
		ai.CompileGenerationReplacements(req))
	if err != nil {
		if g.fallbackGen != nil {
			g.logger.Warn("LLM call failed, using heuristic generator: %v", err)
			return g.fallbackGen.GenerateSheetData(ctx, req)
		}
		return nil, err
	}

	result, err := generation.ResultFromDocument(resp.Document)
	if err != nil {
		g.logger.Warn("Model output failed validation: %v", err)
		return nil, err
	}
	g.logger.Info("Generated %s", result)

	return &ports.SheetGeneration{
		Result: result,
		Audit: ports.GenerationAudit{
			GeneratorType: "llm",
			Provider:      g.client.LLM.Provider(),
			Model:         g.config.Model,
			Temperature:   g.config.Temperature,
			MaxTokens:     g.config.MaxTokens,
			PromptHash:    core.HashString(resp.Prompt),
			ResponseHash:  core.HashString(resp.Raw),
			Usage:         resp.Usage,
		},
	}, nil
}

// NewGenerator picks the generator for the configured provider. The mock
// provider uses the heuristic generator so it honours the request contract.
func NewGenerator(config Config, logger *internal.Logger) (ports.GeneratorPort, error) {
	if config.Provider == ProviderMock {
		return heuristic.NewGenerator(), nil
	}
	return NewGeneratorAdapter(config, logger)
}
