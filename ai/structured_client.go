package ai

import (
	"context"
	"fmt"
	"strings"

	"sheetgen/internal"
	"sheetgen/internal/errors"
	"sheetgen/internal/jsonval"
	"sheetgen/ports"
)

// StructuredClient renders prompt templates, calls the chat model and decodes
// the reply as order-preserving JSON.
type StructuredClient struct {
	LLM         ports.LLMClient
	Prompts     *PromptManager
	Model       string
	MaxTokens   int
	Temperature float64
	logger      *internal.Logger
}

// JSONResponse is a decoded model reply plus what produced it.
type JSONResponse struct {
	Document any
	Prompt   string
	Raw      string
	Usage    *ports.UsageData
}

// NewStructuredClient creates a new structured client
func NewStructuredClient(llm ports.LLMClient, prompts *PromptManager, model string, maxTokens int, temperature float64, logger *internal.Logger) *StructuredClient {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	logger = logger.Named("StructuredClient")
	logger.Debug("Initializing client with provider=%s, model=%s, temp=%.2f, maxTokens=%d",
		llm.Provider(), model, temperature, maxTokens)

	return &StructuredClient{
		LLM:         llm,
		Prompts:     prompts,
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		logger:      logger,
	}
}

// GetJSONFromPrompts renders the system and task templates with replacements
// and decodes the model's JSON reply.
func (c *StructuredClient) GetJSONFromPrompts(ctx context.Context, systemName, taskName string, replacements map[string]string) (*JSONResponse, error) {
	c.logger.Debug("Loading prompt templates: %s, %s (%d replacements)", systemName, taskName, len(replacements))

	system, err := c.Prompts.RenderPrompt(systemName, replacements)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render system prompt")
	}
	prompt, err := c.Prompts.RenderPrompt(taskName, replacements)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render task prompt")
	}

	return c.GetJSONResponse(ctx, system, prompt)
}

// GetJSONResponse makes one chat call and decodes the reply.
func (c *StructuredClient) GetJSONResponse(ctx context.Context, system, prompt string) (*JSONResponse, error) {
	c.logger.Info("Sending request to %s/%s - promptLength=%d", c.LLM.Provider(), c.Model, len(prompt))
	c.logger.Trace("Prompt preview: %s", preview(prompt, 500))

	resp, err := c.LLM.ChatCompletion(ctx, ports.ChatRequest{
		Model:       c.Model,
		System:      system,
		Prompt:      prompt,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		JSONMode:    true,
	})
	if err != nil {
		c.logger.Error("Chat completion failed: %v", err)
		return nil, errors.ExternalServiceError(c.LLM.Provider(), err)
	}

	c.logger.Debug("Raw content length: %d bytes", len(resp.Content))
	doc, err := ParseJSONContent(resp.Content)
	if err != nil {
		c.logger.Warn("Model output is not JSON: %s", preview(resp.Content, 200))
		return nil, err
	}

	return &JSONResponse{Document: doc, Prompt: system + "\n\n" + prompt, Raw: resp.Content, Usage: resp.Usage}, nil
}

// ParseJSONContent cleans a model reply and decodes it.
func ParseJSONContent(content string) (any, error) {
	cleaned := CleanJSONContent(content)
	doc, err := jsonval.ParseString(cleaned)
	if err != nil {
		return nil, errors.ValidationError(fmt.Sprintf("model output is not valid JSON: %s", preview(cleaned, 120)))
	}
	return doc, nil
}

// CleanJSONContent removes markdown code fences and any chatter before the
// first JSON bracket or after the last one.
func CleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if nl := strings.IndexByte(content, '\n'); nl >= 0 && !strings.ContainsAny(content[:nl], "{[") {
			// drop the fence language tag, e.g. ```json
			content = content[nl+1:]
		}
		if end := strings.LastIndex(content, "```"); end >= 0 {
			content = content[:end]
		}
		content = strings.TrimSpace(content)
	}

	start := strings.IndexAny(content, "{[")
	if start < 0 {
		return content
	}
	closer := byte('}')
	if content[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(content, closer)
	if end < start {
		return content[start:]
	}
	return content[start : end+1]
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
