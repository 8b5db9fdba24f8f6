package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sheetgen/ports"
)

// Supported providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Config holds LLM adapter configuration
type Config struct {
	Provider            string        // openai | gemini | mock
	Model               string        // e.g., "gpt-4o-mini"
	APIKey              string        // provider API key
	BaseURL             string        // Optional override (default: https://api.openai.com/v1)
	Temperature         float64       // 0.0-1.0, lower = more deterministic
	MaxTokens           int           // Max tokens in response
	Timeout             time.Duration // Request timeout
	PromptsDir          string        // Optional prompt template overrides
	FallbackToHeuristic bool          // Fallback to heuristic on error
}

// NewClient creates an LLM client based on config
func NewClient(config Config) (ports.LLMClient, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case "", ProviderOpenAI:
		return newOpenAIClient(config)
	case ProviderGemini:
		return NewGeminiClient(context.Background(), config)
	case ProviderMock:
		return &MockLLMClient{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.Provider)
	}
}

func newOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIClient{
		APIKey:  config.APIKey,
		BaseURL: baseURL,
		Timeout: config.Timeout,
	}, nil
}

// MockLLMClient is a mock LLM client for testing
type MockLLMClient struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors
	Calls    []ports.ChatRequest
}

func (m *MockLLMClient) ChatCompletion(ctx context.Context, req ports.ChatRequest) (*ports.LLMResponse, error) {
	m.Calls = append(m.Calls, req)
	if m.Error != nil {
		return nil, m.Error
	}
	content := m.Response
	if content == "" {
		content = `{"headers": ["Name", "Country"], "rows": [["Avery Stone", "Canada"]]}`
	}
	return &ports.LLMResponse{
		Content: content,
		Usage:   &ports.UsageData{Model: req.Model, Provider: ProviderMock},
	}, nil
}

func (m *MockLLMClient) Provider() string { return ProviderMock }

// OpenAIClient implements LLMClient for OpenAI-compatible chat completion APIs
type OpenAIClient struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func (c *OpenAIClient) Provider() string { return ProviderOpenAI }

func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ports.ChatRequest) (*ports.LLMResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("missing model")
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	system := req.System
	if system == "" {
		system = "You are a careful assistant. Output exactly what the user asks for."
	}

	// Chat Completions API (kept minimal: one system + one user message)
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type responseFormat struct {
		Type string `json:"type"`
	}
	type reqBody struct {
		Model          string          `json:"model"`
		Messages       []msg           `json:"messages"`
		Temperature    float64         `json:"temperature,omitempty"`
		MaxTokens      int             `json:"max_tokens,omitempty"`
		ResponseFormat *responseFormat `json:"response_format,omitempty"`
	}
	body := reqBody{
		Model: req.Model,
		Messages: []msg{
			{Role: "system", Content: system},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	client := &http.Client{Timeout: c.Timeout}
	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai http %d: %s", resp.StatusCode, string(respRaw))
	}

	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	type respBody struct {
		Model   string           `json:"model"`
		Choices []choice         `json:"choices"`
		Usage   *ports.UsageData `json:"usage"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("openai response missing choices")
	}

	usage := decoded.Usage
	if usage == nil {
		usage = &ports.UsageData{}
	}
	usage.Model = decoded.Model
	if usage.Model == "" {
		usage.Model = req.Model
	}
	usage.Provider = ProviderOpenAI

	return &ports.LLMResponse{Content: decoded.Choices[0].Message.Content, Usage: usage}, nil
}
