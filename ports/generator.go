package ports

import (
	"context"

	"sheetgen/domain/core"
	"sheetgen/domain/generation"
)

// GeneratorPort produces spreadsheet data for a normalized request. The
// result has a valid shape; the request contract is checked by the caller.
type GeneratorPort interface {
	GenerateSheetData(ctx context.Context, req generation.Request) (*SheetGeneration, error)
}

// GenerationAudit is metadata about a generation call (prompt/response hashes, model).
type GenerationAudit struct {
	GeneratorType string     `json:"generator_type"` // "llm" | "heuristic"
	Provider      string     `json:"provider,omitempty"`
	Model         string     `json:"model,omitempty"`
	Temperature   float64    `json:"temperature,omitempty"`
	MaxTokens     int        `json:"max_tokens,omitempty"`
	PromptHash    core.Hash  `json:"prompt_hash,omitempty"`
	ResponseHash  core.Hash  `json:"response_hash,omitempty"`
	Usage         *UsageData `json:"usage,omitempty"`
}

// SheetGeneration is the full output of a generation call.
type SheetGeneration struct {
	Result *generation.Result `json:"result"`
	Audit  GenerationAudit    `json:"audit"`
}
