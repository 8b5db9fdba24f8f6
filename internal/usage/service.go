package usage

import (
	"sort"
	"sync"

	"sheetgen/domain/core"
	"sheetgen/internal"
	"sheetgen/ports"
)

// ModelUsage aggregates token counts for one provider/model pair
type ModelUsage struct {
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	Calls            int    `json:"calls"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
}

// Summary is the process-wide usage since start
type Summary struct {
	Since       int64        `json:"since"`
	Calls       int          `json:"calls"`
	TotalTokens int          `json:"total_tokens"`
	Models      []ModelUsage `json:"models"`
}

// Tracker records LLM token usage per provider and model. Counters live in
// memory and reset on restart.
type Tracker struct {
	mu     sync.Mutex
	since  int64
	models map[string]*ModelUsage
	logger *internal.Logger
}

// NewTracker creates a new usage tracker
func NewTracker(logger *internal.Logger) *Tracker {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Tracker{
		since:  core.Now().UnixMilli(),
		models: make(map[string]*ModelUsage),
		logger: logger.Named("UsageTracker"),
	}
}

// Record adds one call. Nil or negative usage is ignored so tracking never
// fails the caller.
func (t *Tracker) Record(usage *ports.UsageData) {
	if usage == nil {
		return
	}
	if usage.PromptTokens < 0 || usage.CompletionTokens < 0 || usage.TotalTokens < 0 {
		t.logger.Warn("Ignoring invalid token counts: %+v", *usage)
		return
	}

	total := usage.TotalTokens
	if total == 0 {
		total = usage.PromptTokens + usage.CompletionTokens
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := usage.Provider + "/" + usage.Model
	m, ok := t.models[key]
	if !ok {
		m = &ModelUsage{Provider: usage.Provider, Model: usage.Model}
		t.models[key] = m
	}
	m.Calls++
	m.PromptTokens += usage.PromptTokens
	m.CompletionTokens += usage.CompletionTokens
	m.TotalTokens += total
	t.logger.Debug("Recorded %d tokens for %s", total, key)
}

// Summary returns a copy of the counters, sorted by provider then model
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{Since: t.since, Models: make([]ModelUsage, 0, len(t.models))}
	for _, m := range t.models {
		s.Models = append(s.Models, *m)
		s.Calls += m.Calls
		s.TotalTokens += m.TotalTokens
	}
	sort.Slice(s.Models, func(i, j int) bool {
		if s.Models[i].Provider != s.Models[j].Provider {
			return s.Models[i].Provider < s.Models[j].Provider
		}
		return s.Models[i].Model < s.Models[j].Model
	})
	return s
}
