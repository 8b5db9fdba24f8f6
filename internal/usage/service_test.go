package usage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetgen/ports"
)

func TestTrackerAggregatesPerModel(t *testing.T) {
	tr := NewTracker(nil)
	tr.Record(&ports.UsageData{Provider: "openai", Model: "gpt-4o-mini", PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15})
	tr.Record(&ports.UsageData{Provider: "openai", Model: "gpt-4o-mini", PromptTokens: 1, CompletionTokens: 2})
	tr.Record(&ports.UsageData{Provider: "gemini", Model: "gemini-2.5-flash", TotalTokens: 7})
	tr.Record(nil)
	tr.Record(&ports.UsageData{Provider: "openai", PromptTokens: -1})

	s := tr.Summary()
	assert.Equal(t, 3, s.Calls)
	assert.Equal(t, 25, s.TotalTokens)
	assert.Equal(t, []ModelUsage{
		{Provider: "gemini", Model: "gemini-2.5-flash", Calls: 1, TotalTokens: 7},
		{Provider: "openai", Model: "gpt-4o-mini", Calls: 2, PromptTokens: 11, CompletionTokens: 7, TotalTokens: 18},
	}, s.Models)
	assert.NotZero(t, s.Since)
}

func TestTrackerIsSafeForConcurrentUse(t *testing.T) {
	tr := NewTracker(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Record(&ports.UsageData{Provider: "mock", Model: "m", TotalTokens: 2})
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, tr.Summary().TotalTokens)
}

func TestEmptySummaryHasNoModels(t *testing.T) {
	s := NewTracker(nil).Summary()
	assert.Equal(t, 0, s.Calls)
	assert.NotNil(t, s.Models)
}
