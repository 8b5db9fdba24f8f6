package ai

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sheetgen/internal"
)

// Prompt template names
const (
	PromptSyntheticSystem = "synthetic_data_system"
	PromptSyntheticTask   = "synthetic_data_task"
)

//go:embed prompts/*.txt
var builtinPrompts embed.FS

// Global map to track initialized prompt directories (to avoid duplicate logs)
var (
	initializedDirs   = make(map[string]bool)
	initializedDirsMu sync.Mutex
)

// PromptManager loads prompt templates from PromptsDir, falling back to the
// templates compiled into the binary.
type PromptManager struct {
	PromptsDir string
	logger     *internal.Logger
}

// NewPromptManager creates a prompt manager. An empty dir uses only the
// built-in templates.
func NewPromptManager(promptsDir string, logger *internal.Logger) *PromptManager {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	logger = logger.Named("PromptManager")

	initializedDirsMu.Lock()
	if !initializedDirs[promptsDir] {
		initializedDirs[promptsDir] = true
		if promptsDir == "" {
			logger.Debug("Using built-in prompt templates")
		} else {
			logger.Info("Initialized for directory: %s", promptsDir)
		}
	}
	initializedDirsMu.Unlock()

	return &PromptManager{PromptsDir: promptsDir, logger: logger}
}

// LoadPrompt loads a prompt template by name
func (pm *PromptManager) LoadPrompt(name string) (string, error) {
	if pm.PromptsDir != "" {
		path := filepath.Join(pm.PromptsDir, name+".txt")
		content, err := os.ReadFile(path)
		if err == nil {
			return string(content), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to load prompt %s: %w", name, err)
		}
		pm.logger.Trace("No override for %s in %s", name, pm.PromptsDir)
	}

	content, err := fs.ReadFile(builtinPrompts, "prompts/"+name+".txt")
	if err != nil {
		return "", fmt.Errorf("prompt template not found: %s", name)
	}
	return string(content), nil
}

// RenderPrompt replaces {placeholder} with values
func (pm *PromptManager) RenderPrompt(name string, replacements map[string]string) (string, error) {
	template, err := pm.LoadPrompt(name)
	if err != nil {
		return "", err
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, "{"+placeholder+"}", value)
	}

	return strings.TrimSpace(result), nil
}
