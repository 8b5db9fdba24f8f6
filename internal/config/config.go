package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sheetgen/domain/generation"
	"sheetgen/domain/sheet"
	"sheetgen/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	AI         AIConfig         `yaml:"ai"`
	Generation GenerationConfig `yaml:"generation"`
	Store      StoreConfig      `yaml:"store"`
	Sheet      SheetConfig      `yaml:"sheet"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `yaml:"port"`
	APIPort string `yaml:"api_port"`
	GinMode string `yaml:"gin_mode"`
}

// AIConfig holds AI/LLM related settings
type AIConfig struct {
	Provider     string        `yaml:"provider"`
	OpenAIKey    string        `yaml:"openai_api_key"`
	GeminiKey    string        `yaml:"gemini_api_key"`
	Model        string        `yaml:"model"`
	BaseURL      string        `yaml:"base_url"`
	MaxTokens    int           `yaml:"max_tokens"`
	Temperature  float64       `yaml:"temperature"`
	Timeout      time.Duration `yaml:"timeout"`
	PromptsDir   string        `yaml:"prompts_dir"`
	UseHeuristic bool          `yaml:"fallback_to_heuristic"`
}

// APIKey returns the key for the selected provider
func (c AIConfig) APIKey() string {
	if c.Provider == "gemini" {
		return c.GeminiKey
	}
	return c.OpenAIKey
}

// GenerationConfig holds limits for generation requests
type GenerationConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
	DefaultRows   int `yaml:"default_rows"`
}

// StoreConfig selects the session store
type StoreConfig struct {
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"database_url"`
}

// SheetConfig holds the names given to built snapshots
type SheetConfig struct {
	SheetName    string `yaml:"sheet_name"`
	WorkbookName string `yaml:"workbook_name"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", APIPort: "8081", GinMode: "debug"},
		AI: AIConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			MaxTokens:   4000,
			Temperature: 0.7,
			Timeout:     180 * time.Second,
		},
		Generation: GenerationConfig{MaxConcurrent: 4, DefaultRows: generation.DefaultRowCount},
		Store:      StoreConfig{Driver: "memory"},
		Sheet:      SheetConfig{SheetName: sheet.DefaultSheetName, WorkbookName: sheet.DefaultWorkbookName},
	}
}

// Load reads the optional CONFIG_FILE, applies environment variables on top
// and validates the result
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	applyEnv(config)

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &errors.AppError{Code: errors.CodeConfigInvalid, Message: "cannot read CONFIG_FILE " + path, Cause: err}
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return &errors.AppError{Code: errors.CodeConfigInvalid, Message: "invalid CONFIG_FILE " + path, Cause: err}
	}
	return nil
}

func applyEnv(c *Config) {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.APIPort = getEnvOrDefault("API_PORT", c.Server.APIPort)
	c.Server.GinMode = getEnvOrDefault("GIN_MODE", c.Server.GinMode)

	c.AI.Provider = strings.ToLower(getEnvOrDefault("LLM_PROVIDER", c.AI.Provider))
	c.AI.OpenAIKey = getEnvOrDefault("OPENAI_API_KEY", c.AI.OpenAIKey)
	c.AI.GeminiKey = getEnvOrDefault("GEMINI_API_KEY", c.AI.GeminiKey)
	c.AI.Model = getEnvOrDefault("LLM_MODEL", c.AI.Model)
	c.AI.BaseURL = getEnvOrDefault("LLM_BASE_URL", c.AI.BaseURL)
	c.AI.MaxTokens = getEnvIntOrDefault("MAX_TOKENS", c.AI.MaxTokens)
	c.AI.Temperature = getEnvFloatOrDefault("TEMPERATURE", c.AI.Temperature)
	c.AI.Timeout = getEnvDurationOrDefault("LLM_TIMEOUT", c.AI.Timeout)
	c.AI.PromptsDir = getEnvOrDefault("PROMPTS_DIR", c.AI.PromptsDir)
	c.AI.UseHeuristic = getEnvBoolOrDefault("LLM_FALLBACK_HEURISTIC", c.AI.UseHeuristic)

	c.Generation.MaxConcurrent = getEnvIntOrDefault("MAX_CONCURRENT_GENERATIONS", c.Generation.MaxConcurrent)

	c.Store.Driver = strings.ToLower(getEnvOrDefault("STORE_DRIVER", c.Store.Driver))
	c.Store.DatabaseURL = getEnvOrDefault("DATABASE_URL", c.Store.DatabaseURL)

	c.Sheet.SheetName = getEnvOrDefault("SHEET_NAME", c.Sheet.SheetName)
	c.Sheet.WorkbookName = getEnvOrDefault("WORKBOOK_NAME", c.Sheet.WorkbookName)
}

// Validate checks cross-field requirements
func Validate(config *Config) error {
	switch config.AI.Provider {
	case "openai", "gemini":
		if config.AI.APIKey() == "" {
			return errors.ConfigInvalid("API key is required for LLM provider " + config.AI.Provider).WithField("ai")
		}
		if config.AI.Model == "" {
			return errors.ConfigInvalid("LLM_MODEL is required").WithField("ai")
		}
	case "mock":
	default:
		return errors.ConfigInvalid("unknown LLM_PROVIDER " + strconv.Quote(config.AI.Provider)).WithField("ai")
	}

	switch config.Store.Driver {
	case "memory":
	case "postgres", "sqlite":
		if config.Store.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for store driver " + config.Store.Driver).WithField("store")
		}
	default:
		return errors.ConfigInvalid("unknown STORE_DRIVER " + strconv.Quote(config.Store.Driver)).WithField("store")
	}

	if config.Generation.MaxConcurrent < 1 {
		return errors.ConfigInvalid("MAX_CONCURRENT_GENERATIONS must be at least 1").WithField("generation")
	}
	if config.AI.Timeout <= 0 {
		return errors.ConfigInvalid("LLM_TIMEOUT must be positive").WithField("ai")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
