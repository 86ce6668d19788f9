// ABOUTME: Centralized configuration for the todo agent CLI and MCP server
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openAIModel       = "gpt-3.5-turbo"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	openRouterModel   = "openai/gpt-3.5-turbo"
)

// LLMConfig selects the chat model endpoint
type LLMConfig struct {
	Provider string // "openai", "openrouter", or "" when no key is set
	APIKey   string
	BaseURL  string
	Model    string
}

// Config holds all configuration for the todo agent
type Config struct {
	// Storage settings
	DBPath   string // Empty means the XDG default
	DBDriver string

	// Model settings
	LLM        LLMConfig
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Chat and identity settings
	User         string // Default caller handle for CLI commands
	HistoryLimit int
	GuestCache   bool
	BcryptCost   int

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:       os.Getenv("TODO_DB_PATH"),
		DBDriver:     getEnv("TODO_DB_DRIVER", "sqlite"),
		LLM:          loadLLM(),
		Timeout:      getEnvDuration("TODO_LLM_TIMEOUT", 30*time.Second),
		MaxRetries:   getEnvInt("TODO_LLM_MAX_RETRIES", 3),
		RetryDelay:   getEnvDuration("TODO_LLM_RETRY_DELAY", 2*time.Second),
		User:         os.Getenv("TODO_USER"),
		HistoryLimit: getEnvInt("TODO_HISTORY_LIMIT", 50),
		GuestCache:   getEnvBool("TODO_GUEST_CACHE", true),
		BcryptCost:   getEnvInt("TODO_BCRYPT_COST", 10),
		CharmHost:    getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:  getEnv("CHARM_DB", "todo"),
		AutoSync:     getEnvBool("CHARM_AUTO_SYNC", true),
	}

	return cfg, cfg.Validate()
}

// loadLLM prefers OpenAI credentials and falls back to OpenRouter
func loadLLM() LLMConfig {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return LLMConfig{
			Provider: "openai",
			APIKey:   key,
			BaseURL:  getEnv("OPENAI_BASE_URL", openAIBaseURL),
			Model:    getEnv("OPENAI_MODEL", openAIModel),
		}
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		return LLMConfig{
			Provider: "openrouter",
			APIKey:   key,
			BaseURL:  getEnv("OPENROUTER_BASE_URL", openRouterBaseURL),
			Model:    getEnv("OPENROUTER_MODEL", openRouterModel),
		}
	}
	return LLMConfig{BaseURL: openAIBaseURL, Model: openAIModel}
}

func (c *Config) Validate() error {
	if c.DBDriver != "sqlite" && c.DBDriver != "sqlite3" {
		return fmt.Errorf("TODO_DB_DRIVER must be sqlite or sqlite3, got %q", c.DBDriver)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("TODO_LLM_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("TODO_LLM_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("TODO_HISTORY_LIMIT must be at least 1, got %d", c.HistoryLimit)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("TODO_BCRYPT_COST must be 4-31, got %d", c.BcryptCost)
	}
	return nil
}

// RequireLLM fails when no model API key is configured
func (c *Config) RequireLLM() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("no API key found: set OPENAI_API_KEY or OPENROUTER_API_KEY")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
