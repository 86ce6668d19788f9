// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing, provider fallback, and validation
package config

import (
	"os"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		DBDriver:     "sqlite",
		Timeout:      30 * time.Second,
		MaxRetries:   3,
		HistoryLimit: 50,
		BcryptCost:   10,
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DBPath != "" {
		t.Errorf("DBPath = %s, want empty (XDG default)", cfg.DBPath)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %s, want sqlite", cfg.DBDriver)
	}
	if cfg.CharmHost != "cloud.charm.sh" {
		t.Errorf("CharmHost = %s, want cloud.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "todo" {
		t.Errorf("CharmDBName = %s, want todo", cfg.CharmDBName)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync = false, want true")
	}
	if cfg.LLM.Provider != "" || cfg.LLM.APIKey != "" {
		t.Errorf("LLM = %+v, want no provider", cfg.LLM)
	}
	if cfg.LLM.Model != "gpt-3.5-turbo" {
		t.Errorf("LLM.Model = %s, want gpt-3.5-turbo", cfg.LLM.Model)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.HistoryLimit != 50 {
		t.Errorf("HistoryLimit = %d, want 50", cfg.HistoryLimit)
	}
	if !cfg.GuestCache {
		t.Error("GuestCache = false, want true")
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if err := cfg.RequireLLM(); err == nil {
		t.Error("RequireLLM() should fail without a key")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("TODO_DB_PATH", "/tmp/todo.db")
	os.Setenv("TODO_DB_DRIVER", "sqlite3")
	os.Setenv("TODO_LLM_TIMEOUT", "60s")
	os.Setenv("TODO_LLM_MAX_RETRIES", "5")
	os.Setenv("TODO_LLM_RETRY_DELAY", "3s")
	os.Setenv("TODO_USER", "guest_9")
	os.Setenv("TODO_HISTORY_LIMIT", "20")
	os.Setenv("TODO_GUEST_CACHE", "false")
	os.Setenv("TODO_BCRYPT_COST", "12")
	os.Setenv("CHARM_HOST", "custom.charm.sh")
	os.Setenv("CHARM_DB", "test_db")
	os.Setenv("CHARM_AUTO_SYNC", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DBPath != "/tmp/todo.db" {
		t.Errorf("DBPath = %s", cfg.DBPath)
	}
	if cfg.DBDriver != "sqlite3" {
		t.Errorf("DBDriver = %s, want sqlite3", cfg.DBDriver)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 3*time.Second {
		t.Errorf("RetryDelay = %v, want 3s", cfg.RetryDelay)
	}
	if cfg.User != "guest_9" {
		t.Errorf("User = %s, want guest_9", cfg.User)
	}
	if cfg.HistoryLimit != 20 {
		t.Errorf("HistoryLimit = %d, want 20", cfg.HistoryLimit)
	}
	if cfg.GuestCache {
		t.Error("GuestCache = true, want false")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.CharmHost != "custom.charm.sh" {
		t.Errorf("CharmHost = %s, want custom.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "test_db" {
		t.Errorf("CharmDBName = %s, want test_db", cfg.CharmDBName)
	}
	if cfg.AutoSync {
		t.Error("AutoSync = true, want false")
	}
}

func TestLoad_LLMProviders(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		provider string
		key      string
		baseURL  string
		model    string
	}{
		{
			name:     "openai",
			env:      map[string]string{"OPENAI_API_KEY": "sk-openai"},
			provider: "openai",
			key:      "sk-openai",
			baseURL:  "https://api.openai.com/v1",
			model:    "gpt-3.5-turbo",
		},
		{
			name:     "openai wins over openrouter",
			env:      map[string]string{"OPENAI_API_KEY": "sk-openai", "OPENROUTER_API_KEY": "sk-or", "OPENAI_MODEL": "gpt-4o-mini"},
			provider: "openai",
			key:      "sk-openai",
			baseURL:  "https://api.openai.com/v1",
			model:    "gpt-4o-mini",
		},
		{
			name:     "openrouter fallback",
			env:      map[string]string{"OPENROUTER_API_KEY": "sk-or"},
			provider: "openrouter",
			key:      "sk-or",
			baseURL:  "https://openrouter.ai/api/v1",
			model:    "openai/gpt-3.5-turbo",
		},
		{
			name:     "openrouter overrides",
			env:      map[string]string{"OPENROUTER_API_KEY": "sk-or", "OPENROUTER_BASE_URL": "http://localhost:9000/v1", "OPENROUTER_MODEL": "meta/llama"},
			provider: "openrouter",
			key:      "sk-or",
			baseURL:  "http://localhost:9000/v1",
			model:    "meta/llama",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			got := cfg.LLM
			if got.Provider != tt.provider || got.APIKey != tt.key || got.BaseURL != tt.baseURL || got.Model != tt.model {
				t.Errorf("LLM = %+v, want %s/%s/%s/%s", got, tt.provider, tt.key, tt.baseURL, tt.model)
			}
			if err := cfg.RequireLLM(); err != nil {
				t.Errorf("RequireLLM() error = %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.DBDriver = "postgres" }},
		{"too many retries", func(c *Config) { c.MaxRetries = 15 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"zero history", func(c *Config) { c.HistoryLimit = 0 }},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 3 }},
		{"bcrypt cost too high", func(c *Config) { c.BcryptCost = 32 }},
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config failed: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_BOOL", tt.value)
			}
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
