// ABOUTME: Wires storage, identity, tools, and chat from configuration
// ABOUTME: Shared by the todo CLI and the standalone MCP server
package app

import (
	"fmt"
	"log"

	"github.com/harper/todo-agent/internal/auth"
	"github.com/harper/todo-agent/internal/chat"
	"github.com/harper/todo-agent/internal/config"
	"github.com/harper/todo-agent/internal/identity"
	"github.com/harper/todo-agent/internal/llm"
	"github.com/harper/todo-agent/internal/models"
	"github.com/harper/todo-agent/internal/storage/sqlite"
	"github.com/harper/todo-agent/internal/tools"
)

// App holds the wired components
type App struct {
	Config     *config.Config
	Store      *sqlite.Storage
	Resolver   *identity.Resolver
	Dispatcher *tools.Dispatcher
	Chat       *chat.Service
}

// New opens the configured database and wires the components over it
func New(cfg *config.Config) (*App, error) {
	path := cfg.DBPath
	if path == "" {
		path = sqlite.DefaultDBPath()
	}

	store, err := sqlite.NewStorageWithDriver(cfg.DBDriver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Wire(cfg, store), nil
}

// Wire builds the components over an already open store
func Wire(cfg *config.Config, store *sqlite.Storage) *App {
	resolver := identity.NewResolver(store.Users(), identity.Config{
		Hasher: auth.NewPasswordHasher(cfg.BcryptCost),
		Cache:  cfg.GuestCache,
	})

	return &App{
		Config:     cfg,
		Store:      store,
		Resolver:   resolver,
		Dispatcher: tools.NewDispatcher(store.Tasks(), resolver),
		Chat:       chat.NewService(store.Conversations(), store.Messages(), resolver),
	}
}

// NewAgent builds the chat loop. Fails when no model API key is configured.
func (a *App) NewAgent() (*chat.Agent, error) {
	if err := a.Config.RequireLLM(); err != nil {
		return nil, err
	}

	client, err := llm.NewClient(&llm.Config{
		APIKey:     a.Config.LLM.APIKey,
		BaseURL:    a.Config.LLM.BaseURL,
		Model:      a.Config.LLM.Model,
		Timeout:    a.Config.Timeout,
		MaxRetries: a.Config.MaxRetries,
		RetryDelay: a.Config.RetryDelay,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Using %s model %s", a.Config.LLM.Provider, client.Model())

	return chat.NewAgent(a.Chat, a.Dispatcher, client, llm.ToolSpecs(tools.Definitions()), chat.AgentConfig{
		HistoryLimit: a.Config.HistoryLimit,
	}), nil
}

// ResolveUser maps a handle to a user id, provisioning guests
func (a *App) ResolveUser(handle string) (int64, error) {
	if !auth.Authorize(handle) {
		return 0, fmt.Errorf("%w: invalid user %q", models.ErrUnauthorized, handle)
	}
	return a.Resolver.Ensure(handle)
}

// Close releases the database
func (a *App) Close() error {
	return a.Store.Close()
}
