// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Single entry point for users, tasks, conversations, and messages
package sqlite

import "fmt"

// Storage manages all persistent data for the task agent
type Storage struct {
	db            *DB
	users         *UserStore
	tasks         *TaskStore
	conversations *ConversationStore
	messages      *MessageStore
}

// NewStorage initializes storage at the default XDG path with the pure-Go driver
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	return NewStorageWithDriver(DriverModernc, dbPath)
}

// NewStorageWithDriver initializes storage with a custom driver and path
func NewStorageWithDriver(driver, dbPath string) (*Storage, error) {
	db, err := OpenWithDriver(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:            db,
		users:         NewUserStore(db),
		tasks:         NewTaskStore(db),
		conversations: NewConversationStore(db),
		messages:      NewMessageStore(db),
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying database handle
func (s *Storage) DB() *DB { return s.db }

// Users returns the user store
func (s *Storage) Users() *UserStore { return s.users }

// Tasks returns the task store
func (s *Storage) Tasks() *TaskStore { return s.tasks }

// Conversations returns the conversation store
func (s *Storage) Conversations() *ConversationStore { return s.conversations }

// Messages returns the message store
func (s *Storage) Messages() *MessageStore { return s.messages }
