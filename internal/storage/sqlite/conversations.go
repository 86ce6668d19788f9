// ABOUTME: Conversation storage operations for SQLite
// ABOUTME: Owner-scoped lookup plus an unscoped timestamp touch
package sqlite

import (
	"database/sql"
	"time"

	"github.com/harper/todo-agent/internal/models"
)

// ConversationStore handles conversation persistence
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a new ConversationStore
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// Create inserts a conversation for userID
func (s *ConversationStore) Create(userID int64) (*models.Conversation, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`
		INSERT INTO conversations (user_id, created_at, updated_at)
		VALUES (?, ?, ?)
	`, userID, now, now)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Conversation{ID: id, UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
}

// Get returns the conversation only if userID owns it, nil otherwise
func (s *ConversationStore) Get(id, userID int64) (*models.Conversation, error) {
	var c models.Conversation
	err := s.db.QueryRow(`
		SELECT id, user_id, created_at, updated_at
		FROM conversations
		WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByUser returns a user's conversations, most recently updated first
func (s *ConversationStore) ListByUser(userID int64) ([]models.Conversation, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, created_at, updated_at
		FROM conversations
		WHERE user_id = ?
		ORDER BY updated_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	convs := []models.Conversation{}
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// Touch sets updated_at to at. Reports whether the conversation exists.
func (s *ConversationStore) Touch(id int64, at time.Time) (bool, error) {
	res, err := s.db.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
