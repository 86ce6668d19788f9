// ABOUTME: Message storage operations for SQLite
// ABOUTME: Append-only log read back oldest first, from the head or the tail
package sqlite

import (
	"database/sql"
	"slices"
	"time"

	"github.com/harper/todo-agent/internal/models"
)

// MessageStore handles message persistence
type MessageStore struct {
	db *DB
}

// NewMessageStore creates a new MessageStore
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append inserts a message and sets its ID and creation time
func (s *MessageStore) Append(msg *models.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.Exec(`
		INSERT INTO messages (conversation_id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ConversationID, msg.UserID, string(msg.Role), msg.Content, msg.CreatedAt)
	if err != nil {
		return err
	}

	msg.ID, err = res.LastInsertId()
	return err
}

// History returns up to limit messages of a conversation written by userID, oldest first
func (s *MessageStore) History(conversationID, userID int64, limit int) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, conversation_id, user_id, role, content, created_at
		FROM messages
		WHERE conversation_id = ? AND user_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ?
	`, conversationID, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanMessages(rows)
}

// Recent returns the newest limit messages of a conversation written by userID,
// still ordered oldest first
func (s *MessageStore) Recent(conversationID, userID int64, limit int) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, conversation_id, user_id, role, content, created_at
		FROM messages
		WHERE conversation_id = ? AND user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, conversationID, userID, limit)
	if err != nil {
		return nil, err
	}

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(messages)
	return messages, nil
}

func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	defer func() { _ = rows.Close() }()

	messages := []models.Message{}
	for rows.Next() {
		var (
			m    models.Message
			role string
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.UserID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = models.Role(role)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
