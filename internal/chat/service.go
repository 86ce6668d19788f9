// ABOUTME: Conversation/Message Store over the SQLite stores and the identity resolver
// ABOUTME: Every owner-scoped call resolves the caller handle on the creating path
package chat

import (
	"fmt"
	"log"
	"time"

	"github.com/harper/todo-agent/internal/models"
)

// DefaultHistoryLimit bounds GetConversationHistory when no limit is given
const DefaultHistoryLimit = 50

// ConversationStore is the conversation persistence the service needs
type ConversationStore interface {
	Create(userID int64) (*models.Conversation, error)
	Get(id, userID int64) (*models.Conversation, error)
	ListByUser(userID int64) ([]models.Conversation, error)
	Touch(id int64, at time.Time) (bool, error)
}

// MessageStore is the message persistence the service needs
type MessageStore interface {
	Append(msg *models.Message) error
	History(conversationID, userID int64, limit int) ([]models.Message, error)
	Recent(conversationID, userID int64, limit int) ([]models.Message, error)
}

// Provisioner resolves a handle to a user id, creating guest users as needed
type Provisioner interface {
	Ensure(handle string) (int64, error)
}

// Service manages conversations and their messages
type Service struct {
	conversations ConversationStore
	messages      MessageStore
	users         Provisioner
	now           func() time.Time
}

// NewService creates a Service
func NewService(conversations ConversationStore, messages MessageStore, users Provisioner) *Service {
	return &Service{
		conversations: conversations,
		messages:      messages,
		users:         users,
		now:           time.Now,
	}
}

// CreateConversation starts a new conversation owned by handle
func (s *Service) CreateConversation(handle string) (*models.Conversation, error) {
	userID, err := s.users.Ensure(handle)
	if err != nil {
		return nil, err
	}

	conv, err := s.conversations.Create(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	log.Printf("Created conversation %d for user %d (handle %q)", conv.ID, userID, handle)
	return conv, nil
}

// GetConversation returns the conversation if handle owns it, nil otherwise
func (s *Service) GetConversation(id int64, handle string) (*models.Conversation, error) {
	userID, err := s.users.Ensure(handle)
	if err != nil {
		return nil, err
	}

	conv, err := s.conversations.Get(id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conv, nil
}

// GetOrCreateConversation continues conversation id when handle owns it and
// starts a new one otherwise. An id of 0 always starts a new conversation.
func (s *Service) GetOrCreateConversation(id int64, handle string) (*models.Conversation, error) {
	if id > 0 {
		conv, err := s.GetConversation(id, handle)
		if err != nil {
			return nil, err
		}
		if conv != nil {
			return conv, nil
		}
	}
	return s.CreateConversation(handle)
}

// AddMessage appends a message stamped with the resolved owner. The conversation
// is not checked against that owner.
func (s *Service) AddMessage(conversationID int64, handle, role, content string) (*models.Message, error) {
	r, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}

	userID, err := s.users.Ensure(handle)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conversationID,
		UserID:         userID,
		Role:           r,
		Content:        content,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.messages.Append(msg); err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}
	return msg, nil
}

// GetConversationHistory returns up to limit messages the owner wrote in the
// conversation, oldest first. A limit of 0 or less uses DefaultHistoryLimit.
func (s *Service) GetConversationHistory(conversationID int64, handle string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	userID, err := s.users.Ensure(handle)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.History(conversationID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return messages, nil
}

// GetRecentHistory returns the newest limit messages the owner wrote in the
// conversation, oldest first. A limit of 0 or less uses DefaultHistoryLimit.
func (s *Service) GetRecentHistory(conversationID int64, handle string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	userID, err := s.users.Ensure(handle)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.Recent(conversationID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent history: %w", err)
	}
	return messages, nil
}

// UpdateConversationTimestamp bumps updated_at for any existing conversation.
// Missing ids are ignored.
func (s *Service) UpdateConversationTimestamp(conversationID int64) error {
	if _, err := s.conversations.Touch(conversationID, s.now()); err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

// ListConversations returns handle's conversations, most recently updated first
func (s *Service) ListConversations(handle string) ([]models.Conversation, error) {
	userID, err := s.users.Ensure(handle)
	if err != nil {
		return nil, err
	}

	convs, err := s.conversations.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}
