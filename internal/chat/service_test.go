// ABOUTME: Tests for the conversation service against in-memory SQLite
// ABOUTME: Covers owner scoping, get-or-create, history ordering, and timestamp bumps
package chat

import (
	"errors"
	"testing"
	"time"

	"github.com/harper/todo-agent/internal/identity"
	"github.com/harper/todo-agent/internal/models"
	"github.com/harper/todo-agent/internal/storage/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.Storage) {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	resolver := identity.NewResolver(store.Users(), identity.Config{
		Hasher: func(string) (string, error) { return "hash", nil },
	})
	return NewService(store.Conversations(), store.Messages(), resolver), store
}

func TestCreateConversation_ProvisionsGuest(t *testing.T) {
	svc, store := newTestService(t)

	conv, err := svc.CreateConversation("guest_7")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	guest, err := store.Users().GetByEmail("guest_7@example.com")
	if err != nil || guest == nil {
		t.Fatalf("guest not provisioned: %v", err)
	}
	if conv.UserID != guest.ID {
		t.Errorf("conversation owner = %d, want %d", conv.UserID, guest.ID)
	}
}

func TestCreateConversation_InvalidHandle(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.CreateConversation(""); !errors.Is(err, models.ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
}

func TestGetConversation_OwnerScoped(t *testing.T) {
	svc, _ := newTestService(t)

	conv, err := svc.CreateConversation("guest_1")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	got, err := svc.GetConversation(conv.ID, "guest_1")
	if err != nil || got == nil || got.ID != conv.ID {
		t.Fatalf("owner GetConversation() = %v, %v", got, err)
	}

	other, err := svc.GetConversation(conv.ID, "guest_2")
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if other != nil {
		t.Errorf("guest_2 read guest_1's conversation: %+v", other)
	}
}

func TestGetOrCreateConversation(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.GetOrCreateConversation(0, "guest_1")
	if err != nil {
		t.Fatalf("GetOrCreateConversation(0) error = %v", err)
	}

	again, err := svc.GetOrCreateConversation(first.ID, "guest_1")
	if err != nil || again.ID != first.ID {
		t.Errorf("continuing conversation = %v, %v; want id %d", again, err, first.ID)
	}

	missing, err := svc.GetOrCreateConversation(9999, "guest_1")
	if err != nil || missing.ID == first.ID {
		t.Errorf("unknown id should start a new conversation, got %v, %v", missing, err)
	}

	foreign, err := svc.GetOrCreateConversation(first.ID, "guest_2")
	if err != nil || foreign.ID == first.ID {
		t.Errorf("foreign id should start a new conversation, got %v, %v", foreign, err)
	}
}

func TestAddMessage_InvalidRole(t *testing.T) {
	svc, _ := newTestService(t)
	conv, _ := svc.CreateConversation("guest_1")

	if _, err := svc.AddMessage(conv.ID, "guest_1", "robot", "hi"); !errors.Is(err, models.ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
}

func TestConversationHistory(t *testing.T) {
	svc, _ := newTestService(t)
	conv, _ := svc.CreateConversation("guest_1")

	turns := []struct{ role, content string }{
		{"user", "add milk"},
		{"assistant", "added milk"},
		{"user", "thanks"},
	}
	for _, turn := range turns {
		if _, err := svc.AddMessage(conv.ID, "guest_1", turn.role, turn.content); err != nil {
			t.Fatalf("AddMessage() error = %v", err)
		}
	}
	// Written into guest_1's conversation by another owner; invisible to guest_1
	if _, err := svc.AddMessage(conv.ID, "guest_2", "user", "intruder"); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	history, err := svc.GetConversationHistory(conv.ID, "guest_1", 0)
	if err != nil {
		t.Fatalf("GetConversationHistory() error = %v", err)
	}
	if len(history) != len(turns) {
		t.Fatalf("history has %d messages, want %d", len(history), len(turns))
	}
	for i, turn := range turns {
		if string(history[i].Role) != turn.role || history[i].Content != turn.content {
			t.Errorf("history[%d] = %s %q, want %s %q", i, history[i].Role, history[i].Content, turn.role, turn.content)
		}
	}

	limited, err := svc.GetConversationHistory(conv.ID, "guest_1", 2)
	if err != nil {
		t.Fatalf("GetConversationHistory() error = %v", err)
	}
	if len(limited) != 2 || limited[0].Content != "add milk" {
		t.Errorf("limited history = %+v", limited)
	}

	recent, err := svc.GetRecentHistory(conv.ID, "guest_1", 2)
	if err != nil {
		t.Fatalf("GetRecentHistory() error = %v", err)
	}
	if len(recent) != 2 || recent[0].Content != "added milk" || recent[1].Content != "thanks" {
		t.Errorf("recent history = %+v", recent)
	}
}

func TestUpdateConversationTimestamp(t *testing.T) {
	svc, _ := newTestService(t)
	conv, _ := svc.CreateConversation("guest_1")

	later := conv.UpdatedAt.Add(time.Hour)
	svc.now = func() time.Time { return later }

	if err := svc.UpdateConversationTimestamp(conv.ID); err != nil {
		t.Fatalf("UpdateConversationTimestamp() error = %v", err)
	}
	got, _ := svc.GetConversation(conv.ID, "guest_1")
	if !got.UpdatedAt.Equal(later.UTC()) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, later)
	}

	if err := svc.UpdateConversationTimestamp(424242); err != nil {
		t.Errorf("missing conversation should be a no-op, got %v", err)
	}
}

func TestListConversations_NewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	first, _ := svc.CreateConversation("guest_1")
	second, _ := svc.CreateConversation("guest_1")
	if _, err := svc.CreateConversation("guest_2"); err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := svc.UpdateConversationTimestamp(first.ID); err != nil {
		t.Fatalf("UpdateConversationTimestamp() error = %v", err)
	}

	convs, err := svc.ListConversations("guest_1")
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(convs) != 2 || convs[0].ID != first.ID || convs[1].ID != second.ID {
		t.Errorf("ListConversations() = %+v, want [%d %d]", convs, first.ID, second.ID)
	}
}
