// ABOUTME: Tests for shared utility functions used by CLI commands
// ABOUTME: Verifies truncate, formatTime, key=value parsing, and user selection

package commands

import (
	"testing"
	"time"

	"github.com/harper/todo-agent/internal/config"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated", "hello world", 8, "hello..."},
		{"very short maxLen", "hello", 2, "he"},
		{"multibyte safe", "héllo wörld", 8, "héllo..."},
		{"empty string", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"just now", now.Add(-10 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-49 * time.Hour), "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTime(tt.in); got != tt.want {
				t.Errorf("formatTime() = %q, want %q", got, tt.want)
			}
		})
	}

	old := now.AddDate(0, -2, 0)
	if got := formatTime(old); got != old.Format("2006-01-02") {
		t.Errorf("formatTime(old) = %q", got)
	}
}

func TestParseAssignments(t *testing.T) {
	params, err := parseAssignments([]string{"title=Buy milk", "task_id=5", "user_id=42", "description=a=b"})
	if err != nil {
		t.Fatalf("parseAssignments() error = %v", err)
	}

	if params["title"] != "Buy milk" {
		t.Errorf("title = %v", params["title"])
	}
	if params["task_id"] != int64(5) {
		t.Errorf("task_id = %#v, want int64(5)", params["task_id"])
	}
	if params["user_id"] != "42" {
		t.Errorf("user_id = %#v, want string", params["user_id"])
	}
	if params["description"] != "a=b" {
		t.Errorf("description = %v", params["description"])
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseAssignments([]string{bad}); err == nil {
			t.Errorf("parseAssignments(%q) should fail", bad)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	defer func() { userHandle = "" }()

	userHandle = ""
	if _, err := currentUser(&config.Config{}); err == nil {
		t.Error("expected error without a user")
	}

	got, err := currentUser(&config.Config{User: "guest_9"})
	if err != nil || got != "guest_9" {
		t.Errorf("currentUser() = %q, %v; want guest_9 from config", got, err)
	}

	userHandle = " 7 "
	got, err = currentUser(&config.Config{User: "guest_9"})
	if err != nil || got != "7" {
		t.Errorf("currentUser() = %q, %v; want flag value 7", got, err)
	}
}

func TestCheckbox(t *testing.T) {
	if checkbox(true) != "[x]" || checkbox(false) != "[ ]" {
		t.Error("checkbox markers are wrong")
	}
}
