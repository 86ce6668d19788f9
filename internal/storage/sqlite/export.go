// ABOUTME: Export functionality for a user's tasks and chat history
// ABOUTME: Supports YAML, JSON, and Markdown export formats
package sqlite

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable data structure for one user
type ExportData struct {
	Version       string               `yaml:"version" json:"version"`
	ExportedAt    string               `yaml:"exported_at" json:"exported_at"`
	Tool          string               `yaml:"tool" json:"tool"`
	User          *ExportUser          `yaml:"user,omitempty" json:"user,omitempty"`
	Tasks         []ExportTask         `yaml:"tasks" json:"tasks"`
	Conversations []ExportConversation `yaml:"conversations,omitempty" json:"conversations,omitempty"`
}

// ExportUser represents the account for export. The password hash is never exported.
type ExportUser struct {
	ID       int64  `yaml:"id" json:"id"`
	Email    string `yaml:"email" json:"email"`
	Username string `yaml:"username" json:"username"`
}

// ExportTask represents a task for export
type ExportTask struct {
	ID          int64  `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Completed   bool   `yaml:"completed" json:"completed"`
	CreatedAt   string `yaml:"created_at" json:"created_at"`
}

// ExportConversation represents a conversation with its messages
type ExportConversation struct {
	ID        int64           `yaml:"id" json:"id"`
	UpdatedAt string          `yaml:"updated_at" json:"updated_at"`
	Messages  []ExportMessage `yaml:"messages" json:"messages"`
}

// ExportMessage represents a message for export
type ExportMessage struct {
	Role      string `yaml:"role" json:"role"`
	Content   string `yaml:"content" json:"content"`
	CreatedAt string `yaml:"created_at" json:"created_at"`
}

// Export collects everything owned by userID
func (s *Storage) Export(userID int64, historyLimit int) (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "todo-agent",
		Tasks:      []ExportTask{},
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		data.User = &ExportUser{ID: user.ID, Email: user.Email, Username: user.Username}
	}

	tasks, err := s.tasks.List(userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	for _, task := range tasks {
		data.Tasks = append(data.Tasks, ExportTask{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Completed:   task.Completed,
			CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		})
	}

	convs, err := s.conversations.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	for _, conv := range convs {
		msgs, err := s.messages.History(conv.ID, userID, historyLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load conversation %d: %w", conv.ID, err)
		}

		exportConv := ExportConversation{
			ID:        conv.ID,
			UpdatedAt: conv.UpdatedAt.Format(time.RFC3339),
			Messages:  make([]ExportMessage, 0, len(msgs)),
		}
		for _, m := range msgs {
			exportConv.Messages = append(exportConv.Messages, ExportMessage{
				Role:      string(m.Role),
				Content:   m.Content,
				CreatedAt: m.CreatedAt.Format(time.RFC3339),
			})
		}
		data.Conversations = append(data.Conversations, exportConv)
	}

	return data, nil
}

// WriteYAML encodes export data as YAML
func WriteYAML(w io.Writer, data *ExportData) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteJSON encodes export data as indented JSON
func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteMarkdown renders export data as a Markdown checklist and transcript
func WriteMarkdown(w io.Writer, data *ExportData) error {
	_, _ = fmt.Fprintf(w, "# Task Export - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)

	if data.User != nil {
		_, _ = fmt.Fprintf(w, "User: %s (%s)\n\n", data.User.Username, data.User.Email)
	}

	_, _ = fmt.Fprintln(w, "## Tasks")
	_, _ = fmt.Fprintln(w)
	for _, task := range data.Tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		_, _ = fmt.Fprintf(w, "- [%s] %s\n", mark, task.Title)
		if task.Description != "" {
			_, _ = fmt.Fprintf(w, "  %s\n", task.Description)
		}
	}
	_, _ = fmt.Fprintln(w)

	if len(data.Conversations) > 0 {
		_, _ = fmt.Fprintln(w, "## Conversations")
		_, _ = fmt.Fprintln(w)
		for _, conv := range data.Conversations {
			_, _ = fmt.Fprintf(w, "### Conversation %d (%s)\n\n", conv.ID, conv.UpdatedAt)
			for _, m := range conv.Messages {
				_, _ = fmt.Fprintf(w, "**%s:** %s\n\n", m.Role, m.Content)
			}
			_, _ = fmt.Fprintln(w, "---")
			_, _ = fmt.Fprintln(w)
		}
	}

	return nil
}

// WriterFor returns the encoder for an export format (yaml, json, markdown)
func WriterFor(format string) (func(io.Writer, *ExportData) error, error) {
	switch format {
	case "yaml", "yml":
		return WriteYAML, nil
	case "json":
		return WriteJSON, nil
	case "markdown", "md":
		return WriteMarkdown, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// ExportToFile writes a user's export to outputPath in the given format (yaml, json, markdown)
func (s *Storage) ExportToFile(userID int64, historyLimit int, format, outputPath string) error {
	data, err := s.Export(userID, historyLimit)
	if err != nil {
		return err
	}

	write, err := WriterFor(format)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return write(file, data)
}
