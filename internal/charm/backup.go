// ABOUTME: Per-user backup of tasks and conversations into a key-value store
// ABOUTME: Pushes snapshots, pulls them back for comparison, and restores missing tasks
package charm

import (
	"cmp"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/harper/todo-agent/internal/models"
	"github.com/harper/todo-agent/internal/storage/sqlite"
)

// Key prefixes for different entity types
const (
	UserPrefix         = "user:"
	TaskPrefix         = "task:"
	ConversationPrefix = "conversation:"
)

// Store is the key-value surface a backup writes through
type Store interface {
	SetJSON(key string, value interface{}) error
	GetJSON(key string, dest interface{}) error
	Delete(key string) error
	ListKeys(prefix string) ([]string, error)
	Sync() error
	AutoSync() bool
}

// PushResult summarizes one backup
type PushResult struct {
	UserID        int64 `json:"user_id"`
	Tasks         int   `json:"tasks"`
	Conversations int   `json:"conversations"`
	Pruned        int   `json:"pruned"`
	Synced        bool  `json:"synced"`
}

// Status counts the keys held for one user
type Status struct {
	UserID        int64 `json:"user_id"`
	HasUser       bool  `json:"has_user"`
	Tasks         int   `json:"tasks"`
	Conversations int   `json:"conversations"`
}

// UserKey generates a key for a user snapshot
func UserKey(userID int64) string {
	return UserPrefix + strconv.FormatInt(userID, 10)
}

// TaskKey generates a key for a task
func TaskKey(userID, taskID int64) string {
	return fmt.Sprintf("%s%d:%d", TaskPrefix, userID, taskID)
}

// ConversationKey generates a key for a conversation
func ConversationKey(userID, convID int64) string {
	return fmt.Sprintf("%s%d:%d", ConversationPrefix, userID, convID)
}

func userScope(prefix string, userID int64) string {
	return fmt.Sprintf("%s%d:", prefix, userID)
}

// Push writes a user's export into store and removes keys for tasks and
// conversations that no longer exist locally
func Push(store Store, data *sqlite.ExportData) (*PushResult, error) {
	if data == nil || data.User == nil {
		return nil, fmt.Errorf("export has no user")
	}
	userID := data.User.ID
	result := &PushResult{UserID: userID}

	if err := store.SetJSON(UserKey(userID), data.User); err != nil {
		return nil, err
	}

	live := map[string]bool{}
	for _, task := range data.Tasks {
		key := TaskKey(userID, task.ID)
		if err := store.SetJSON(key, task); err != nil {
			return nil, err
		}
		live[key] = true
		result.Tasks++
	}
	for _, conv := range data.Conversations {
		key := ConversationKey(userID, conv.ID)
		if err := store.SetJSON(key, conv); err != nil {
			return nil, err
		}
		live[key] = true
		result.Conversations++
	}

	for _, prefix := range []string{TaskPrefix, ConversationPrefix} {
		keys, err := store.ListKeys(userScope(prefix, userID))
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			if live[key] {
				continue
			}
			if err := store.Delete(key); err != nil {
				return nil, err
			}
			result.Pruned++
		}
	}

	if store.AutoSync() {
		if err := store.Sync(); err != nil {
			log.Printf("Warning: charm sync failed: %v", err)
		} else {
			result.Synced = true
		}
	}

	return result, nil
}

// Pull reads a user's backed-up tasks, ordered by task id and narrowed by
// filter. Keys that do not parse or belong to another user are skipped.
func Pull(store Store, userID int64, filter models.TaskFilter) ([]sqlite.ExportTask, error) {
	keys, err := store.ListKeys(userScope(TaskPrefix, userID))
	if err != nil {
		return nil, err
	}

	tasks := make([]sqlite.ExportTask, 0, len(keys))
	for _, key := range keys {
		owner, taskID, err := ParseTaskKey(key)
		if err != nil || owner != userID {
			log.Printf("Skipping foreign or malformed key %s", key)
			continue
		}

		var task sqlite.ExportTask
		if err := store.GetJSON(key, &task); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if task.ID == 0 {
			task.ID = taskID
		}
		if !filter.Matches(&models.Task{ID: task.ID, Completed: task.Completed}) {
			continue
		}
		tasks = append(tasks, task)
	}

	slices.SortFunc(tasks, func(a, b sqlite.ExportTask) int { return cmp.Compare(a.ID, b.ID) })
	return tasks, nil
}

// Task states reported by Compare
const (
	StateInSync  = "in-sync"
	StateChanged = "changed"
	StateMissing = "missing"
)

// Comparison pairs a backed-up task with its state against the local store
type Comparison struct {
	Task  sqlite.ExportTask `json:"task"`
	State string            `json:"state"`
}

// Compare reports each backed-up task as in sync with, changed from, or
// missing in the local task list
func Compare(backup []sqlite.ExportTask, local []models.Task) []Comparison {
	byID := make(map[int64]models.Task, len(local))
	for _, t := range local {
		byID[t.ID] = t
	}

	out := make([]Comparison, 0, len(backup))
	for _, b := range backup {
		state := StateInSync
		l, ok := byID[b.ID]
		switch {
		case !ok:
			state = StateMissing
		case l.Title != b.Title || l.Description != b.Description || l.Completed != b.Completed:
			state = StateChanged
		}
		out = append(out, Comparison{Task: b, State: state})
	}
	return out
}

// TaskCreator is the local task store a restore writes into
type TaskCreator interface {
	Create(task *models.Task) error
}

// Restore recreates the missing tasks of comparisons for userID and returns
// how many were written. Restored tasks get fresh local ids.
func Restore(tasks TaskCreator, userID int64, comparisons []Comparison) (int, error) {
	restored := 0
	for _, c := range comparisons {
		if c.State != StateMissing {
			continue
		}
		task := &models.Task{
			UserID:      userID,
			Title:       c.Task.Title,
			Description: c.Task.Description,
			Completed:   c.Task.Completed,
		}
		if err := tasks.Create(task); err != nil {
			return restored, fmt.Errorf("failed to restore task %d: %w", c.Task.ID, err)
		}
		log.Printf("Restored backed-up task %d as %d", c.Task.ID, task.ID)
		restored++
	}
	return restored, nil
}

// StatusFor counts what store holds for userID
func StatusFor(store Store, userID int64) (*Status, error) {
	st := &Status{UserID: userID}

	users, err := store.ListKeys(UserKey(userID))
	if err != nil {
		return nil, err
	}
	for _, key := range users {
		if key == UserKey(userID) {
			st.HasUser = true
		}
	}

	tasks, err := store.ListKeys(userScope(TaskPrefix, userID))
	if err != nil {
		return nil, err
	}
	st.Tasks = len(tasks)

	convs, err := store.ListKeys(userScope(ConversationPrefix, userID))
	if err != nil {
		return nil, err
	}
	st.Conversations = len(convs)

	return st, nil
}

// ParseTaskKey splits a task key into its user and task ids
func ParseTaskKey(key string) (userID, taskID int64, err error) {
	rest, ok := strings.CutPrefix(key, TaskPrefix)
	if !ok {
		return 0, 0, fmt.Errorf("not a task key: %s", key)
	}
	u, t, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, 0, fmt.Errorf("malformed task key: %s", key)
	}
	if userID, err = strconv.ParseInt(u, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("malformed task key: %s", key)
	}
	if taskID, err = strconv.ParseInt(t, 10, 64); err != nil {
		return 0, 0, fmt.Errorf("malformed task key: %s", key)
	}
	return userID, taskID, nil
}
