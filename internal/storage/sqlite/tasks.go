// ABOUTME: Task storage operations for SQLite
// ABOUTME: Every query is owner-scoped; title search folds case and matches literally
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/harper/todo-agent/internal/models"
)

// titleFold is stateless and safe for concurrent use
var titleFold = cases.Fold()

// TaskStore handles task persistence
type TaskStore struct {
	db *DB
}

// NewTaskStore creates a new TaskStore
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a task and sets its ID and timestamps
func (s *TaskStore) Create(task *models.Task) error {
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	res, err := s.db.Exec(`
		INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, task.UserID, task.Title, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return err
	}

	task.ID, err = res.LastInsertId()
	return err
}

// Get retrieves a task by id for its owner, returning nil if absent or owned by someone else
func (s *TaskStore) Get(id, userID int64) (*models.Task, error) {
	task, err := scanTask(s.db.QueryRow(`
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = ? AND user_id = ?
	`, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return task, err
}

// List returns an owner's tasks in insertion order, narrowed by filter
func (s *TaskStore) List(userID int64, filter models.TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []interface{}{userID}

	switch filter {
	case models.FilterPending:
		query += ` AND completed = ?`
		args = append(args, false)
	case models.FilterCompleted:
		query += ` AND completed = ?`
		args = append(args, true)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

// FindByTitle returns the owner's first task (lowest id) whose title contains
// fragment under Unicode case folding. The fragment is matched literally.
// Returns nil when nothing matches.
func (s *TaskStore) FindByTitle(userID int64, fragment string) (*models.Task, error) {
	tasks, err := s.List(userID, models.FilterAll)
	if err != nil {
		return nil, err
	}

	needle := titleFold.String(fragment)
	for i := range tasks {
		if strings.Contains(titleFold.String(tasks[i].Title), needle) {
			return &tasks[i], nil
		}
	}
	return nil, nil
}

// Update writes title, description, and completion for a task the owner holds
func (s *TaskStore) Update(task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()

	res, err := s.db.Exec(`
		UPDATE tasks
		SET title = ?, description = ?, completed = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, task.Title, task.Description, task.Completed, task.UpdatedAt, task.ID, task.UserID)
	if err != nil {
		return err
	}
	return requireOneRow(res, "task", task.ID)
}

// Delete removes a task the owner holds
func (s *TaskStore) Delete(id, userID int64) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireOneRow(res, "task", id)
}

func requireOneRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, models.ErrNotFound)
	}
	return nil
}
