// ABOUTME: Task Tool Dispatcher turning loose parameter bags into task-store mutations
// ABOUTME: Authorizes and resolves the caller before every tool runs
package tools

import (
	"fmt"
	"sort"

	"github.com/harper/todo-agent/internal/auth"
	"github.com/harper/todo-agent/internal/models"
)

// TaskStore is the slice of task persistence the dispatcher needs
type TaskStore interface {
	Create(task *models.Task) error
	Get(id, userID int64) (*models.Task, error)
	List(userID int64, filter models.TaskFilter) ([]models.Task, error)
	FindByTitle(userID int64, fragment string) (*models.Task, error)
	Update(task *models.Task) error
	Delete(id, userID int64) error
}

// Resolver maps caller handles to user ids
type Resolver interface {
	Lookup(handle string) (int64, error)
	Ensure(handle string) (int64, error)
}

// HandlerFunc implements one tool
type HandlerFunc func(params Params) (Result, error)

// Dispatcher routes named tool calls to their implementations
type Dispatcher struct {
	tasks    TaskStore
	resolver Resolver
	handlers map[string]HandlerFunc
}

// NewDispatcher creates a Dispatcher with the five task tools registered
func NewDispatcher(tasks TaskStore, resolver Resolver) *Dispatcher {
	d := &Dispatcher{tasks: tasks, resolver: resolver}
	d.handlers = map[string]HandlerFunc{
		AddTask:      d.AddTask,
		ListTasks:    d.ListTasks,
		CompleteTask: d.CompleteTask,
		DeleteTask:   d.DeleteTask,
		UpdateTask:   d.UpdateTask,
	}
	return d
}

// Call invokes the named tool. Each call is all-or-nothing.
func (d *Dispatcher) Call(name string, params Params) (Result, error) {
	handler, ok := d.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownTool, name)
	}
	if params == nil {
		params = Params{}
	}
	return handler(params)
}

// Names lists the registered tools alphabetically
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// caller authorizes the user_id handle and resolves it. provision selects the
// creating path, used by tools that write new rows.
func (d *Dispatcher) caller(params Params, provision bool) (int64, error) {
	handle := params.Handle()
	if !auth.Authorize(handle) {
		return 0, fmt.Errorf("%w: invalid user %q", models.ErrUnauthorized, handle)
	}
	if provision {
		return d.resolver.Ensure(handle)
	}
	return d.resolver.Lookup(handle)
}

// AddTask creates a pending task owned by the caller
func (d *Dispatcher) AddTask(params Params) (Result, error) {
	userID, err := d.caller(params, true)
	if err != nil {
		return nil, err
	}

	title, ok := params.String("title")
	if !ok {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidFormat)
	}
	description, _ := params.String("description")

	task := &models.Task{UserID: userID, Title: title, Description: description}
	if err := d.tasks.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return Result{
		"task_id":     task.ID,
		"status":      "created",
		"title":       task.Title,
		"description": task.Description,
		"completed":   task.Completed,
	}, nil
}

// ListTasks returns the caller's tasks filtered by status
func (d *Dispatcher) ListTasks(params Params) (Result, error) {
	userID, err := d.caller(params, false)
	if err != nil {
		return nil, err
	}

	status, _ := params.String("status")
	filter, err := models.ParseTaskFilter(status)
	if err != nil {
		return nil, err
	}

	tasks, err := d.tasks.List(userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	items := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, map[string]any{
			"id":          task.ID,
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
			"user_id":     task.UserID,
		})
	}

	return Result{
		"status": string(filter),
		"count":  len(items),
		"tasks":  items,
	}, nil
}

// CompleteTask marks the caller's task as completed
func (d *Dispatcher) CompleteTask(params Params) (Result, error) {
	userID, err := d.caller(params, false)
	if err != nil {
		return nil, err
	}

	taskID, ok, err := params.Int("task_id")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: task_id is required", models.ErrMissingIdentifier)
	}

	task, err := d.tasks.Get(taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task %d for user %s", models.ErrNotFound, taskID, params.Handle())
	}

	task.Completed = true
	if err := d.tasks.Update(task); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	return Result{
		"task_id": task.ID,
		"status":  "completed",
		"title":   task.Title,
	}, nil
}

// DeleteTask removes the caller's task, located by id or title fragment
func (d *Dispatcher) DeleteTask(params Params) (Result, error) {
	userID, err := d.caller(params, false)
	if err != nil {
		return nil, err
	}

	task, err := d.locate(userID, params, deleteLocatorKeys)
	if err != nil {
		return nil, err
	}

	if err := d.tasks.Delete(task.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return Result{
		"task_id": task.ID,
		"title":   task.Title,
		"status":  "deleted",
	}, nil
}

// UpdateTask changes the title and/or description of the caller's task.
// Fields that are not supplied keep their current values.
func (d *Dispatcher) UpdateTask(params Params) (Result, error) {
	userID, err := d.caller(params, false)
	if err != nil {
		return nil, err
	}

	task, err := d.locate(userID, params, updateLocatorKeys)
	if err != nil {
		return nil, err
	}

	if title, ok := params.First(newTitleKeys); ok {
		task.Title = title
	}
	if description, ok := params.First(newDescriptionKeys); ok {
		task.Description = description
	}

	if err := d.tasks.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return Result{
		"task_id":     task.ID,
		"status":      "updated",
		"title":       task.Title,
		"description": task.Description,
	}, nil
}

// locate finds the target task by task_id when present, otherwise by the first
// title alias in locatorKeys. Title aliases are ignored whenever task_id is given.
func (d *Dispatcher) locate(userID int64, params Params, locatorKeys []string) (*models.Task, error) {
	taskID, hasID, err := params.Int("task_id")
	if err != nil {
		return nil, err
	}

	if hasID {
		task, err := d.tasks.Get(taskID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load task: %w", err)
		}
		if task == nil {
			return nil, fmt.Errorf("%w: task %d for user %s", models.ErrNotFound, taskID, params.Handle())
		}
		return task, nil
	}

	title, ok := params.First(locatorKeys)
	if !ok {
		return nil, fmt.Errorf("%w: provide task_id or a title", models.ErrMissingIdentifier)
	}

	task, err := d.tasks.FindByTitle(userID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: task with title %q for user %s", models.ErrNotFound, title, params.Handle())
	}
	return task, nil
}
