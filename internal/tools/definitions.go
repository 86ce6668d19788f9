// ABOUTME: Tool definitions shared by the MCP server and the chat model
// ABOUTME: Names, descriptions, and JSON-schema inputs for the five task tools
package tools

// Tool names
const (
	AddTask      = "add_task"
	ListTasks    = "list_tasks"
	CompleteTask = "complete_task"
	DeleteTask   = "delete_task"
	UpdateTask   = "update_task"
)

// Definition describes one tool's contract
type Definition struct {
	Name        string
	Description string
	Properties  map[string]interface{}
	Required    []string
}

// Schema renders the definition's input as a JSON-schema object
func (d Definition) Schema() map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": d.Properties,
	}
	if len(d.Required) > 0 {
		schema["required"] = d.Required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func idProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

var userIDProp = stringProp("Caller handle: a positive numeric user id or a guest handle such as guest_1770449315065")

// Definitions returns every tool in registration order
func Definitions() []Definition {
	return []Definition{
		{
			Name:        AddTask,
			Description: "Create a new task on the user's to-do list.",
			Properties: map[string]interface{}{
				"user_id":     userIDProp,
				"title":       stringProp("Short title of the task"),
				"description": stringProp("Optional longer description"),
			},
			Required: []string{"user_id", "title"},
		},
		{
			Name:        ListTasks,
			Description: "List the user's tasks, optionally only pending or completed ones.",
			Properties: map[string]interface{}{
				"user_id": userIDProp,
				"status": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"all", "pending", "completed"},
					"description": "Which tasks to return (default: all)",
					"default":     "all",
				},
			},
			Required: []string{"user_id"},
		},
		{
			Name:        CompleteTask,
			Description: "Mark one of the user's tasks as completed.",
			Properties: map[string]interface{}{
				"user_id": userIDProp,
				"task_id": idProp("ID of the task to complete"),
			},
			Required: []string{"user_id", "task_id"},
		},
		{
			Name:        DeleteTask,
			Description: "Delete a task by ID, or by a case-insensitive fragment of its title when no ID is known.",
			Properties: map[string]interface{}{
				"user_id": userIDProp,
				"task_id": idProp("ID of the task to delete; takes precedence over title"),
				"title":   stringProp("Part of the title of the task to delete"),
			},
			Required: []string{"user_id"},
		},
		{
			Name:        UpdateTask,
			Description: "Change a task's title or description. Locate it by ID, or by a fragment of its current title.",
			Properties: map[string]interface{}{
				"user_id":         userIDProp,
				"task_id":         idProp("ID of the task to update; takes precedence over title_to_find"),
				"title_to_find":   stringProp("Part of the current title of the task to update"),
				"new_title":       stringProp("Replacement title"),
				"new_description": stringProp("Replacement description"),
			},
			Required: []string{"user_id"},
		},
	}
}
