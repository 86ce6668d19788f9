// ABOUTME: Loose parameter handling for model-issued tool calls
// ABOUTME: Ordered alias lists per semantic slot and scalar coercion helpers
package tools

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/harper/todo-agent/internal/models"
)

// Params is the caller-supplied argument bag of a tool call
type Params map[string]any

// Result is the structured outcome of a tool call
type Result map[string]any

// Alias lists are consulted in order; the first present, non-empty key wins.
var (
	deleteLocatorKeys  = []string{"title", "task_name", "name", "task_title"}
	updateLocatorKeys  = []string{"title_to_find", "task_name", "name", "task_title", "title"}
	newTitleKeys       = []string{"new_title", "title"}
	newDescriptionKeys = []string{"new_description", "description"}
)

// String returns the value under key rendered as a string, and whether it was
// present and non-empty
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}

	var s string
	switch val := v.(type) {
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		s = strconv.Itoa(val)
	case int64:
		s = strconv.FormatInt(val, 10)
	case bool:
		s = strconv.FormatBool(val)
	default:
		s = fmt.Sprint(val)
	}

	s = strings.TrimSpace(s)
	return s, s != ""
}

// First returns the first present, non-empty value among keys
func (p Params) First(keys []string) (string, bool) {
	for _, key := range keys {
		if s, ok := p.String(key); ok {
			return s, true
		}
	}
	return "", false
}

// Int returns the value under key as an integer. Absent keys report ok=false;
// present values that are not integral fail with ErrInvalidFormat.
func (p Params) Int(key string) (int64, bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, false, nil
	}

	switch val := v.(type) {
	case int:
		return int64(val), true, nil
	case int64:
		return val, true, nil
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) || math.IsNaN(val) {
			return 0, true, fmt.Errorf("%w: %s must be an integer, got %v", models.ErrInvalidFormat, key, val)
		}
		return int64(val), true, nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, true, fmt.Errorf("%w: %s must be an integer, got %q", models.ErrInvalidFormat, key, val)
		}
		return n, true, nil
	default:
		return 0, true, fmt.Errorf("%w: %s must be an integer, got %T", models.ErrInvalidFormat, key, v)
	}
}

// Handle returns the caller handle from user_id
func (p Params) Handle() string {
	s, _ := p.String("user_id")
	return s
}
