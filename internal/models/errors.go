// ABOUTME: Sentinel errors shared by the identity, tool, and chat layers
// ABOUTME: Callers wrap these with context and test them with errors.Is
package models

import "errors"

var (
	// ErrInvalidFormat means a handle, id, or parameter could not be parsed
	ErrInvalidFormat = errors.New("invalid format")
	// ErrUnauthorized means the authorization gate rejected the caller handle
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means a task, guest user, or conversation lookup missed
	ErrNotFound = errors.New("not found")
	// ErrMissingIdentifier means neither a task id nor a title locator was supplied
	ErrMissingIdentifier = errors.New("missing task identifier")
	// ErrUnknownTool means a dispatch named a tool that is not registered
	ErrUnknownTool = errors.New("unknown tool")
)
