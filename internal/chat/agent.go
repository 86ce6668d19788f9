// ABOUTME: Chat loop driving the model through the task tools for one user turn
// ABOUTME: Persists the exchange and its tool calls, and reports tool failures back to the model
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/harper/todo-agent/internal/models"
	"github.com/harper/todo-agent/internal/tools"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultMaxRounds bounds model round-trips per user turn
	DefaultMaxRounds = 5

	// DefaultSystemPrompt frames the assistant as a task manager
	DefaultSystemPrompt = `You are a helpful to-do list assistant. Use the provided tools to add, list, complete, delete and update the user's tasks.
Always pass the user_id you are given. Prefer task ids from earlier tool results; fall back to a title fragment when no id is known.
Confirm what you did in one or two short sentences.`
)

// Completer produces the model's next message
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, specs []openai.Tool) (openai.ChatCompletionMessage, error)
}

// ToolCaller executes a named tool
type ToolCaller interface {
	Call(name string, params tools.Params) (tools.Result, error)
}

// AgentConfig tunes the chat loop
type AgentConfig struct {
	MaxRounds    int
	HistoryLimit int
	SystemPrompt string
}

// ToolCall records one tool invocation made during a turn
type ToolCall struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Arguments tools.Params `json:"arguments"`
	Result    tools.Result `json:"result,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// Reply is the outcome of one user turn
type Reply struct {
	ConversationID int64      `json:"conversation_id"`
	Response       string     `json:"response"`
	ToolCalls      []ToolCall `json:"tool_calls"`
}

// Agent runs user turns against the model
type Agent struct {
	service *Service
	tools   ToolCaller
	model   Completer
	specs   []openai.Tool
	config  AgentConfig
}

// NewAgent creates an Agent. specs are the tool schemas offered to the model.
func NewAgent(service *Service, caller ToolCaller, model Completer, specs []openai.Tool, config AgentConfig) *Agent {
	if config.MaxRounds <= 0 {
		config.MaxRounds = DefaultMaxRounds
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = DefaultHistoryLimit
	}
	if config.SystemPrompt == "" {
		config.SystemPrompt = DefaultSystemPrompt
	}
	return &Agent{service: service, tools: caller, model: model, specs: specs, config: config}
}

// Send runs one user turn. conversationID 0 starts a new conversation.
func (a *Agent) Send(ctx context.Context, handle string, conversationID int64, text string) (*Reply, error) {
	conv, err := a.service.GetOrCreateConversation(conversationID, handle)
	if err != nil {
		return nil, err
	}

	if _, err := a.service.AddMessage(conv.ID, handle, string(models.RoleUser), text); err != nil {
		return nil, err
	}

	history, err := a.service.GetRecentHistory(conv.ID, handle, a.config.HistoryLimit)
	if err != nil {
		return nil, err
	}

	messages := a.buildMessages(handle, history)
	reply := &Reply{ConversationID: conv.ID, ToolCalls: []ToolCall{}}

	for round := 0; round < a.config.MaxRounds; round++ {
		msg, err := a.model.Complete(ctx, messages, a.specs)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)

		if len(msg.ToolCalls) == 0 {
			reply.Response = msg.Content
			break
		}

		for i, tc := range msg.ToolCalls {
			if tc.ID == "" {
				tc.ID = "call_" + uuid.New().String()
				msg.ToolCalls[i].ID = tc.ID
			}
			call := a.runTool(handle, tc)
			reply.ToolCalls = append(reply.ToolCalls, call)
			if err := a.recordTool(conv.ID, handle, call); err != nil {
				return nil, err
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Function.Name,
				Content:    toolPayload(call),
			})
		}
	}

	if reply.Response == "" {
		reply.Response = "I wasn't able to finish that request. Please try rephrasing it."
	}

	if _, err := a.service.AddMessage(conv.ID, handle, string(models.RoleAssistant), reply.Response); err != nil {
		return nil, err
	}
	if err := a.service.UpdateConversationTimestamp(conv.ID); err != nil {
		return nil, err
	}

	return reply, nil
}

func (a *Agent) buildMessages(handle string, history []models.Message) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf("%s\nThe current user_id is %q.", a.config.SystemPrompt, handle),
	})

	for _, m := range history {
		switch m.Role {
		case models.RoleUser:
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Content})
		case models.RoleAssistant:
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Content})
		case models.RoleTool:
			messages = append(messages, replayTool(m)...)
		}
	}
	return messages
}

// recordTool persists a finished tool call so later turns can replay it
func (a *Agent) recordTool(conversationID int64, handle string, call ToolCall) error {
	data, err := json.Marshal(call)
	if err != nil {
		return fmt.Errorf("failed to encode tool call %s: %w", call.ID, err)
	}
	_, err = a.service.AddMessage(conversationID, handle, string(models.RoleTool), string(data))
	return err
}

// replayTool turns a persisted tool call back into the assistant request and
// tool response pair the model expects. Unreadable records are skipped.
func replayTool(m models.Message) []openai.ChatCompletionMessage {
	var call ToolCall
	if err := json.Unmarshal([]byte(m.Content), &call); err != nil || call.ID == "" || call.Name == "" {
		log.Printf("Skipping unreadable tool record %d", m.ID)
		return nil
	}

	args := []byte("{}")
	if len(call.Arguments) > 0 {
		if data, err := json.Marshal(call.Arguments); err == nil {
			args = data
		}
	}

	return []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{{
				ID:       call.ID,
				Type:     openai.ToolTypeFunction,
				Function: openai.FunctionCall{Name: call.Name, Arguments: string(args)},
			}},
		},
		{
			Role:       openai.ChatMessageRoleTool,
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    toolPayload(call),
		},
	}
}

// runTool executes a model-requested call as handle. The model cannot act for
// another user: user_id is always overwritten.
func (a *Agent) runTool(handle string, tc openai.ToolCall) ToolCall {
	call := ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tools.Params{}}

	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &call.Arguments); err != nil {
			call.Error = fmt.Sprintf("invalid arguments: %v", err)
			return call
		}
	}
	if call.Arguments == nil {
		call.Arguments = tools.Params{}
	}
	call.Arguments["user_id"] = handle

	result, err := a.tools.Call(call.Name, call.Arguments)
	if err != nil {
		log.Printf("Tool %s (%s) failed: %v", call.Name, call.ID, err)
		call.Error = err.Error()
		return call
	}
	call.Result = result
	return call
}

func toolPayload(call ToolCall) string {
	var payload any = call.Result
	if call.Error != "" {
		payload = map[string]string{"error": call.Error}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}
