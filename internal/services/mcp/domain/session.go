package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/easelworks/easel/internal/session"
)

// SessionCreateInput represents the MCP tool input for creating a session.
type SessionCreateInput struct{}

// SessionCreateResult represents the MCP tool output for creating a session.
type SessionCreateResult struct {
	SessionID string `json:"session_id" jsonschema:"identifier of the new session"`
	CreatedAt string `json:"created_at" jsonschema:"RFC3339 timestamp when the session was created"`
}

// SessionCreateTool defines the MCP tool schema for creating a session.
func SessionCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_create",
		Description: "Creates a session with empty design state and history and makes it the active session",
	}
}

// SessionCreateHandler executes a session create request.
func SessionCreateHandler(
	store *session.Store,
	setContextFunc func(ctx Context),
	getContextFunc func() Context,
	notify ResourceUpdateNotifier,
) mcp.ToolHandlerFor[SessionCreateInput, SessionCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SessionCreateInput) (*mcp.CallToolResult, SessionCreateResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, SessionCreateResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		sessionID, err := store.Create()
		if err != nil {
			return nil, SessionCreateResult{}, fmt.Errorf("create session: %w", err)
		}
		rec, err := store.Load(sessionID)
		if err != nil {
			return nil, SessionCreateResult{}, fmt.Errorf("load created session: %w", err)
		}

		current := getContextFunc()
		setContextFunc(Context{Channel: current.Channel, SessionID: sessionID})

		NotifyResourceUpdates(ctx, notify, SessionsResource().URI, ContextResource().URI)

		result := SessionCreateResult{
			SessionID: sessionID,
			CreatedAt: rec.Timestamp.Format(time.RFC3339),
		}
		return CallToolResultWithMetadata(ctx, ToolCallMetadata{InvocationID: invocationID}), result, nil
	}
}

// SessionSaveInput represents the MCP tool input for saving design state.
type SessionSaveInput struct {
	SessionID   string         `json:"session_id,omitempty" jsonschema:"session to save; defaults to the active session"`
	DesignState map[string]any `json:"design_state" jsonschema:"orchestrator view of the canvas document, stored verbatim"`
}

// SessionSaveResult represents the MCP tool output for saving design state.
type SessionSaveResult struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
	SavedAt   string `json:"saved_at" jsonschema:"RFC3339 timestamp of the write"`
}

// SessionSaveTool defines the MCP tool schema for saving design state.
// The input schema is declared literally because design_state is a
// free-form document, not a struct.
func SessionSaveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_save",
		Description: "Replaces the stored design state of a session; conversation history is untouched",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"session_id": {
					Type:        "string",
					Description: "session to save; defaults to the active session",
				},
				"design_state": {
					Type:        "object",
					Description: "orchestrator view of the canvas document, stored verbatim",
				},
			},
			Required: []string{"design_state"},
		},
	}
}

// SessionSaveHandler executes a session save request.
func SessionSaveHandler(
	store *session.Store,
	getContextFunc func() Context,
	notify ResourceUpdateNotifier,
) mcp.ToolHandlerFor[SessionSaveInput, SessionSaveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionSaveInput) (*mcp.CallToolResult, SessionSaveResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, SessionSaveResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		sessionID, err := resolveSessionID(input.SessionID, getContextFunc)
		if err != nil {
			return nil, SessionSaveResult{}, err
		}

		state, err := designStateFromMap(input.DesignState)
		if err != nil {
			return nil, SessionSaveResult{}, fmt.Errorf("decode design_state: %w", err)
		}

		rec, err := store.Load(sessionID)
		if err != nil {
			return nil, SessionSaveResult{}, sessionLoadError(sessionID, err)
		}
		rec.DesignState = state
		rec.Timestamp = time.Now().UTC()
		if err := store.Save(sessionID, rec); err != nil {
			return nil, SessionSaveResult{}, fmt.Errorf("save session: %w", err)
		}

		NotifyResourceUpdates(ctx, notify, SessionsResource().URI, sessionRecordURI(sessionID))

		result := SessionSaveResult{
			SessionID: sessionID,
			SavedAt:   rec.Timestamp.Format(time.RFC3339),
		}
		return CallToolResultWithMetadata(ctx, ToolCallMetadata{InvocationID: invocationID}), result, nil
	}
}

// SessionLoadInput represents the MCP tool input for loading a session.
type SessionLoadInput struct {
	SessionID string `json:"session_id" jsonschema:"session to load (required)"`
}

// SessionMessagePayload represents one conversation history entry.
type SessionMessagePayload struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Timestamp string          `json:"timestamp"`
	Actions   json.RawMessage `json:"actions,omitempty"`
}

// SessionLoadResult represents the MCP tool output for loading a session.
type SessionLoadResult struct {
	SessionID    string                  `json:"session_id" jsonschema:"session identifier"`
	Timestamp    string                  `json:"timestamp" jsonschema:"RFC3339 timestamp of the last write"`
	DesignState  map[string]any          `json:"design_state" jsonschema:"stored orchestrator view of the canvas document"`
	Messages     []SessionMessagePayload `json:"messages" jsonschema:"conversation history, oldest first"`
	MessageCount int                     `json:"message_count" jsonschema:"number of messages in the history"`
}

// SessionLoadTool defines the MCP tool schema for loading a session.
// The output schema is declared literally because the stored design
// state is a free-form document, not a struct.
func SessionLoadTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_load",
		Description: "Loads a stored session and makes it the active session",
		OutputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"session_id": {Type: "string", Description: "session identifier"},
				"timestamp":  {Type: "string", Description: "RFC3339 timestamp of the last write"},
				"design_state": {
					Type:        "object",
					Description: "stored orchestrator view of the canvas document",
				},
				"messages": {
					Type:        "array",
					Description: "conversation history, oldest first",
					Items: &jsonschema.Schema{
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"role":      {Type: "string"},
							"content":   {Type: "string"},
							"timestamp": {Type: "string"},
						},
					},
				},
				"message_count": {Type: "integer", Description: "number of messages in the history"},
			},
			Required: []string{"session_id", "timestamp"},
		},
	}
}

// SessionLoadHandler executes a session load request.
func SessionLoadHandler(
	store *session.Store,
	setContextFunc func(ctx Context),
	getContextFunc func() Context,
	notify ResourceUpdateNotifier,
) mcp.ToolHandlerFor[SessionLoadInput, SessionLoadResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionLoadInput) (*mcp.CallToolResult, SessionLoadResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, SessionLoadResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		sessionID := strings.TrimSpace(input.SessionID)
		if sessionID == "" {
			return nil, SessionLoadResult{}, fmt.Errorf("session_id is required")
		}

		rec, err := store.Load(sessionID)
		if err != nil {
			return nil, SessionLoadResult{}, sessionLoadError(sessionID, err)
		}

		current := getContextFunc()
		setContextFunc(Context{Channel: current.Channel, SessionID: sessionID})

		NotifyResourceUpdates(ctx, notify, ContextResource().URI)

		return CallToolResultWithMetadata(ctx, ToolCallMetadata{InvocationID: invocationID}), renderSessionRecord(rec), nil
	}
}

// SessionAppendMessageInput represents the MCP tool input for appending
// a conversation message.
type SessionAppendMessageInput struct {
	SessionID string           `json:"session_id,omitempty" jsonschema:"session to append to; defaults to the active session"`
	Role      string           `json:"role" jsonschema:"author of the message (user, assistant)"`
	Content   string           `json:"content" jsonschema:"message text"`
	Actions   []map[string]any `json:"actions,omitempty" jsonschema:"canvas operations taken for this turn"`
}

// SessionAppendMessageResult represents the MCP tool output for
// appending a conversation message.
type SessionAppendMessageResult struct {
	SessionID    string `json:"session_id" jsonschema:"session identifier"`
	MessageCount int    `json:"message_count" jsonschema:"history length after the append and trim"`
}

// SessionAppendMessageTool defines the MCP tool schema for appending a
// conversation message. The input schema is declared literally because
// actions are free-form operation records, not structs.
func SessionAppendMessageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_append_message",
		Description: "Appends a conversation message to a session; the history keeps only the most recent entries",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"session_id": {
					Type:        "string",
					Description: "session to append to; defaults to the active session",
				},
				"role": {
					Type:        "string",
					Description: "author of the message",
					Enum:        []any{session.RoleUser, session.RoleAssistant},
				},
				"content": {
					Type:        "string",
					Description: "message text",
				},
				"actions": {
					Type:        "array",
					Description: "canvas operations taken for this turn",
					Items:       &jsonschema.Schema{Type: "object"},
				},
			},
			Required: []string{"role", "content"},
		},
	}
}

// SessionAppendMessageHandler executes a message append request.
func SessionAppendMessageHandler(
	store *session.Store,
	getContextFunc func() Context,
	notify ResourceUpdateNotifier,
) mcp.ToolHandlerFor[SessionAppendMessageInput, SessionAppendMessageResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionAppendMessageInput) (*mcp.CallToolResult, SessionAppendMessageResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, SessionAppendMessageResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		sessionID, err := resolveSessionID(input.SessionID, getContextFunc)
		if err != nil {
			return nil, SessionAppendMessageResult{}, err
		}

		msg := session.Message{
			Role:    input.Role,
			Content: input.Content,
		}
		if len(input.Actions) > 0 {
			actions, err := json.Marshal(input.Actions)
			if err != nil {
				return nil, SessionAppendMessageResult{}, fmt.Errorf("encode actions: %w", err)
			}
			msg.Actions = actions
		}

		if err := store.AppendMessage(sessionID, msg); err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return nil, SessionAppendMessageResult{}, fmt.Errorf("session %q not found", sessionID)
			}
			return nil, SessionAppendMessageResult{}, fmt.Errorf("append message: %w", err)
		}

		rec, err := store.Load(sessionID)
		if err != nil {
			return nil, SessionAppendMessageResult{}, sessionLoadError(sessionID, err)
		}

		NotifyResourceUpdates(ctx, notify, SessionsResource().URI, sessionRecordURI(sessionID))

		result := SessionAppendMessageResult{
			SessionID:    sessionID,
			MessageCount: len(rec.ConversationHistory),
		}
		return CallToolResultWithMetadata(ctx, ToolCallMetadata{InvocationID: invocationID}), result, nil
	}
}

// SessionListInput represents the MCP tool input for listing sessions.
type SessionListInput struct{}

// SessionSummary represents one stored session in a listing.
type SessionSummary struct {
	SessionID    string `json:"session_id" jsonschema:"session identifier"`
	Timestamp    string `json:"timestamp" jsonschema:"RFC3339 timestamp of the last write"`
	MessageCount int    `json:"message_count" jsonschema:"number of messages in the history"`
	FrameCount   int    `json:"frame_count" jsonschema:"number of top level frames in the stored design state"`
	NodeCount    int    `json:"node_count" jsonschema:"number of nodes in the stored design state"`
}

// SessionListResult represents the MCP tool output for listing sessions.
type SessionListResult struct {
	Sessions []SessionSummary `json:"sessions" jsonschema:"stored sessions, newest first"`
	Count    int              `json:"count" jsonschema:"number of stored sessions"`
}

// SessionListTool defines the MCP tool schema for listing sessions.
func SessionListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_list",
		Description: "Lists stored sessions, newest first",
	}
}

// SessionListHandler executes a session list request.
func SessionListHandler(store *session.Store) mcp.ToolHandlerFor[SessionListInput, SessionListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SessionListInput) (*mcp.CallToolResult, SessionListResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, SessionListResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		records, err := store.List()
		if err != nil {
			return nil, SessionListResult{}, fmt.Errorf("list sessions: %w", err)
		}

		result := SessionListResult{Sessions: make([]SessionSummary, 0, len(records)), Count: len(records)}
		for i := range records {
			result.Sessions = append(result.Sessions, summarizeSession(&records[i]))
		}
		return CallToolResultWithMetadata(ctx, ToolCallMetadata{InvocationID: invocationID}), result, nil
	}
}

// SessionDeleteInput represents the MCP tool input for deleting a session.
type SessionDeleteInput struct {
	SessionID string `json:"session_id" jsonschema:"session to delete (required)"`
}

// SessionDeleteResult represents the MCP tool output for deleting a session.
type SessionDeleteResult struct {
	SessionID string `json:"session_id" jsonschema:"identifier of the deleted session"`
}

// SessionDeleteTool defines the MCP tool schema for deleting a session.
func SessionDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_delete",
		Description: "Deletes a stored session; deleting the active session clears the session selection",
	}
}

// SessionDeleteHandler executes a session delete request.
func SessionDeleteHandler(
	store *session.Store,
	setContextFunc func(ctx Context),
	getContextFunc func() Context,
	notify ResourceUpdateNotifier,
) mcp.ToolHandlerFor[SessionDeleteInput, SessionDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionDeleteInput) (*mcp.CallToolResult, SessionDeleteResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, SessionDeleteResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		sessionID := strings.TrimSpace(input.SessionID)
		if sessionID == "" {
			return nil, SessionDeleteResult{}, fmt.Errorf("session_id is required")
		}

		if err := store.Delete(sessionID); err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return nil, SessionDeleteResult{}, fmt.Errorf("session %q not found", sessionID)
			}
			return nil, SessionDeleteResult{}, fmt.Errorf("delete session: %w", err)
		}

		uris := []string{SessionsResource().URI}
		current := getContextFunc()
		if current.SessionID == sessionID {
			setContextFunc(Context{Channel: current.Channel})
			uris = append(uris, ContextResource().URI)
		}
		NotifyResourceUpdates(ctx, notify, uris...)

		return CallToolResultWithMetadata(ctx, ToolCallMetadata{InvocationID: invocationID}), SessionDeleteResult{SessionID: sessionID}, nil
	}
}

// SessionCleanupInput represents the MCP tool input for cleaning up old
// sessions.
type SessionCleanupInput struct {
	OlderThanDays *int `json:"older_than_days,omitempty" jsonschema:"delete sessions last written more than this many days ago (default 7)"`
}

// SessionCleanupResult represents the MCP tool output for cleaning up
// old sessions.
type SessionCleanupResult struct {
	Removed       int `json:"removed" jsonschema:"number of sessions deleted"`
	OlderThanDays int `json:"older_than_days" jsonschema:"cutoff applied, in days"`
}

// SessionCleanupTool defines the MCP tool schema for cleaning up old
// sessions.
func SessionCleanupTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "session_cleanup",
		Description: "Deletes sessions whose last write is older than the cutoff (default 7 days)",
	}
}

// SessionCleanupHandler executes a session cleanup request.
func SessionCleanupHandler(
	store *session.Store,
	setContextFunc func(ctx Context),
	getContextFunc func() Context,
	notify ResourceUpdateNotifier,
) mcp.ToolHandlerFor[SessionCleanupInput, SessionCleanupResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SessionCleanupInput) (*mcp.CallToolResult, SessionCleanupResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, SessionCleanupResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		olderThanDays := 7
		if input.OlderThanDays != nil {
			olderThanDays = *input.OlderThanDays
		}
		if olderThanDays < 0 {
			return nil, SessionCleanupResult{}, fmt.Errorf("older_than_days must not be negative")
		}

		removed, err := store.Cleanup(olderThanDays)
		if err != nil {
			return nil, SessionCleanupResult{}, fmt.Errorf("cleanup sessions: %w", err)
		}

		uris := []string{SessionsResource().URI}
		current := getContextFunc()
		if current.SessionID != "" {
			// The active session may have been swept; clear a selection
			// that no longer resolves.
			if _, err := store.Load(current.SessionID); errors.Is(err, session.ErrNotFound) {
				setContextFunc(Context{Channel: current.Channel})
				uris = append(uris, ContextResource().URI)
			}
		}
		NotifyResourceUpdates(ctx, notify, uris...)

		result := SessionCleanupResult{Removed: removed, OlderThanDays: olderThanDays}
		return CallToolResultWithMetadata(ctx, ToolCallMetadata{InvocationID: invocationID}), result, nil
	}
}

// resolveSessionID picks the explicit session id when given, falling
// back to the active session from the context.
func resolveSessionID(input string, getContextFunc func() Context) (string, error) {
	sessionID := strings.TrimSpace(input)
	if sessionID != "" {
		return sessionID, nil
	}
	if getContextFunc != nil {
		if current := getContextFunc(); current.SessionID != "" {
			return current.SessionID, nil
		}
	}
	return "", fmt.Errorf("session_id is required when no session is active")
}

// sessionLoadError maps store load failures to tool errors.
func sessionLoadError(sessionID string, err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("session %q not found", sessionID)
	}
	if errors.Is(err, session.ErrInvalidID) {
		return fmt.Errorf("invalid session id %q", sessionID)
	}
	return fmt.Errorf("load session: %w", err)
}

// designStateFromMap decodes a free-form design_state argument into the
// stored shape. Absent or null collections become empty containers so
// the record never persists null where a reader expects a container.
func designStateFromMap(raw map[string]any) (session.DesignState, error) {
	state := session.NewDesignState()
	if len(raw) == 0 {
		return state, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, err
	}
	if state.Frames == nil {
		state.Frames = []any{}
	}
	if state.Nodes == nil {
		state.Nodes = map[string]any{}
	}
	if state.Styles == nil {
		state.Styles = map[string]any{}
	}
	if state.Metadata == nil {
		state.Metadata = map[string]any{}
	}
	return state, nil
}

// renderSessionRecord converts a stored record to the readable shape
// shared by the session_load tool and the session record resource.
func renderSessionRecord(rec *session.Record) SessionLoadResult {
	messages := make([]SessionMessagePayload, 0, len(rec.ConversationHistory))
	for _, msg := range rec.ConversationHistory {
		messages = append(messages, SessionMessagePayload{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp.Format(time.RFC3339),
			Actions:   msg.Actions,
		})
	}
	return SessionLoadResult{
		SessionID:    rec.SessionID,
		Timestamp:    rec.Timestamp.Format(time.RFC3339),
		DesignState:  designStateMap(rec.DesignState),
		Messages:     messages,
		MessageCount: len(messages),
	}
}

// designStateMap renders stored design state with every collection
// present, empty rather than null.
func designStateMap(state session.DesignState) map[string]any {
	frames := state.Frames
	if frames == nil {
		frames = []any{}
	}
	nodes := state.Nodes
	if nodes == nil {
		nodes = map[string]any{}
	}
	styles := state.Styles
	if styles == nil {
		styles = map[string]any{}
	}
	metadata := state.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"frames":   frames,
		"nodes":    nodes,
		"styles":   styles,
		"metadata": metadata,
	}
}

func summarizeSession(rec *session.Record) SessionSummary {
	return SessionSummary{
		SessionID:    rec.SessionID,
		Timestamp:    rec.Timestamp.Format(time.RFC3339),
		MessageCount: len(rec.ConversationHistory),
		FrameCount:   len(rec.DesignState.Frames),
		NodeCount:    len(rec.DesignState.Nodes),
	}
}
