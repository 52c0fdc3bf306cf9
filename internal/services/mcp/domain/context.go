package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Context represents the current MCP context: the relay channel the
// bridge is joined to and the active session, when one is selected.
type Context struct {
	Channel   string
	SessionID string
}

// ChannelJoiner connects the command bridge to a relay channel. The
// bridge client is the production implementation.
type ChannelJoiner interface {
	Connect(ctx context.Context, channel string) error
	Channel() string
}

// JoinChannelInput represents the MCP tool input for joining a channel.
type JoinChannelInput struct {
	Channel string `json:"channel" jsonschema:"relay channel shared with the canvas plugin (required)"`
}

// JoinChannelResult represents the MCP tool output for joining a channel.
type JoinChannelResult struct {
	Channel string `json:"channel" jsonschema:"joined relay channel"`
}

// JoinChannelTool defines the MCP tool schema for joining a channel.
func JoinChannelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "join_channel",
		Description: "Joins a relay channel so canvas commands reach the plugin listening on it. Rejoining switches channels; in-flight commands on the old channel fail.",
	}
}

// JoinChannelHandler executes a channel join request.
func JoinChannelHandler(
	joiner ChannelJoiner,
	setContextFunc func(ctx Context),
	getContextFunc func() Context,
	notify ResourceUpdateNotifier,
) mcp.ToolHandlerFor[JoinChannelInput, JoinChannelResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input JoinChannelInput) (*mcp.CallToolResult, JoinChannelResult, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, JoinChannelResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		channel := strings.TrimSpace(input.Channel)
		if channel == "" {
			return nil, JoinChannelResult{}, fmt.Errorf("channel is required")
		}
		if joiner == nil {
			return nil, JoinChannelResult{}, fmt.Errorf("no bridge is configured")
		}

		if err := joiner.Connect(ctx, channel); err != nil {
			return nil, JoinChannelResult{}, fmt.Errorf("join channel: %w", err)
		}

		// The session selection survives a channel switch.
		current := getContextFunc()
		setContextFunc(Context{Channel: channel, SessionID: current.SessionID})

		NotifyResourceUpdates(ctx, notify, ContextResource().URI)

		return CallToolResultWithMetadata(ctx, ToolCallMetadata{InvocationID: invocationID}), JoinChannelResult{Channel: channel}, nil
	}
}

// ContextResourcePayload represents the MCP resource payload for the
// current context.
type ContextResourcePayload struct {
	Context struct {
		Channel   *string `json:"channel"`
		SessionID *string `json:"session_id"`
	} `json:"context"`
}

// ContextResource defines the MCP resource for the current context.
func ContextResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "context_current",
		Title:       "Current Context",
		Description: "Readable current MCP context (channel, session_id)",
		MIMEType:    "application/json",
		URI:         "canvas://context",
	}
}

// ContextResourceHandler returns a readable current context resource.
func ContextResourceHandler(getContextFunc func() Context) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if getContextFunc == nil {
			return nil, fmt.Errorf("context getter function is not configured")
		}

		uri := ContextResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		if uri != ContextResource().URI {
			return nil, fmt.Errorf("invalid URI: expected %s, got %q", ContextResource().URI, uri)
		}

		currentCtx := getContextFunc()

		// Unset fields render as null rather than empty strings.
		payload := ContextResourcePayload{}
		if currentCtx.Channel != "" {
			payload.Context.Channel = &currentCtx.Channel
		}
		if currentCtx.SessionID != "" {
			payload.Context.SessionID = &currentCtx.SessionID
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal context: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
