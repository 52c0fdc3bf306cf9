package domain

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/easelworks/easel/internal/platform/id"
)

// Meta keys attached to tool results. invocation_id identifies one
// tool call; command_id is the envelope id when a canvas command was
// dispatched for it. trace_id is present when the call carries an
// active trace context.
const (
	MetaInvocationID = "invocation_id"
	MetaCommandID    = "command_id"
	MetaTraceID      = "trace_id"
)

// ToolCallMetadata carries correlation identifiers for MCP tool calls.
type ToolCallMetadata struct {
	InvocationID string
	CommandID    string
}

// ResourceUpdateNotifier notifies MCP clients about resource updates.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

// NewInvocationID generates an invocation identifier for a tool call.
func NewInvocationID() (string, error) {
	return id.NewID()
}

// CallToolResultWithMetadata builds a tool result with correlation metadata.
func CallToolResultWithMetadata(ctx context.Context, meta ToolCallMetadata) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Meta: map[string]any{
			MetaInvocationID: meta.InvocationID,
		},
	}
	if meta.CommandID != "" {
		result.Meta[MetaCommandID] = meta.CommandID
	}
	if ctx != nil {
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			result.Meta[MetaTraceID] = sc.TraceID().String()
		}
	}
	return result
}

// NotifyResourceUpdates sends resource update notifications for each URI provided.
func NotifyResourceUpdates(ctx context.Context, notify ResourceUpdateNotifier, uris ...string) {
	if notify == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for _, uri := range uris {
		if strings.TrimSpace(uri) == "" {
			continue
		}
		notify(ctx, uri)
	}
}
