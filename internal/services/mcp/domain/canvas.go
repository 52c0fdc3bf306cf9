package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/easelworks/easel/internal/catalog"
	"github.com/easelworks/easel/internal/schema"
)

// CanvasTool defines the MCP tool for one catalog operation. The input
// schema is rendered from the operation's parameter contract, so the
// advertised shape and the validated shape cannot drift apart.
func CanvasTool(def catalog.Definition) *mcp.Tool {
	return &mcp.Tool{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: schema.ObjectSchema(def.Params),
	}
}

// CanvasToolHandler executes one catalog operation through the dispatch
// pipeline. The command.Result envelope is always the tool output, for
// failures as well as successes, with IsError marking failed calls. A
// Go error is returned only for faults in the handler itself.
func CanvasToolHandler(reg *catalog.Registry, sender CommandSender, name string) mcp.ToolHandlerFor[map[string]any, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, nil, fmt.Errorf("generate invocation id: %w", err)
		}

		result := Call(ctx, reg, sender, name, args)

		data, err := json.Marshal(result)
		if err != nil {
			return nil, nil, fmt.Errorf("encode result: %w", err)
		}

		res := CallToolResultWithMetadata(ctx, ToolCallMetadata{
			InvocationID: invocationID,
			CommandID:    result.ID,
		})
		res.Content = []mcp.Content{&mcp.TextContent{Text: string(data)}}
		res.StructuredContent = json.RawMessage(data)
		res.IsError = !result.Success
		return res, nil, nil
	}
}
