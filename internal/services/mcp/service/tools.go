package service

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/easelworks/easel/internal/catalog"
	"github.com/easelworks/easel/internal/services/mcp/domain"
	"github.com/easelworks/easel/internal/session"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

// registerCanvasTools registers one MCP tool per catalog operation. Each
// tool carries the schema rendered from its parameter contract and routes
// through the shared validate/build/dispatch pipeline.
func registerCanvasTools(registrar mcpRegistrationTarget, registry *catalog.Registry, sender domain.CommandSender) error {
	for _, def := range registry.Definitions() {
		if err := registerTool(registrar, domain.CanvasTool(def), domain.CanvasToolHandler(registry, sender, def.Name)); err != nil {
			return err
		}
	}
	return nil
}

func registerSessionTools(
	registrar mcpRegistrationTarget,
	store *session.Store,
	server *Server,
	notify domain.ResourceUpdateNotifier,
) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.SessionCreateTool(), handler: domain.SessionCreateHandler(store, server.setContext, server.getContext, notify)},
		{tool: domain.SessionSaveTool(), handler: domain.SessionSaveHandler(store, server.getContext, notify)},
		{tool: domain.SessionLoadTool(), handler: domain.SessionLoadHandler(store, server.setContext, server.getContext, notify)},
		{tool: domain.SessionAppendMessageTool(), handler: domain.SessionAppendMessageHandler(store, server.getContext, notify)},
		{tool: domain.SessionListTool(), handler: domain.SessionListHandler(store)},
		{tool: domain.SessionDeleteTool(), handler: domain.SessionDeleteHandler(store, server.setContext, server.getContext, notify)},
		{tool: domain.SessionCleanupTool(), handler: domain.SessionCleanupHandler(store, server.setContext, server.getContext, notify)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

// registerContextTools registers context management tools.
func registerContextTools(
	registrar mcpRegistrationTarget,
	joiner domain.ChannelJoiner,
	server *Server,
	notify domain.ResourceUpdateNotifier,
) error {
	return registerTool(registrar, domain.JoinChannelTool(), domain.JoinChannelHandler(
		joiner,
		server.setContext,
		server.getContext,
		notify,
	))
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

// registerSessionResources registers readable session MCP resources.
func registerSessionResources(registrar mcpRegistrationTarget, store *session.Store) {
	registrar.AddResource(domain.SessionsResource(), domain.SessionsResourceHandler(store))
	registrar.AddResourceTemplate(domain.SessionRecordResourceTemplate(), domain.SessionRecordResourceHandler(store))
}

// registerContextResources registers readable context MCP resources.
func registerContextResources(registrar mcpRegistrationTarget, server *Server) {
	registrar.AddResource(domain.ContextResource(), domain.ContextResourceHandler(server.getContext))
}
