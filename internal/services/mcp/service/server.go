package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/easelworks/easel/internal/bridge"
	"github.com/easelworks/easel/internal/catalog"
	"github.com/easelworks/easel/internal/platform/branding"
	"github.com/easelworks/easel/internal/services/mcp/domain"
	"github.com/easelworks/easel/internal/session"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

// TransportKind identifies the MCP transport implementation.
type TransportKind string

// TransportStdio uses standard input/output for MCP.
const TransportStdio TransportKind = "stdio"

// Config configures the MCP server.
type Config struct {
	// RelayURL is the relay's HTTP base URL, e.g. "http://localhost:3055".
	RelayURL string
	// Channel is joined at startup when non-empty. join_channel can
	// switch channels at any time.
	Channel string
	// SessionDir is the directory holding session records.
	SessionDir string
	// ReplyTimeout bounds the wait for a canvas reply per command.
	// Zero means the shared default.
	ReplyTimeout time.Duration
	Transport    TransportKind
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	registry  *catalog.Registry
	bridge    *bridge.Client
	store     *session.Store
	ctx       domain.Context
	ctxMu     sync.RWMutex
}

// New creates a configured MCP server backed by the operation catalog,
// a relay bridge client and a file session store.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.SessionDir) == "" {
		return nil, fmt.Errorf("session directory is required")
	}
	store, err := session.New(cfg.SessionDir)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	client := bridge.New(bridge.Config{RelayURL: cfg.RelayURL, ReplyTimeout: cfg.ReplyTimeout})
	return newServer(catalog.New(), client, store)
}

// newServer creates MCP tool/resource handler bindings once and keeps
// shared context for protocol state updates.
func newServer(registry *catalog.Registry, client *bridge.Client, store *session.Store) (*Server, error) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		CompletionHandler:  completionHandler,
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})

	server := &Server{mcpServer: mcpServer, registry: registry, bridge: client, store: store}
	resourceNotifier := func(ctx context.Context, uri string) {
		if strings.TrimSpace(uri) == "" {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}
		if err := mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
		}
	}

	for _, module := range newMCPRegistrationModules(server, resourceNotifier) {
		if err := module.register(mcpServerRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}

	return server, nil
}
