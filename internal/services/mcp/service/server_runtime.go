package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/easelworks/easel/internal/platform/timeouts"
	"github.com/easelworks/easel/internal/services/mcp/domain"
)

// completionHandler handles completion/complete requests with empty
// results. Canvas operation arguments have no completion source yet.
func completionHandler(ctx context.Context, req *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	return &mcp.CompleteResult{
		Completion: mcp.CompletionResultDetails{
			Values: []string{},
		},
	}, nil
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Run is the service entrypoint for MCP and blocks until context
// cancellation.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithTransport creates a server and serves it over the provided
// transport.
func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	server.joinInitialChannel(ctx, cfg.Channel)
	return server.serveWithTransport(ctx, transport)
}

// joinInitialChannel attempts the configured channel join at startup. A
// failed join leaves the server running disconnected; join_channel can
// establish the bridge once the canvas plugin is online.
func (s *Server) joinInitialChannel(ctx context.Context, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	joinCtx, cancel := context.WithTimeout(ctx, timeouts.RelayDial+timeouts.RelayJoin)
	defer cancel()
	if err := s.bridge.Connect(joinCtx, channel); err != nil {
		log.Printf("initial channel join failed: channel=%s err=%v", channel, err)
		return
	}
	s.setContext(domain.Context{Channel: channel})
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Close releases the bridge connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.bridge == nil {
		return nil
	}
	return s.bridge.Close()
}

// setContext updates the server's context state.
func (s *Server) setContext(ctx domain.Context) {
	if s == nil {
		return
	}
	s.ctxMu.Lock()
	defer s.ctxMu.Unlock()
	s.ctx = ctx
}

// getContext returns the server's current context state.
func (s *Server) getContext() domain.Context {
	if s == nil {
		return domain.Context{}
	}
	s.ctxMu.RLock()
	defer s.ctxMu.RUnlock()
	return s.ctx
}

// serveWithTransport starts the MCP server using the provided transport.
// The server and its bridge connection share a single exit path so
// cleanup behavior is the same for every run mode.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close bridge: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close bridge: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
