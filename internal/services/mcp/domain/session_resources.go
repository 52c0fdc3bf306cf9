package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/easelworks/easel/internal/session"
)

const (
	sessionsResourceURI     = "canvas://sessions"
	sessionRecordURIPrefix  = "canvas://sessions/"
	sessionRecordURIPattern = "canvas://sessions/{session_id}"
)

// sessionRecordURI builds the resource URI for one stored session.
func sessionRecordURI(sessionID string) string {
	return sessionRecordURIPrefix + sessionID
}

// parseSessionIDFromResourceURI extracts the session ID from a URI of
// the form canvas://sessions/{session_id}.
func parseSessionIDFromResourceURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, sessionRecordURIPrefix) {
		return "", fmt.Errorf("URI must start with %q", sessionRecordURIPrefix)
	}

	sessionID := strings.TrimSpace(strings.TrimPrefix(uri, sessionRecordURIPrefix))
	if sessionID == "" {
		return "", fmt.Errorf("session ID is required in URI")
	}
	if strings.Contains(sessionID, "/") {
		return "", fmt.Errorf("session ID must not contain %q", "/")
	}
	return sessionID, nil
}

// SessionListPayload represents the MCP resource payload for session
// listings.
type SessionListPayload struct {
	Sessions []SessionSummary `json:"sessions"`
	Count    int              `json:"count"`
}

// SessionsResource defines the MCP resource for the session listing.
func SessionsResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "sessions_list",
		Title:       "Stored Sessions",
		Description: "Readable listing of stored sessions, newest first",
		MIMEType:    "application/json",
		URI:         sessionsResourceURI,
	}
}

// SessionsResourceHandler returns a readable session listing resource.
func SessionsResourceHandler(store *session.Store) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if store == nil {
			return nil, fmt.Errorf("session store is not configured")
		}

		uri := sessionsResourceURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		if uri != sessionsResourceURI {
			return nil, fmt.Errorf("invalid URI: expected %s, got %q", sessionsResourceURI, uri)
		}

		records, err := store.List()
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}

		payload := SessionListPayload{Sessions: make([]SessionSummary, 0, len(records)), Count: len(records)}
		for i := range records {
			payload.Sessions = append(payload.Sessions, summarizeSession(&records[i]))
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal session listing: %w", err)
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

// SessionRecordPayload represents the MCP resource payload for one
// stored session.
type SessionRecordPayload struct {
	Session SessionLoadResult `json:"session"`
}

// SessionRecordResourceTemplate defines the MCP resource template for
// reading one stored session.
func SessionRecordResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "session_record",
		Title:       "Session Record",
		Description: "Readable stored session. URI format: canvas://sessions/{session_id}",
		MIMEType:    "application/json",
		URITemplate: sessionRecordURIPattern,
	}
}

// SessionRecordResourceHandler returns a readable stored session resource.
func SessionRecordResourceHandler(store *session.Store) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if store == nil {
			return nil, fmt.Errorf("session store is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("session ID is required; use URI format %s", sessionRecordURIPattern)
		}
		uri := req.Params.URI

		sessionID, err := parseSessionIDFromResourceURI(uri)
		if err != nil {
			return nil, fmt.Errorf("parse session ID from URI: %w", err)
		}

		rec, err := store.Load(sessionID)
		if err != nil {
			return nil, sessionLoadError(sessionID, err)
		}

		payload := SessionRecordPayload{Session: renderSessionRecord(rec)}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal session record: %w", err)
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
