// Package server hosts the relay websocket hub.
//
// The relay pairs the peers of a named channel: the controller (the
// MCP process driving a design) and the canvas plugin executing its
// commands. It forwards message payloads verbatim between them and
// never inspects command ids; correlation belongs entirely to the
// sender.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/easelworks/easel/internal/platform/timeouts"
)

const (
	maxFramePayloadBytes   = 8 * 1024 * 1024
	maxFramesPerSecond     = 120
	maxDecodeErrorsPerConn = 3
)

// Frame types of the relay protocol.
const (
	frameJoin       = "join"
	frameJoined     = "joined"
	frameMessage    = "message"
	framePeerJoined = "peer_joined"
	framePeerLeft   = "peer_left"
	frameError      = "error"
)

// Peer roles on a channel.
const (
	roleController = "controller"
	roleCanvas     = "canvas"
)

// Config defines the inputs for the relay transport boundary.
type Config struct {
	HTTPAddr          string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server hosts the relay HTTP/WebSocket process.
type Server struct {
	httpAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
}

type wsFrame struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel,omitempty"`
	Role    string          `json:"role,omitempty"`
	Peers   int             `json:"peers,omitempty"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
	role    string
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) writeFrame(frame wsFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

type channelHub struct {
	mu       sync.Mutex
	channels map[string]*relayChannel
}

func newChannelHub() *channelHub {
	return &channelHub{channels: make(map[string]*relayChannel)}
}

// join adds the peer to the named channel, creating it on first use.
// Membership changes go through the hub lock so a channel cannot be
// pruned while a peer is joining it.
func (h *channelHub) join(name string, peer *wsPeer) (*relayChannel, int, []*wsPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.channels[name]
	if !ok {
		ch = &relayChannel{name: name, peers: make(map[*wsPeer]struct{})}
		h.channels[name] = ch
	}

	ch.mu.Lock()
	ch.peers[peer] = struct{}{}
	count := len(ch.peers)
	others := ch.othersLocked(peer)
	ch.mu.Unlock()
	return ch, count, others
}

// leave removes the peer and prunes the channel once it is empty.
func (h *channelHub) leave(ch *relayChannel, peer *wsPeer) (int, []*wsPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch.mu.Lock()
	delete(ch.peers, peer)
	count := len(ch.peers)
	others := ch.othersLocked(peer)
	ch.mu.Unlock()

	if count == 0 && h.channels[ch.name] == ch {
		delete(h.channels, ch.name)
	}
	return count, others
}

func (h *channelHub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.channels)
}

type relayChannel struct {
	mu    sync.Mutex
	name  string
	peers map[*wsPeer]struct{}
}

func (c *relayChannel) others(peer *wsPeer) []*wsPeer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.othersLocked(peer)
}

func (c *relayChannel) othersLocked(peer *wsPeer) []*wsPeer {
	others := make([]*wsPeer, 0, len(c.peers))
	for p := range c.peers {
		if p != peer {
			others = append(others, p)
		}
	}
	return others
}

// NewHandler builds the relay HTTP handler with a fresh hub.
func NewHandler() http.Handler {
	hub := newChannelHub()
	mux := http.NewServeMux()

	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		handleWSConn(conn, hub)
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})

	return mux
}

func handleWSConn(conn *websocket.Conn, hub *channelHub) {
	defer func() {
		_ = conn.Close()
	}()

	decoder := json.NewDecoder(conn)
	peer := newWSPeer(json.NewEncoder(conn))

	var joined *relayChannel
	defer func() {
		if joined != nil {
			leaveChannel(hub, joined, peer)
		}
	}()

	windowStart := time.Now()
	framesInWindow := 0
	decodeErrors := 0

	for {
		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			_ = writeWSError(peer, "INVALID_ARGUMENT", "invalid frame")
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if len(frame.Payload) > maxFramePayloadBytes {
			_ = writeWSError(peer, "INVALID_ARGUMENT", "payload too large")
			continue
		}

		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			framesInWindow = 0
		}
		framesInWindow++
		if framesInWindow > maxFramesPerSecond {
			_ = writeWSError(peer, "RESOURCE_EXHAUSTED", "rate limit exceeded")
			return
		}

		switch frame.Type {
		case frameJoin:
			joined = handleJoinFrame(hub, joined, peer, frame)
		case frameMessage:
			if joined == nil {
				_ = writeWSError(peer, "FAILED_PRECONDITION", "join a channel before sending")
				continue
			}
			forwardMessage(joined, peer, frame)
		default:
			_ = writeWSError(peer, "INVALID_ARGUMENT", "unsupported frame type")
		}
	}
}

// handleJoinFrame joins the peer to the requested channel and returns
// the peer's current channel. Joining while already on a channel
// switches channels; the old channel's peers are told the peer left.
func handleJoinFrame(hub *channelHub, current *relayChannel, peer *wsPeer, frame wsFrame) *relayChannel {
	name := strings.TrimSpace(frame.Channel)
	if name == "" {
		_ = writeWSError(peer, "INVALID_ARGUMENT", "channel is required")
		return current
	}
	if frame.Role != roleController && frame.Role != roleCanvas {
		_ = writeWSError(peer, "INVALID_ARGUMENT", "role must be controller or canvas")
		return current
	}

	if current != nil {
		leaveChannel(hub, current, peer)
	}
	peer.role = frame.Role

	ch, count, others := hub.join(name, peer)
	log.Printf("relay: peer joined channel=%q role=%s peers=%d", name, peer.role, count)

	_ = peer.writeFrame(wsFrame{Type: frameJoined, Channel: name, Role: peer.role, Peers: count})
	for _, other := range others {
		_ = other.writeFrame(wsFrame{Type: framePeerJoined, Channel: name, Role: peer.role, Peers: count})
	}
	return ch
}

// forwardMessage delivers the payload verbatim to every other peer on
// the channel. The sender never receives its own message back.
func forwardMessage(ch *relayChannel, sender *wsPeer, frame wsFrame) {
	for _, other := range ch.others(sender) {
		_ = other.writeFrame(wsFrame{Type: frameMessage, Payload: frame.Payload})
	}
}

func leaveChannel(hub *channelHub, ch *relayChannel, peer *wsPeer) {
	count, others := hub.leave(ch, peer)
	log.Printf("relay: peer left channel=%q role=%s peers=%d", ch.name, peer.role, count)
	for _, other := range others {
		_ = other.writeFrame(wsFrame{Type: framePeerLeft, Channel: ch.name, Role: peer.role, Peers: count})
	}
}

func writeWSError(peer *wsPeer, code string, message string) error {
	return peer.writeFrame(wsFrame{Type: frameError, Code: code, Message: message})
}

// NewServer builds a configured relay server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = timeouts.Shutdown
	}

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           NewHandler(),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}
	return &Server{
		httpAddr:        httpAddr,
		shutdownTimeout: config.ShutdownTimeout,
		httpServer:      httpServer,
	}, nil
}

// Run creates and serves a relay server until the context ends.
func Run(ctx context.Context, config Config) error {
	server, err := NewServer(config)
	if err != nil {
		return fmt.Errorf("init relay server: %w", err)
	}
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve relay: %w", err)
	}
	return nil
}

// Close releases server resources without waiting for connections.
func (s *Server) Close() {
	if s == nil {
		return
	}
	_ = s.httpServer.Close()
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("relay server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("relay server listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
