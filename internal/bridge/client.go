// Package bridge dispatches command envelopes to the canvas plugin
// over a relay websocket channel and correlates the replies.
//
// One envelope produces at most one delivery attempt and exactly one
// outcome: the correlated reply, a timeout, a cancellation or a
// connection failure. The bridge never retries; redelivery is the
// caller's decision. Replies whose correlation id has no waiter are
// logged and discarded so an abandoned command can never resolve a
// newer one.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/easelworks/easel/internal/command"
	apperrors "github.com/easelworks/easel/internal/platform/errors"
	"github.com/easelworks/easel/internal/platform/timeouts"
)

// Sentinel errors returned by Send and Connect. They match wrapped
// errors carrying the same code.
var (
	ErrNotConnected     = apperrors.New(apperrors.CodeBridgeNotConnected, "not connected to a relay channel")
	ErrReplyTimeout     = apperrors.New(apperrors.CodeBridgeReplyTimeout, "no reply from the canvas before the deadline")
	ErrConnectionClosed = apperrors.New(apperrors.CodeBridgeClosed, "relay connection closed")
)

// Config holds the bridge client settings.
type Config struct {
	// RelayURL is the relay's HTTP base URL, e.g. "http://localhost:3055".
	RelayURL string
	// ReplyTimeout bounds the wait for a correlated reply. Zero means
	// timeouts.CommandReply.
	ReplyTimeout time.Duration
}

// Client is a websocket bridge to one relay channel. The zero value is
// not usable; construct with New. All methods are safe for concurrent
// use.
type Client struct {
	relayURL     string
	replyTimeout time.Duration

	// mu guards the connection generation and the pending table.
	mu      sync.Mutex
	conn    *websocket.Conn
	enc     *json.Encoder
	channel string
	pending map[string]chan command.Reply

	// wmu serializes frame writes so concurrent sends cannot
	// interleave bytes on the wire.
	wmu sync.Mutex
}

// New builds a disconnected client. Call Connect before Send.
func New(cfg Config) *Client {
	timeout := cfg.ReplyTimeout
	if timeout <= 0 {
		timeout = timeouts.CommandReply
	}
	return &Client{
		relayURL:     cfg.RelayURL,
		replyTimeout: timeout,
		pending:      make(map[string]chan command.Reply),
	}
}

// Connect dials the relay, joins the given channel as the controller
// peer and starts reading replies. Connecting while already connected
// drops the old connection first; its in-flight commands fail with
// ErrConnectionClosed.
func (c *Client) Connect(ctx context.Context, channel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if channel == "" {
		return apperrors.New(apperrors.CodeBridgeJoinRejected, "channel must not be empty")
	}

	wsURL := "ws" + strings.TrimPrefix(c.relayURL, "http") + "/ws"
	wsCfg, err := websocket.NewConfig(wsURL, c.relayURL)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeBridgeJoinRejected, "build relay config", err)
	}
	wsCfg.Dialer = &net.Dialer{Timeout: timeouts.RelayDial}

	conn, err := websocket.DialConfig(wsCfg)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeBridgeNotConnected, "dial relay", err)
	}

	// The handshake and the read pump must share one decoder: a
	// decoder may buffer bytes past the frame it returned.
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	if err := handshake(conn, enc, dec, channel); err != nil {
		conn.Close()
		return err
	}

	c.mu.Lock()
	old := c.conn
	c.conn = conn
	c.enc = enc
	c.channel = channel
	c.failPendingLocked()
	c.mu.Unlock()

	if old != nil {
		old.Close()
	}
	go c.readPump(conn, dec)
	return nil
}

func handshake(conn *websocket.Conn, enc *json.Encoder, dec *json.Decoder, channel string) error {
	if err := enc.Encode(frame{Type: frameJoin, Channel: channel, Role: roleController}); err != nil {
		return apperrors.Wrap(apperrors.CodeBridgeJoinRejected, "send join", err)
	}

	conn.SetReadDeadline(time.Now().Add(timeouts.RelayJoin))
	defer conn.SetReadDeadline(time.Time{})

	var f frame
	if err := dec.Decode(&f); err != nil {
		return apperrors.Wrap(apperrors.CodeBridgeJoinRejected, "await join confirmation", err)
	}
	switch f.Type {
	case frameJoined:
		return nil
	case frameError:
		return apperrors.New(apperrors.CodeBridgeJoinRejected, fmt.Sprintf("relay rejected join: %s", f.Message))
	default:
		return apperrors.New(apperrors.CodeBridgeJoinRejected, fmt.Sprintf("unexpected %q frame during join", f.Type))
	}
}

// Send delivers one envelope and waits for the correlated reply. It
// returns ErrNotConnected before touching the wire when no channel is
// joined, ErrReplyTimeout when the reply deadline passes, the context
// error on cancellation and ErrConnectionClosed when the channel drops
// while waiting. The envelope is never retransmitted.
func (c *Client) Send(ctx context.Context, env command.Envelope) (command.Reply, error) {
	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return command.Reply{}, ErrNotConnected
	}
	enc := c.enc
	ch := make(chan command.Reply, 1)
	c.pending[env.ID] = ch
	c.mu.Unlock()
	defer c.unregister(env.ID)

	payload, err := json.Marshal(env)
	if err != nil {
		return command.Reply{}, fmt.Errorf("marshal envelope: %w", err)
	}

	c.wmu.Lock()
	err = enc.Encode(frame{Type: frameMessage, Payload: payload})
	c.wmu.Unlock()
	if err != nil {
		return command.Reply{}, apperrors.Wrap(apperrors.CodeBridgeClosed, "write command frame", err)
	}

	timer := time.NewTimer(c.replyTimeout)
	defer timer.Stop()

	select {
	case reply, ok := <-ch:
		if !ok {
			return command.Reply{}, ErrConnectionClosed
		}
		return reply, nil
	case <-ctx.Done():
		return command.Reply{}, ctx.Err()
	case <-timer.C:
		return command.Reply{}, ErrReplyTimeout
	}
}

// Connected reports whether a relay channel is currently joined.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Channel returns the joined channel name, or "" when disconnected.
func (c *Client) Channel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ""
	}
	return c.channel
}

// Close drops the relay connection. In-flight commands fail with
// ErrConnectionClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.enc = nil
	c.failPendingLocked()
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// readPump drains frames from one connection generation until it
// fails, then fails any commands still waiting on that generation.
func (c *Client) readPump(conn *websocket.Conn, dec *json.Decoder) {
	for {
		var f frame
		if err := dec.Decode(&f); err != nil {
			break
		}
		switch f.Type {
		case frameMessage:
			var reply command.Reply
			if err := json.Unmarshal(f.Payload, &reply); err != nil {
				log.Printf("bridge: dropping malformed reply: %v", err)
				continue
			}
			c.resolve(reply)
		case framePeerJoined, framePeerLeft:
			log.Printf("bridge: %s role=%s peers=%d", f.Type, f.Role, f.Peers)
		case frameError:
			log.Printf("bridge: relay error %s: %s", f.Code, f.Message)
		}
	}

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.enc = nil
		c.failPendingLocked()
	}
	c.mu.Unlock()
}

// resolve hands a reply to the command waiting on its id. A reply with
// no waiter is stale: the caller timed out, was cancelled or the
// connection was replaced. Stale replies are logged and dropped.
func (c *Client) resolve(reply command.Reply) {
	c.mu.Lock()
	ch, ok := c.pending[reply.ID]
	if ok {
		delete(c.pending, reply.ID)
	}
	c.mu.Unlock()

	if !ok {
		log.Printf("bridge: discarding stale reply id=%s", reply.ID)
		return
	}
	ch <- reply
}

func (c *Client) unregister(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// failPendingLocked closes every waiting command's channel so its
// Send returns ErrConnectionClosed. Callers must hold mu.
func (c *Client) failPendingLocked() {
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}
