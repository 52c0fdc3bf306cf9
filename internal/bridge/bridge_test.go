package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/easelworks/easel/internal/command"
)

// startRelay serves a scripted relay peer for one test. The handler
// accepts the join handshake and then hands the connection to script.
func startRelay(t *testing.T, script func(conn *websocket.Conn, dec *json.Decoder, enc *json.Encoder)) string {
	t.Helper()
	srv := httptest.NewServer(websocket.Handler(func(conn *websocket.Conn) {
		defer conn.Close()
		dec := json.NewDecoder(conn)
		enc := json.NewEncoder(conn)

		var join frame
		if err := dec.Decode(&join); err != nil {
			return
		}
		if join.Type != frameJoin || join.Channel == "" || join.Role != roleController {
			t.Errorf("unexpected join frame %+v", join)
			return
		}
		if err := enc.Encode(frame{Type: frameJoined, Channel: join.Channel, Role: join.Role, Peers: 1}); err != nil {
			return
		}
		if script != nil {
			script(conn, dec, enc)
		}
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// echoScript answers every command with an empty success reply.
func echoScript(conn *websocket.Conn, dec *json.Decoder, enc *json.Encoder) {
	for {
		var f frame
		if err := dec.Decode(&f); err != nil {
			return
		}
		if f.Type != frameMessage {
			continue
		}
		var env command.Envelope
		if err := json.Unmarshal(f.Payload, &env); err != nil {
			return
		}
		payload, _ := json.Marshal(command.Reply{ID: env.ID, Success: true, Data: json.RawMessage(`{}`)})
		if err := enc.Encode(frame{Type: frameMessage, Payload: payload}); err != nil {
			return
		}
	}
}

func moveEnvelope() command.Envelope {
	return command.NewEnvelope("modification", "move_node", map[string]any{
		"nodeId": "1:2", "x": 10.0, "y": 20.0,
	})
}

func TestSendRoundTrip(t *testing.T) {
	url := startRelay(t, func(conn *websocket.Conn, dec *json.Decoder, enc *json.Encoder) {
		// Control frames between replies must not disturb correlation.
		enc.Encode(frame{Type: framePeerJoined, Role: "canvas", Peers: 2})

		var f frame
		if err := dec.Decode(&f); err != nil {
			return
		}
		var env command.Envelope
		if err := json.Unmarshal(f.Payload, &env); err != nil {
			t.Errorf("decode envelope: %v", err)
			return
		}
		if env.Operation != "create_rectangle" || env.Category != "creation" {
			t.Errorf("unexpected envelope %+v", env)
		}
		if env.Parameters["width"] != 100.0 {
			t.Errorf("parameters did not survive the wire: %v", env.Parameters)
		}
		payload, _ := json.Marshal(command.Reply{ID: env.ID, Success: true, Data: json.RawMessage(`{"nodeId":"10:1"}`)})
		enc.Encode(frame{Type: frameMessage, Payload: payload})
	})

	c := New(Config{RelayURL: url})
	if err := c.Connect(context.Background(), "design-1"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	if got := c.Channel(); got != "design-1" {
		t.Errorf("channel = %q, want design-1", got)
	}

	env := command.NewEnvelope("creation", "create_rectangle", map[string]any{
		"x": 0.0, "y": 0.0, "width": 100.0, "height": 50.0,
	})
	reply, err := c.Send(context.Background(), env)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !reply.Success || reply.ID != env.ID {
		t.Errorf("unexpected reply %+v", reply)
	}
	if string(reply.Data) != `{"nodeId":"10:1"}` {
		t.Errorf("data = %s", reply.Data)
	}
}

func TestSendNotConnected(t *testing.T) {
	c := New(Config{RelayURL: "http://127.0.0.1:0"})

	_, err := c.Send(context.Background(), moveEnvelope())
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
}

func TestConnectEmptyChannel(t *testing.T) {
	c := New(Config{RelayURL: "http://127.0.0.1:0"})

	if err := c.Connect(context.Background(), ""); err == nil {
		t.Fatal("empty channel should not connect")
	}
	if c.Connected() {
		t.Error("client should stay disconnected")
	}
}

func TestConnectJoinRejected(t *testing.T) {
	srv := httptest.NewServer(websocket.Handler(func(conn *websocket.Conn) {
		defer conn.Close()
		dec := json.NewDecoder(conn)
		enc := json.NewEncoder(conn)
		var join frame
		if err := dec.Decode(&join); err != nil {
			return
		}
		enc.Encode(frame{Type: frameError, Code: "FORBIDDEN", Message: "channel is full"})
	}))
	t.Cleanup(srv.Close)

	c := New(Config{RelayURL: srv.URL})
	err := c.Connect(context.Background(), "crowded")
	if err == nil {
		t.Fatal("expected the join to be rejected")
	}
	if !strings.Contains(err.Error(), "channel is full") {
		t.Errorf("rejection reason lost: %v", err)
	}
	if c.Connected() {
		t.Error("client should stay disconnected after a rejected join")
	}
}

// syncBuffer lets the test read log output while the read pump may
// still be writing it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSendReplyTimeoutDiscardsLateReply(t *testing.T) {
	var logs syncBuffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	url := startRelay(t, func(conn *websocket.Conn, dec *json.Decoder, enc *json.Encoder) {
		var f frame
		if err := dec.Decode(&f); err != nil {
			return
		}
		var env command.Envelope
		if err := json.Unmarshal(f.Payload, &env); err != nil {
			return
		}
		// Answer long after the waiter has given up.
		time.Sleep(300 * time.Millisecond)
		payload, _ := json.Marshal(command.Reply{ID: env.ID, Success: true})
		enc.Encode(frame{Type: frameMessage, Payload: payload})

		var parked frame
		dec.Decode(&parked)
	})

	c := New(Config{RelayURL: url, ReplyTimeout: 50 * time.Millisecond})
	if err := c.Connect(context.Background(), "design-1"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	_, err := c.Send(context.Background(), moveEnvelope())
	if !errors.Is(err, ErrReplyTimeout) {
		t.Fatalf("err = %v, want ErrReplyTimeout", err)
	}

	// The late reply has no waiter anymore and must be dropped, not
	// held for a future command.
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(logs.String(), "discarding stale reply") {
		if time.Now().After(deadline) {
			t.Fatal("late reply was never discarded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestUnknownIDReplyIsDiscarded(t *testing.T) {
	url := startRelay(t, func(conn *websocket.Conn, dec *json.Decoder, enc *json.Encoder) {
		var f frame
		if err := dec.Decode(&f); err != nil {
			return
		}
		var env command.Envelope
		if err := json.Unmarshal(f.Payload, &env); err != nil {
			return
		}
		// A reply for an id that was never issued, then the real one.
		bogus, _ := json.Marshal(command.Reply{ID: "never-issued", Success: true, Data: json.RawMessage(`{"nodeId":"bad"}`)})
		enc.Encode(frame{Type: frameMessage, Payload: bogus})
		real, _ := json.Marshal(command.Reply{ID: env.ID, Success: true, Data: json.RawMessage(`{"nodeId":"good"}`)})
		enc.Encode(frame{Type: frameMessage, Payload: real})
	})

	c := New(Config{RelayURL: url})
	if err := c.Connect(context.Background(), "design-1"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	env := moveEnvelope()
	reply, err := c.Send(context.Background(), env)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.ID != env.ID || !strings.Contains(string(reply.Data), "good") {
		t.Errorf("wrong reply was resolved: %+v", reply)
	}
}

func TestConnectionLossFailsPendingSend(t *testing.T) {
	url := startRelay(t, func(conn *websocket.Conn, dec *json.Decoder, enc *json.Encoder) {
		var f frame
		if err := dec.Decode(&f); err != nil {
			return
		}
		// Drop the connection without answering.
		conn.Close()
	})

	c := New(Config{RelayURL: url, ReplyTimeout: 5 * time.Second})
	if err := c.Connect(context.Background(), "design-1"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	_, err := c.Send(context.Background(), moveEnvelope())
	if !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("err = %v, want ErrConnectionClosed", err)
	}
	if c.Connected() {
		t.Error("client should report disconnected after the drop")
	}
}

func TestSendContextCancelled(t *testing.T) {
	url := startRelay(t, func(conn *websocket.Conn, dec *json.Decoder, enc *json.Encoder) {
		var f frame
		dec.Decode(&f)
		var parked frame
		dec.Decode(&parked)
	})

	c := New(Config{RelayURL: url, ReplyTimeout: 5 * time.Second})
	if err := c.Connect(context.Background(), "design-1"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()
	_, err := c.Send(ctx, moveEnvelope())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestConcurrentSendsResolveByID(t *testing.T) {
	url := startRelay(t, func(conn *websocket.Conn, dec *json.Decoder, enc *json.Encoder) {
		var envs []command.Envelope
		for len(envs) < 2 {
			var f frame
			if err := dec.Decode(&f); err != nil {
				return
			}
			var env command.Envelope
			if err := json.Unmarshal(f.Payload, &env); err != nil {
				return
			}
			envs = append(envs, env)
		}
		// Answer in reverse arrival order: correlation must still
		// route each reply to its own command.
		for i := len(envs) - 1; i >= 0; i-- {
			data, _ := json.Marshal(map[string]string{"operation": envs[i].Operation})
			payload, _ := json.Marshal(command.Reply{ID: envs[i].ID, Success: true, Data: data})
			if err := enc.Encode(frame{Type: frameMessage, Payload: payload}); err != nil {
				return
			}
		}
		var parked frame
		dec.Decode(&parked)
	})

	c := New(Config{RelayURL: url})
	if err := c.Connect(context.Background(), "design-1"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	ops := []string{"move_node", "resize_node"}
	replies := make([]command.Reply, len(ops))
	errs := make([]error, len(ops))
	var wg sync.WaitGroup
	for i, op := range ops {
		wg.Add(1)
		go func(i int, op string) {
			defer wg.Done()
			env := command.NewEnvelope("modification", op, map[string]any{"nodeId": "1:2"})
			replies[i], errs[i] = c.Send(context.Background(), env)
		}(i, op)
	}
	wg.Wait()

	for i, op := range ops {
		if errs[i] != nil {
			t.Fatalf("send %s: %v", op, errs[i])
		}
		var data map[string]string
		if err := json.Unmarshal(replies[i].Data, &data); err != nil {
			t.Fatalf("decode reply data: %v", err)
		}
		if data["operation"] != op {
			t.Errorf("reply for %s resolved the %s command", data["operation"], op)
		}
	}
}

func TestReconnectReplacesChannel(t *testing.T) {
	url := startRelay(t, echoScript)

	c := New(Config{RelayURL: url})
	if err := c.Connect(context.Background(), "first"); err != nil {
		t.Fatalf("connect first: %v", err)
	}
	defer c.Close()

	if err := c.Connect(context.Background(), "second"); err != nil {
		t.Fatalf("connect second: %v", err)
	}
	if got := c.Channel(); got != "second" {
		t.Errorf("channel = %q, want second", got)
	}

	if _, err := c.Send(context.Background(), moveEnvelope()); err != nil {
		t.Errorf("send after reconnect: %v", err)
	}
}
