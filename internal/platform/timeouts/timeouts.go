// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// CommandReply caps how long the bridge waits for the canvas executor to
// answer one command before the invocation is abandoned.
const CommandReply = 30 * time.Second

// RelayDial caps the wait time when the bridge dials the relay.
const RelayDial = 5 * time.Second

// RelayJoin caps how long the bridge waits for the relay to confirm a
// channel join after the websocket handshake.
const RelayJoin = 5 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
