// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Session store errors
	CodeSessionNotFound    Code = "SESSION_NOT_FOUND"
	CodeSessionInvalidID   Code = "SESSION_INVALID_ID"
	CodeSessionInvalidRole Code = "SESSION_INVALID_ROLE"
	CodeSessionStoreIO     Code = "SESSION_STORE_IO"

	// Bridge errors
	CodeBridgeNotConnected Code = "BRIDGE_NOT_CONNECTED"
	CodeBridgeReplyTimeout Code = "BRIDGE_REPLY_TIMEOUT"
	CodeBridgeClosed       Code = "BRIDGE_CONNECTION_CLOSED"
	CodeBridgeJoinRejected Code = "BRIDGE_JOIN_REJECTED"
)
