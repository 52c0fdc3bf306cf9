package command

import "encoding/json"

// Reply is the executor's answer to one envelope. ID echoes the
// envelope id and is the sole correlation key.
type Reply struct {
	ID      string          `json:"id"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *RemoteError    `json:"error,omitempty"`
}

// RemoteError is a failure reported by the executor itself.
type RemoteError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Error kinds carried on Result. Every failure an invocation can
// produce maps to exactly one of these.
const (
	// KindUnknownOperation marks calls to operations the registry does
	// not contain. Always a caller error.
	KindUnknownOperation = "UnknownOperation"
	// KindValidationError marks arguments that failed their contract.
	// Nothing was sent; the caller must correct and resubmit.
	KindValidationError = "ValidationError"
	// KindTransportError marks delivery failures: not connected, timed
	// out or the channel dropped. No remote state change is implied.
	KindTransportError = "TransportError"
	// KindRemoteExecutionError marks failures reported by the executor
	// after it received the command. Remote state may have changed.
	KindRemoteExecutionError = "RemoteExecutionError"
)

// Result is the uniform outcome of one invocation. Success and Error
// are mutually exclusive: a successful result carries the remote
// payload in Data, a failed one carries an ErrorInfo and no data. ID
// is the envelope's correlation id, empty when the pipeline failed
// before an envelope was built.
type Result struct {
	ID      string          `json:"id,omitempty"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

// ErrorInfo classifies a failed invocation. Kind is one of the Kind
// constants. Code, Message and Details pass through verbatim from the
// executor on KindRemoteExecutionError; for locally synthesized kinds
// Code names the internal error code when one exists.
type ErrorInfo struct {
	Kind    string          `json:"kind"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}
