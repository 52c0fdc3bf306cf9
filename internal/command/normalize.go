package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/easelworks/easel/internal/platform/errors"
	"github.com/easelworks/easel/internal/schema"
)

// UnknownOperation builds the result for a call naming an operation
// absent from the registry. The transport is never contacted.
func UnknownOperation(name string) Result {
	return Result{
		Success: false,
		Error: &ErrorInfo{
			Kind:    KindUnknownOperation,
			Message: fmt.Sprintf("unknown operation %q", name),
		},
	}
}

// Invalid builds the result for arguments that failed validation. The
// message holds one entry per offending field, joined in contract
// declaration order; Details carries the structured field errors.
func Invalid(op string, fieldErrors []schema.FieldError) Result {
	msgs := make([]string, len(fieldErrors))
	for i, fe := range fieldErrors {
		msgs[i] = fe.Error()
	}
	details, err := json.Marshal(fieldErrors)
	if err != nil {
		details = nil
	}
	return Result{
		Success: false,
		Error: &ErrorInfo{
			Kind:    KindValidationError,
			Message: "invalid parameters for " + op + ": " + strings.Join(msgs, "; "),
			Details: details,
		},
	}
}

// TransportFailure builds the result for an envelope that could not be
// delivered or answered in time. There is no remote payload to
// interpret, so the error is synthesized locally; when err carries an
// internal error code it is surfaced on the result.
func TransportFailure(env Envelope, err error) Result {
	info := &ErrorInfo{
		Kind:    KindTransportError,
		Message: err.Error(),
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		info.Code = string(appErr.Code)
	}
	return Result{ID: env.ID, Success: false, Error: info}
}

// FromReply normalizes the executor's reply for env. Success passes
// the payload through unmodified; failure preserves the remote code,
// message and details verbatim. A failed reply without an error block
// still yields a populated ErrorInfo.
func FromReply(env Envelope, reply Reply) Result {
	if reply.Success {
		return Result{ID: env.ID, Success: true, Data: reply.Data}
	}
	info := &ErrorInfo{Kind: KindRemoteExecutionError}
	if reply.Error != nil {
		info.Code = reply.Error.Code
		info.Message = reply.Error.Message
		info.Details = reply.Error.Details
	} else {
		info.Message = "the canvas reported a failure without details"
	}
	return Result{ID: env.ID, Success: false, Error: info}
}
