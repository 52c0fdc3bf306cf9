package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/easelworks/easel/internal/platform/errors"
	"github.com/easelworks/easel/internal/schema"
)

func TestNewEnvelope(t *testing.T) {
	params := map[string]any{"x": 10.0, "y": 20.0}
	env := NewEnvelope("creation", "create_rectangle", params)

	if env.Category != "creation" || env.Operation != "create_rectangle" {
		t.Errorf("routing pair = %q/%q", env.Category, env.Operation)
	}
	if len(env.ID) == 0 {
		t.Fatal("envelope id must not be empty")
	}

	other := NewEnvelope("creation", "create_rectangle", params)
	if env.ID == other.ID {
		t.Error("two envelopes share an id")
	}
}

func TestEnvelopeWireShape(t *testing.T) {
	env := NewEnvelope("style", "set_opacity", map[string]any{"nodeId": "1:2", "opacity": 0.5})

	b, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"id", "category", "operation", "parameters"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("wire envelope is missing %q: %s", key, b)
		}
	}
}

func TestUnknownOperation(t *testing.T) {
	res := UnknownOperation("create_hexagram")

	if res.Success {
		t.Error("unknown operation result must not be successful")
	}
	if res.Error == nil || res.Error.Kind != KindUnknownOperation {
		t.Fatalf("unexpected error %+v", res.Error)
	}
	if !strings.Contains(res.Error.Message, "create_hexagram") {
		t.Errorf("message should name the operation: %q", res.Error.Message)
	}
	if res.Data != nil {
		t.Error("failed result must not carry data")
	}
}

func TestInvalidJoinsFieldErrorsInOrder(t *testing.T) {
	res := Invalid("create_rectangle", []schema.FieldError{
		{Path: "x", Message: "must be provided"},
		{Path: "width", Message: "must be at least 1"},
	})

	if res.Success || res.Error == nil || res.Error.Kind != KindValidationError {
		t.Fatalf("unexpected result %+v", res)
	}
	want := "invalid parameters for create_rectangle: x: must be provided; width: must be at least 1"
	if res.Error.Message != want {
		t.Errorf("message = %q, want %q", res.Error.Message, want)
	}

	var details []schema.FieldError
	if err := json.Unmarshal(res.Error.Details, &details); err != nil {
		t.Fatalf("details should hold the field errors: %v", err)
	}
	if len(details) != 2 || details[0].Path != "x" || details[1].Path != "width" {
		t.Errorf("unexpected details %+v", details)
	}
}

func TestTransportFailure(t *testing.T) {
	env := NewEnvelope("modification", "delete_node", map[string]any{"nodeId": "1:2"})
	cause := apperrors.New(apperrors.CodeBridgeReplyTimeout, "no reply within 30s")

	res := TransportFailure(env, fmt.Errorf("send delete_node: %w", cause))
	if res.Success || res.Error == nil || res.Error.Kind != KindTransportError {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.ID != env.ID {
		t.Errorf("result id = %q, want %q", res.ID, env.ID)
	}
	if res.Error.Code != string(apperrors.CodeBridgeReplyTimeout) {
		t.Errorf("code = %q, want %q", res.Error.Code, apperrors.CodeBridgeReplyTimeout)
	}
	if !strings.Contains(res.Error.Message, "no reply within 30s") {
		t.Errorf("message lost the cause: %q", res.Error.Message)
	}
}

func TestTransportFailurePlainError(t *testing.T) {
	env := NewEnvelope("modification", "delete_node", map[string]any{"nodeId": "1:2"})

	res := TransportFailure(env, errors.New("connection reset"))
	if res.Error.Code != "" {
		t.Errorf("plain errors carry no code, got %q", res.Error.Code)
	}
}

func TestFromReplySuccess(t *testing.T) {
	env := NewEnvelope("selection", "get_selection", map[string]any{})
	payload := json.RawMessage(`{"nodes":[{"id":"1:2","name":"Rectangle"}]}`)

	res := FromReply(env, Reply{ID: env.ID, Success: true, Data: payload})
	if !res.Success {
		t.Fatalf("unexpected failure %+v", res)
	}
	if res.ID != env.ID {
		t.Errorf("result id = %q, want %q", res.ID, env.ID)
	}
	if string(res.Data) != string(payload) {
		t.Errorf("payload was not passed through verbatim: %s", res.Data)
	}
	if res.Error != nil {
		t.Errorf("successful result must not carry an error: %+v", res.Error)
	}
}

func TestFromReplyRemoteFailure(t *testing.T) {
	env := NewEnvelope("modification", "move_node", map[string]any{"nodeId": "9:9", "x": 1.0, "y": 1.0})
	reply := Reply{
		ID:      env.ID,
		Success: false,
		Error: &RemoteError{
			Code:    "NODE_NOT_FOUND",
			Message: "no node with id 9:9",
			Details: json.RawMessage(`{"nodeId":"9:9"}`),
		},
	}

	res := FromReply(env, reply)
	if res.Success || res.Error == nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Error.Kind != KindRemoteExecutionError {
		t.Errorf("kind = %q", res.Error.Kind)
	}
	if res.Error.Code != "NODE_NOT_FOUND" || res.Error.Message != "no node with id 9:9" {
		t.Errorf("remote error was not preserved verbatim: %+v", res.Error)
	}
	if string(res.Error.Details) != `{"nodeId":"9:9"}` {
		t.Errorf("details = %s", res.Error.Details)
	}
	if res.Data != nil {
		t.Error("failed result must not carry data")
	}
}

func TestFromReplyFailureWithoutErrorBlock(t *testing.T) {
	env := NewEnvelope("modification", "move_node", map[string]any{"nodeId": "9:9", "x": 1.0, "y": 1.0})

	res := FromReply(env, Reply{ID: env.ID, Success: false})
	if res.Success || res.Error == nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Error.Message == "" {
		t.Error("a failed result always carries a message")
	}
}

func TestResultWireShape(t *testing.T) {
	failed := UnknownOperation("nope")
	b, err := json.Marshal(failed)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["data"]; ok {
		t.Errorf("failed result must omit data: %s", b)
	}
	if _, ok := decoded["error"]; !ok {
		t.Errorf("failed result must include error: %s", b)
	}

	env := NewEnvelope("selection", "get_selection", map[string]any{})
	ok := FromReply(env, Reply{ID: env.ID, Success: true, Data: json.RawMessage(`{}`)})
	b, err = json.Marshal(ok)
	if err != nil {
		t.Fatal(err)
	}
	decoded = nil
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, present := decoded["error"]; present {
		t.Errorf("successful result must omit error: %s", b)
	}
	if _, present := decoded["data"]; !present {
		t.Errorf("successful result must include data: %s", b)
	}
}
