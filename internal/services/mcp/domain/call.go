// Package domain implements the MCP tool surface: the canvas command
// pipeline, one generated tool per catalog operation, typed session and
// channel tools and the readable resources.
//
// Every canvas invocation resolves to a command.Result. Failures are
// part of that result, not Go errors, so the orchestrator always
// receives the structured envelope with the error kind, code and
// details. Typed control tools follow the opposite convention and
// return Go errors, matching how the rest of the tool surface reports
// misuse.
package domain

import (
	"context"
	"errors"

	"github.com/easelworks/easel/internal/catalog"
	"github.com/easelworks/easel/internal/command"
	"github.com/easelworks/easel/internal/schema"
)

// CommandSender delivers one envelope to the canvas and waits for the
// correlated reply. The bridge client is the production implementation.
type CommandSender interface {
	Send(ctx context.Context, env command.Envelope) (command.Reply, error)
}

// Call runs the full dispatch pipeline for one operation invocation:
// registry lookup, argument validation, envelope construction, delivery
// and reply normalization.
//
// The stages are ordered so that cheap local failures never touch the
// transport: an unknown name or invalid arguments resolve before an
// envelope exists, and the sender only sees canonical parameters that
// passed the operation's contract.
func Call(ctx context.Context, reg *catalog.Registry, sender CommandSender, name string, args map[string]any) command.Result {
	def, ok := reg.Lookup(name)
	if !ok {
		return command.UnknownOperation(name)
	}

	canonical, fieldErrs := schema.Validate(def.Params, args)
	if len(fieldErrs) > 0 {
		return command.Invalid(def.Name, fieldErrs)
	}

	env := command.NewEnvelope(def.Category, def.Name, canonical)
	if sender == nil {
		return command.TransportFailure(env, errors.New("no command sender is configured"))
	}

	reply, err := sender.Send(ctx, env)
	if err != nil {
		return command.TransportFailure(env, err)
	}
	return command.FromReply(env, reply)
}
