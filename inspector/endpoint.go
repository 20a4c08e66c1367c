package inspector

import (
	"context"
	"fmt"

	"github.com/hazyhaar/csspeek/idgen"
	"github.com/hazyhaar/csspeek/inspector/event"
	"github.com/hazyhaar/csspeek/kit"
)

// CommandResult is the response to a command on every transport.
type CommandResult struct {
	Command string          `json:"command"`
	Event   *event.Envelope `json:"event,omitempty"`
	State   State           `json:"state"`
}

// CommandEndpoint adapts Handle to a kit.Endpoint taking an event.Command.
func (c *Controller) CommandEndpoint() kit.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		cmd, ok := req.(event.Command)
		if !ok {
			return nil, fmt.Errorf("inspector: unexpected request %T", req)
		}
		ev, err := c.Handle(ctx, cmd)
		if err != nil {
			return nil, err
		}
		res := CommandResult{Command: cmd.Name(), State: c.State()}
		if ev != nil {
			env, err := event.Wrap(ev)
			if err != nil {
				return nil, err
			}
			res.Event = &env
		}
		return res, nil
	}
}

// StateEndpoint returns the controller State.
func (c *Controller) StateEndpoint() kit.Endpoint {
	return func(context.Context, any) (any, error) {
		return c.State(), nil
	}
}

// instrument is the middleware stack every transport wraps endpoints in.
func (c *Controller) instrument(name string) kit.Middleware {
	return kit.Chain(
		kit.RequestID(idgen.New),
		kit.Logging(c.logger, name),
	)
}
