package cmdtree

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	cterrors "github.com/rileyhilliard/cmdtree/internal/errors"
	"github.com/rileyhilliard/cmdtree/internal/logger"
	"github.com/rileyhilliard/cmdtree/internal/ui"
)

// Process exit codes chosen by the dispatcher. Handlers own the low range;
// the sentinels sit at the top of the 8-bit range.
const (
	ExitSuccess          = 0
	ExitInputActionError = 253
	ExitCancelled        = 254
	ExitError            = 255
)

// State is a step of a dispatch.
type State int

const (
	StateStart State = iota
	StateCheckInputErrors
	StateResolveHandler
	StateInvoke
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateCheckInputErrors:
		return "check-input-errors"
	case StateResolveHandler:
		return "resolve-handler"
	case StateInvoke:
		return "invoke"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dispatcher is the default Action: it resolves the handler keyed by the
// command key from the invocation's provider and runs it.
type Dispatcher struct {
	log logger.Logger
}

// NewDispatcher creates a dispatcher that logs through log.
func NewDispatcher(log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Noop()
	}
	return &Dispatcher{log: log}
}

// Action returns the dispatcher as a node Action.
func (d *Dispatcher) Action() Action {
	return d.Dispatch
}

// Dispatch runs the state machine for one invocation and returns the exit code.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *Invocation) int {
	key := inv.CommandKey()
	state := StateStart
	step := func(s State) {
		d.log.Debug("dispatch %q: %s -> %s", key, state, s)
		state = s
	}

	step(StateCheckInputErrors)
	if inv.Context.HasInputActionError() {
		var failed []ui.Failure
		for _, s := range inv.Context.InputActionStatuses() {
			if s.Success {
				continue
			}
			d.log.Error("option %q failed: %s", s.Name, s.Message)
			failed = append(failed, ui.Failure{Name: s.Name, Message: s.Message})
		}
		ui.RenderFailures(inv.Err, failed)
		step(StateDone)
		return ExitInputActionError
	}

	step(StateResolveHandler)
	var (
		handler Handler
		err     error
	)
	if inv.Provider != nil {
		handler, err = inv.Provider.ResolveHandler(key)
	}
	if err != nil {
		d.log.Error("cannot resolve handler for %q: %s", key, cterrors.Summary(err))
		step(StateDone)
		return ExitError
	}
	if handler == nil {
		step(StateDone)
		if inv.Node().HasChildren() {
			if err := inv.Parse.PrintHelp(); err != nil {
				d.log.Warn("cannot print help for %q: %s", key, cterrors.Summary(err))
			}
			return ExitSuccess
		}
		d.log.Error("no handler registered for command %q", key)
		return ExitError
	}

	step(StateInvoke)
	code, err := d.invoke(ctx, inv, handler)
	step(StateDone)
	if err != nil {
		if isCancellation(err) {
			d.log.Warn("command %q was cancelled", key)
			return ExitCancelled
		}
		d.log.Error("command %q failed: %s", key, err.Error())
		return ExitError
	}
	return code
}

func (d *Dispatcher) invoke(ctx context.Context, inv *Invocation, h Handler) (code int, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Debug("panic stack:\n%s", debug.Stack())
			code, err = ExitError, fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Run(ctx, inv)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
