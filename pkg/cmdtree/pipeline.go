package cmdtree

import (
	"context"
	"fmt"

	cterrors "github.com/rileyhilliard/cmdtree/internal/errors"
	"github.com/rileyhilliard/cmdtree/internal/logger"
	"golang.org/x/sync/errgroup"
)

// CancelledMessage is the status message recorded for a cancelled pre-action.
const CancelledMessage = "operation was cancelled"

// Pipeline runs the pre-actions of a command's options and arguments.
type Pipeline struct {
	log logger.Logger
}

// NewPipeline creates a pipeline that logs through log.
func NewPipeline(log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Noop()
	}
	return &Pipeline{log: log}
}

type boundAction struct {
	name   string
	action PreAction
	value  any
}

// collect returns the pre-actions that have a value to work on: the symbol
// was given on the command line or has a default.
func collect(parse *ParseResult) []boundAction {
	var out []boundAction
	add := func(name string, action PreAction, hasDefault bool) {
		if action == nil {
			return
		}
		v, ok := parse.Value(name)
		if !ok || (!parse.IsSet(name) && !hasDefault) {
			return
		}
		out = append(out, boundAction{name: name, action: action, value: v})
	}
	for _, o := range parse.Options() {
		add(o.Name, o.Action, o.Default != nil)
	}
	for _, a := range parse.Node().Arguments {
		add(a.Name, a.Action, a.Default != nil)
	}
	return out
}

// Run starts every pre-action concurrently and returns once all of them
// have finished. Failures never escape: they become statuses on the
// invocation's CommandContext.
func (p *Pipeline) Run(ctx context.Context, inv *Invocation) {
	actions := collect(inv.Parse)
	if len(actions) == 0 {
		return
	}

	var g errgroup.Group
	for _, b := range actions {
		g.Go(func() error {
			p.runOne(ctx, inv, b)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Pipeline) runOne(ctx context.Context, inv *Invocation, b boundAction) {
	cc := inv.Context
	if cc.HasParsingError() || cc.HasShortCircuitOptions() {
		p.log.Debug("skipping handler for %q: parse errors or short-circuit option present", b.name)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("handler panicked: %v", r)
			p.log.Error("option %q: %v", b.name, err)
			cc.SetInputActionStatus(OptionHandlerStatus{Name: b.name, Message: err.Error(), Err: err})
		}
	}()

	result, err := b.action(ctx, inv, b.value)
	if err != nil {
		if isCancellation(err) {
			p.log.Warn("option %q: %s", b.name, CancelledMessage)
			cc.SetInputActionStatus(OptionHandlerStatus{Name: b.name, Message: CancelledMessage, Err: err})
			return
		}
		p.log.Error("option %q: %s", b.name, cterrors.Summary(err))
		cc.SetInputActionStatus(OptionHandlerStatus{Name: b.name, Message: cterrors.Summary(err), Err: err})
		return
	}

	if isNil(result) {
		return
	}
	if err := cc.setAny(b.name, result); err != nil {
		cc.SetInputActionStatus(OptionHandlerStatus{Name: b.name, Message: cterrors.Summary(err), Err: err})
	}
}
