package cmdtree

import (
	"fmt"
	"io"
	"os"

	cterrors "github.com/rileyhilliard/cmdtree/internal/errors"
	"github.com/rileyhilliard/cmdtree/internal/logger"
)

// Invocation bundles everything a pre-action, action or handler sees for
// one run of a command.
type Invocation struct {
	Context  *CommandContext
	Parse    *ParseResult
	Provider Provider
	Out      io.Writer
	Err      io.Writer
	Logger   logger.Logger
}

// NewInvocation creates an invocation writing to the process streams with
// logging disabled. Hosts replace the streams and logger.
func NewInvocation(parse *ParseResult, provider Provider) *Invocation {
	return &Invocation{
		Context:  NewCommandContext(parse),
		Parse:    parse,
		Provider: provider,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Logger:   logger.Noop(),
	}
}

// CommandKey returns the resolved command key.
func (inv *Invocation) CommandKey() string {
	return inv.Parse.CommandKey()
}

// Node returns the resolved command node.
func (inv *Invocation) Node() *Node {
	return inv.Parse.Node()
}

// Params returns the bound parameter payload.
func (inv *Invocation) Params() any {
	return inv.Parse.Params()
}

// ParamsAs returns the bound parameter payload as T.
func ParamsAs[T any](inv *Invocation) (T, error) {
	var zero T
	p := inv.Params()
	if p == nil {
		return zero, cterrors.WrapWithCode(ErrValueNotFound, cterrors.ErrDispatch,
			fmt.Sprintf("Command %q has no bound parameters", inv.CommandKey()), "")
	}
	t, ok := p.(T)
	if !ok {
		return zero, cterrors.WrapWithCode(ErrTypeMismatch, cterrors.ErrDispatch,
			fmt.Sprintf("Parameters for %q are %T, not %T", inv.CommandKey(), p, zero), "")
	}
	return t, nil
}
