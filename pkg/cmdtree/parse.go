package cmdtree

import (
	"fmt"
	"strings"
	"sync"

	cterrors "github.com/rileyhilliard/cmdtree/internal/errors"
	"github.com/rileyhilliard/cmdtree/internal/util"
	"github.com/spf13/cobra"
)

// ParseResult is the parser's view of one invocation: the resolved command,
// the values of its options and arguments, and any parse errors. Errors are
// collected rather than returned so later stages can observe them.
type ParseResult struct {
	node    *Node
	key     string
	cmd     *cobra.Command
	args    []string
	options []*Option

	mu     sync.RWMutex
	errs   []error
	values map[string]any
	set    map[string]bool
	params any
}

// NewParseResult creates an empty result for node.
func NewParseResult(node *Node) *ParseResult {
	p := &ParseResult{
		node:    node,
		options: node.EffectiveOptions(),
		values:  make(map[string]any),
		set:     make(map[string]bool),
	}
	key, err := node.Key()
	if err != nil {
		p.errs = append(p.errs, err)
	}
	p.key = key
	return p
}

// Node returns the resolved command.
func (p *ParseResult) Node() *Node {
	return p.node
}

// CommandKey returns the resolved command's key.
func (p *ParseResult) CommandKey() string {
	return p.key
}

// Args returns the raw positional arguments.
func (p *ParseResult) Args() []string {
	return p.args
}

// Errors returns a snapshot of the parse errors recorded so far.
func (p *ParseResult) Errors() []error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]error, len(p.errs))
	copy(out, p.errs)
	return out
}

// AddError records a parse error.
func (p *ParseResult) AddError(err error) {
	if err == nil {
		return
	}
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}

// Record stores the resolved value of a symbol. explicit marks values that
// came from the command line rather than a default.
func (p *ParseResult) Record(name string, value any, explicit bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[name] = value
	if explicit {
		p.set[name] = true
	}
}

// Value returns the resolved value of an option or argument.
func (p *ParseResult) Value(name string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[name]
	return v, ok
}

// IsSet reports whether the symbol was given on the command line.
func (p *ParseResult) IsSet(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.set[name]
}

// Params returns the payload produced by the node's Binder, if any.
func (p *ParseResult) Params() any {
	return p.params
}

// Options returns the options in effect for the resolved command.
func (p *ParseResult) Options() []*Option {
	return p.options
}

// ShortCircuit returns the first terminating option that was set.
func (p *ParseResult) ShortCircuit() *Option {
	for _, o := range p.options {
		if o.Terminating && p.IsSet(o.Name) {
			if v, _ := p.Value(o.Name); v == true {
				return o
			}
		}
	}
	return nil
}

// PrintHelp writes the resolved command's help to its output.
func (p *ParseResult) PrintHelp() error {
	if p.cmd == nil {
		return cterrors.New(cterrors.ErrDispatch,
			fmt.Sprintf("No help available for %q", p.key), "")
	}
	return p.cmd.Help()
}

// ValueOf returns a symbol's value as T.
func ValueOf[T any](p *ParseResult, name string) (T, error) {
	var zero T
	v, ok := p.Value(name)
	if !ok {
		return zero, cterrors.WrapWithCode(ErrValueNotFound, cterrors.ErrParse,
			fmt.Sprintf("No value for %q", name), "")
	}
	t, ok := v.(T)
	if !ok {
		return zero, cterrors.WrapWithCode(ErrTypeMismatch, cterrors.ErrParse,
			fmt.Sprintf("Value for %q is %T, not %T", name, v, zero), "")
	}
	return t, nil
}

// parseCommand resolves option and argument values for a command cobra has
// already tokenized.
func parseCommand(node *Node, cmd *cobra.Command, args []string) *ParseResult {
	p := NewParseResult(node)
	p.cmd = cmd
	p.args = args

	fs := cmd.Flags()
	for _, o := range p.options {
		if fs.Lookup(o.Name) == nil {
			p.AddError(invalidValue("--"+o.Name, fmt.Errorf("flag not registered")))
			continue
		}
		v, err := o.read(fs)
		if err != nil {
			p.AddError(invalidValue("--"+o.Name, err))
			continue
		}
		changed := fs.Changed(o.Name)
		if !changed && o.IsRequired() {
			p.AddError(cterrors.WrapWithCode(ErrMissingOption, cterrors.ErrParse,
				fmt.Sprintf("Option '--%s' is required", o.Name),
				fmt.Sprintf("Pass --%s <%s>", o.Name, o.Type)))
			continue
		}
		if changed && o.Validate != nil {
			if err := o.Validate(v); err != nil {
				p.AddError(invalidValue("--"+o.Name, err))
				continue
			}
		}
		p.Record(o.Name, v, changed)
	}

	p.bindArguments(args)

	if node.Bind != nil && len(p.Errors()) == 0 {
		params, err := node.Bind(p)
		if err != nil {
			p.AddError(cterrors.WrapWithCode(err, cterrors.ErrParse,
				fmt.Sprintf("Cannot bind parameters for %q", p.key), ""))
		} else {
			p.params = params
		}
	}
	return p
}

func (p *ParseResult) bindArguments(args []string) {
	rest := args
	for _, a := range p.node.Arguments {
		var (
			v        any
			err      error
			explicit bool
		)
		switch {
		case a.Variadic && len(rest) > 0:
			v, err = a.Type.convertAll(rest)
			rest = nil
			explicit = true
		case !a.Variadic && len(rest) > 0:
			v, err = a.Type.Convert(rest[0])
			rest = rest[1:]
			explicit = true
		case a.IsRequired():
			p.AddError(cterrors.WrapWithCode(ErrMissingArgument, cterrors.ErrParse,
				fmt.Sprintf("Argument <%s> is required", a.Name), ""))
			continue
		case a.Default != nil:
			v, err = a.Type.Convert(a.Default)
		case a.Variadic:
			v, err = a.Type.convertAll(nil)
		default:
			v = a.Type.zero()
		}
		if err != nil {
			p.AddError(invalidValue("<"+a.Name+">", err))
			continue
		}
		if explicit && a.Validate != nil {
			if err := a.Validate(v); err != nil {
				p.AddError(invalidValue("<"+a.Name+">", err))
				continue
			}
		}
		p.Record(a.Name, v, explicit)
	}

	if len(rest) == 0 {
		return
	}
	if p.node.HasChildren() && len(p.node.Arguments) == 0 {
		suggestion := "Run with --help to list the available commands"
		var names []string
		for _, c := range p.node.children {
			names = append(names, c.Name)
		}
		if similar := util.SuggestSimilar(rest[0], names, 3); len(similar) > 0 {
			suggestion = "Did you mean: " + util.JoinOrNone(similar) + "?"
		}
		p.AddError(cterrors.WrapWithCode(ErrUnexpectedArgument, cterrors.ErrParse,
			fmt.Sprintf("Unknown command %q for %q", rest[0], p.node.Name), suggestion))
		return
	}
	p.AddError(cterrors.WrapWithCode(ErrUnexpectedArgument, cterrors.ErrParse,
		fmt.Sprintf("Unexpected argument(s): %s", strings.Join(rest, " ")), ""))
}

func invalidValue(symbol string, err error) error {
	return cterrors.WrapWithCode(fmt.Errorf("%w: %v", ErrInvalidValue, err), cterrors.ErrParse,
		fmt.Sprintf("Invalid value for %s", symbol), "")
}
