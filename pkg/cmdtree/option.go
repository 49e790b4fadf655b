package cmdtree

import (
	"context"
	"fmt"
	"time"

	cterrors "github.com/rileyhilliard/cmdtree/internal/errors"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// ValueType is the parsed type of an option or argument value.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
	TypeBool
	TypeDuration
	TypeStringSlice
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeDuration:
		return "duration"
	case TypeStringSlice:
		return "strings"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// Convert coerces v to the Go type backing t.
func (t ValueType) Convert(v any) (any, error) {
	if v == nil {
		return t.zero(), nil
	}
	switch t {
	case TypeString:
		return cast.ToStringE(v)
	case TypeInt:
		return cast.ToIntE(v)
	case TypeBool:
		return cast.ToBoolE(v)
	case TypeDuration:
		return cast.ToDurationE(v)
	case TypeStringSlice:
		return cast.ToStringSliceE(v)
	default:
		return nil, fmt.Errorf("unsupported value type %s", t)
	}
}

// convertAll converts variadic positional values into a typed slice.
func (t ValueType) convertAll(raw []string) (any, error) {
	switch t {
	case TypeInt:
		out := make([]int, 0, len(raw))
		for _, r := range raw {
			v, err := cast.ToIntE(r)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case TypeBool:
		out := make([]bool, 0, len(raw))
		for _, r := range raw {
			v, err := cast.ToBoolE(r)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case TypeDuration:
		out := make([]time.Duration, 0, len(raw))
		for _, r := range raw {
			v, err := cast.ToDurationE(r)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		return append([]string{}, raw...), nil
	}
}

func (t ValueType) zero() any {
	switch t {
	case TypeInt:
		return 0
	case TypeBool:
		return false
	case TypeDuration:
		return time.Duration(0)
	case TypeStringSlice:
		return []string{}
	default:
		return ""
	}
}

// Requirement controls whether a value must be supplied on the command line.
type Requirement int

const (
	// RequiredInfer derives required-ness from the declaration (see IsRequired).
	RequiredInfer Requirement = iota
	// RequiredAlways makes the value mandatory even when a default exists.
	RequiredAlways
	// RequiredNever makes the value optional even without a default.
	RequiredNever
)

// PreAction runs for a single option or argument after parsing and before
// the command handler. A non-nil result is stored in the CommandContext
// under the symbol's name; an error is recorded as a failed status.
type PreAction func(ctx context.Context, inv *Invocation, value any) (any, error)

// Option declares a named flag.
type Option struct {
	Name        string
	Shorthand   string
	Description string
	Type        ValueType
	Default     any
	Requirement Requirement

	// Recursive options are inherited by every descendant command.
	Recursive bool

	// Terminating options short-circuit the invocation when set: option
	// handlers are skipped and OnTrigger runs instead of the command.
	Terminating bool
	OnTrigger   Action

	Hidden   bool
	Validate func(value any) error
	Action   PreAction
}

// IsRequired applies the requirement policy. An explicit RequiredAlways or
// RequiredNever wins; otherwise an option is required when it has no
// default and is not a bool or list (those have a meaningful empty value).
func (o *Option) IsRequired() bool {
	switch o.Requirement {
	case RequiredAlways:
		return true
	case RequiredNever:
		return false
	}
	return o.Default == nil && o.Type != TypeBool && o.Type != TypeStringSlice
}

func (o *Option) register(fs *pflag.FlagSet) error {
	def, err := o.Type.Convert(o.Default)
	if err != nil {
		return cterrors.WrapWithCode(err, cterrors.ErrRegistry,
			fmt.Sprintf("Default for --%s is not a valid %s", o.Name, o.Type),
			"Fix the option declaration")
	}
	switch o.Type {
	case TypeString:
		fs.StringP(o.Name, o.Shorthand, def.(string), o.Description)
	case TypeInt:
		fs.IntP(o.Name, o.Shorthand, def.(int), o.Description)
	case TypeBool:
		fs.BoolP(o.Name, o.Shorthand, def.(bool), o.Description)
	case TypeDuration:
		fs.DurationP(o.Name, o.Shorthand, def.(time.Duration), o.Description)
	case TypeStringSlice:
		fs.StringSliceP(o.Name, o.Shorthand, def.([]string), o.Description)
	}
	if o.Hidden {
		_ = fs.MarkHidden(o.Name)
	}
	return nil
}

func (o *Option) read(fs *pflag.FlagSet) (any, error) {
	switch o.Type {
	case TypeInt:
		return fs.GetInt(o.Name)
	case TypeBool:
		return fs.GetBool(o.Name)
	case TypeDuration:
		return fs.GetDuration(o.Name)
	case TypeStringSlice:
		return fs.GetStringSlice(o.Name)
	default:
		return fs.GetString(o.Name)
	}
}

// Argument declares a positional argument.
type Argument struct {
	Name        string
	Description string
	Type        ValueType
	Default     any
	Requirement Requirement

	// Variadic arguments consume all remaining positionals. Only the last
	// argument may be variadic.
	Variadic bool

	Validate func(value any) error
	Action   PreAction
}

// IsRequired applies the same precedence as Option.IsRequired. Without an
// explicit requirement an argument is required unless it has a default or
// is variadic.
func (a *Argument) IsRequired() bool {
	switch a.Requirement {
	case RequiredAlways:
		return true
	case RequiredNever:
		return false
	}
	return a.Default == nil && !a.Variadic
}

func (a *Argument) usage() string {
	name := a.Name
	if a.Variadic {
		name += "..."
	}
	if a.IsRequired() {
		return "<" + name + ">"
	}
	return "[" + name + "]"
}

// validateDeclarations checks a node's options and arguments for
// conflicts that would only surface at parse time otherwise.
func (n *Node) validateDeclarations() error {
	seen := make(map[string]bool)
	fail := func(msg string) error {
		return cterrors.New(cterrors.ErrRegistry,
			fmt.Sprintf("Command %q: %s", n.Name, msg),
			"Fix the command declaration")
	}
	for _, o := range n.Options {
		if o.Name == "" {
			return fail("option with empty name")
		}
		if seen[o.Name] {
			return fail(fmt.Sprintf("symbol %q declared twice", o.Name))
		}
		seen[o.Name] = true
		if o.Terminating && o.Type != TypeBool {
			return fail(fmt.Sprintf("terminating option --%s must be a bool", o.Name))
		}
	}
	for i, a := range n.Arguments {
		if a.Name == "" {
			return fail("argument with empty name")
		}
		if seen[a.Name] {
			return fail(fmt.Sprintf("symbol %q declared twice", a.Name))
		}
		seen[a.Name] = true
		if a.Variadic && i != len(n.Arguments)-1 {
			return fail(fmt.Sprintf("variadic argument %q must be last", a.Name))
		}
	}
	return nil
}
