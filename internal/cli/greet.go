package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
)

// GreetParams is the parameter type shared by the greet commands. The
// concrete variant depends on which command was invoked.
type GreetParams interface {
	greeting() string
}

// HelloParams are bound for "greet hello".
type HelloParams struct {
	Name  string
	Shout bool
}

func (p HelloParams) greeting() string {
	msg := "Hello, " + p.Name + "!"
	if p.Shout {
		return strings.ToUpper(msg)
	}
	return msg
}

// GoodbyeParams are bound for "greet goodbye".
type GoodbyeParams struct {
	Name  string
	Times int
}

func (p GoodbyeParams) greeting() string {
	return strings.TrimSpace(strings.Repeat("Goodbye, ", p.Times)) + " " + p.Name + "."
}

func registerGreet(host *cmdtree.Host) {
	host.Command("greet", "Say hello or goodbye").
		Option(&cmdtree.Option{
			Name:        "name",
			Description: "Who to greet",
			Type:        cmdtree.TypeString,
			Default:     "world",
			Recursive:   true,
		})

	host.Command("greet hello", "Say hello").
		Option(&cmdtree.Option{
			Name:        "shout",
			Description: "Greet loudly",
			Type:        cmdtree.TypeBool,
		}).
		Bind(bindGreet).
		HandleFunc(runGreet)

	host.Command("greet goodbye", "Say goodbye").
		Alias("bye").
		Option(&cmdtree.Option{
			Name:        "times",
			Description: "How many goodbyes",
			Type:        cmdtree.TypeInt,
			Default:     1,
			Validate: func(v any) error {
				if n := v.(int); n < 1 || n > 10 {
					return fmt.Errorf("must be between 1 and 10, got %d", n)
				}
				return nil
			},
		}).
		Bind(bindGreet).
		HandleFunc(runGreet)
}

// bindGreet picks the GreetParams variant by command key.
func bindGreet(p *cmdtree.ParseResult) (any, error) {
	name, err := cmdtree.ValueOf[string](p, "name")
	if err != nil {
		return nil, err
	}

	switch p.CommandKey() {
	case "greet hello":
		shout, err := cmdtree.ValueOf[bool](p, "shout")
		if err != nil {
			return nil, err
		}
		return HelloParams{Name: name, Shout: shout}, nil
	case "greet goodbye":
		times, err := cmdtree.ValueOf[int](p, "times")
		if err != nil {
			return nil, err
		}
		return GoodbyeParams{Name: name, Times: times}, nil
	default:
		return nil, fmt.Errorf("no greeting for command %q", p.CommandKey())
	}
}

func runGreet(_ context.Context, inv *cmdtree.Invocation) (int, error) {
	params, err := cmdtree.ParamsAs[GreetParams](inv)
	if err != nil {
		return cmdtree.ExitError, err
	}
	fmt.Fprintln(inv.Out, params.greeting())
	return cmdtree.ExitSuccess, nil
}
