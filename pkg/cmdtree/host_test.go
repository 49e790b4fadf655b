package cmdtree_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rileyhilliard/cmdtree/internal/logger"
	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
	cttesting "github.com/rileyhilliard/cmdtree/pkg/cmdtree/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hostFixture struct {
	host   *cmdtree.Host
	out    *bytes.Buffer
	errOut *bytes.Buffer
	log    *logger.BufferLogger
}

func newHostFixture(opts ...cmdtree.HostOption) *hostFixture {
	f := &hostFixture{
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
		log:    logger.NewBufferLogger(),
	}
	opts = append([]cmdtree.HostOption{
		cmdtree.WithOutput(f.out, f.errOut),
		cmdtree.WithLogger(f.log),
	}, opts...)
	f.host = cmdtree.NewHost("app", "Test application", opts...)
	return f
}

func (f *hostFixture) run(args ...string) int {
	return f.host.Run(context.Background(), args)
}

func TestHost_HandlerExitCode(t *testing.T) {
	f := newHostFixture()
	h := &cttesting.RecordingHandler{Code: 7}
	f.host.Command("a b", "leaf").Handler(func(cmdtree.Provider) (cmdtree.Handler, error) { return h, nil })

	assert.Equal(t, 7, f.run("a", "b"))
	assert.Equal(t, []string{"a b"}, h.Calls)
}

// sharedParams is the payload of the "shared" commands: one variant per
// command key over a common base.
type sharedParams interface{ sharedVariant() }

type sharedBase struct{ Label string }

func (sharedBase) sharedVariant() {}

type sharedOne struct{ sharedBase }

type sharedTwo struct {
	sharedBase
	Count int
}

func bindShared(p *cmdtree.ParseResult) (any, error) {
	label, err := cmdtree.ValueOf[string](p, "label")
	if err != nil {
		return nil, err
	}
	base := sharedBase{Label: label}
	switch p.CommandKey() {
	case "shared 1":
		return sharedOne{base}, nil
	case "shared 2":
		return sharedTwo{sharedBase: base, Count: 2}, nil
	}
	return nil, fmt.Errorf("no parameters for %q", p.CommandKey())
}

func TestHost_SharedParamsLeafWithoutHandler(t *testing.T) {
	f := newHostFixture()
	var bound []any
	bind := func(p *cmdtree.ParseResult) (any, error) {
		v, err := bindShared(p)
		bound = append(bound, v)
		return v, err
	}
	label := &cmdtree.Option{Name: "label", Default: "x"}
	f.host.Command("shared 1", "first").Option(label).Bind(bind)
	f.host.Command("shared 2", "second").Option(label).Bind(bind).
		HandleFunc(func(_ context.Context, inv *cmdtree.Invocation) (int, error) {
			p, err := cmdtree.ParamsAs[sharedTwo](inv)
			if err != nil {
				return 0, err
			}
			return p.Count, nil
		})

	assert.Equal(t, cmdtree.ExitError, f.run("shared", "1"))
	require.Len(t, bound, 1)
	one, ok := bound[0].(sharedOne)
	require.True(t, ok, "got %T", bound[0])
	assert.Equal(t, "x", one.Label)
	var _ sharedParams = one
	assert.True(t, f.log.Contains("error", "no handler registered"))

	assert.Equal(t, 2, f.run("shared", "2", "--label", "y"))
	require.Len(t, bound, 2)
	assert.Equal(t, sharedTwo{sharedBase: sharedBase{Label: "y"}, Count: 2}, bound[1])
}

func TestHost_GroupWithoutHandlerPrintsHelp(t *testing.T) {
	f := newHostFixture()
	f.host.Command("project echo", "Echo a message")
	f.host.Command("project template new", "Create a template")

	assert.Equal(t, cmdtree.ExitSuccess, f.run("project"))
	assert.Contains(t, f.out.String(), "echo")
	assert.Contains(t, f.out.String(), "template")

	f.out.Reset()
	assert.Equal(t, cmdtree.ExitSuccess, f.run("project", "template"))
	assert.Contains(t, f.out.String(), "new")
}

func TestHost_NoArgsPrintsRootHelp(t *testing.T) {
	f := newHostFixture()
	f.host.Command("echo", "Echo a message")

	assert.Equal(t, cmdtree.ExitSuccess, f.run())
	assert.Contains(t, f.out.String(), "Test application")
	assert.Contains(t, f.out.String(), "echo")
}

func TestHost_InputActionError(t *testing.T) {
	f := newHostFixture()
	h := &cttesting.RecordingHandler{}
	f.host.Command("load", "Load a file").
		Option(&cmdtree.Option{
			Name:    "file",
			Default: "missing.txt",
			Action: func(_ context.Context, _ *cmdtree.Invocation, v any) (any, error) {
				return nil, fmt.Errorf("cannot open %s", v)
			},
		}).
		Handler(func(cmdtree.Provider) (cmdtree.Handler, error) { return h, nil })

	assert.Equal(t, cmdtree.ExitInputActionError, f.run("load"))
	assert.Zero(t, h.CallCount())
	assert.Contains(t, f.errOut.String(), "cannot open missing.txt")
}

func TestHost_PreActionValueReachesHandler(t *testing.T) {
	f := newHostFixture()
	f.host.Command("load", "").
		Option(&cmdtree.Option{
			Name: "size",
			Type: cmdtree.TypeInt,
			Action: func(_ context.Context, _ *cmdtree.Invocation, v any) (any, error) {
				return v.(int) * 10, nil
			},
		}).
		HandleFunc(func(_ context.Context, inv *cmdtree.Invocation) (int, error) {
			return cmdtree.GetRequiredValue[int](inv.Context, "size")
		})

	assert.Equal(t, 40, f.run("load", "--size", "4"))
}

func TestHost_Cancellation(t *testing.T) {
	f := newHostFixture()
	h := &cttesting.RecordingHandler{Block: true}
	f.host.Command("wait", "").Handler(func(cmdtree.Provider) (cmdtree.Handler, error) { return h, nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, cmdtree.ExitCancelled, f.host.Run(ctx, []string{"wait"}))
	assert.Equal(t, 1, h.CallCount())
}

func TestHost_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing required option", []string{"greet"}, "--name"},
		{"missing argument", []string{"add"}, "<item>"},
		{"unexpected argument", []string{"greet", "--name", "x", "extra"}, "extra"},
		{"unknown subcommand", []string{"gret"}, "Did you mean: greet?"},
		{"unknown flag", []string{"greet", "--bogus"}, "bogus"},
		{"bad verbosity", []string{"greet", "--name", "x", "--verbosity", "loud"}, "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHostFixture()
			h := &cttesting.RecordingHandler{}
			factory := func(cmdtree.Provider) (cmdtree.Handler, error) { return h, nil }
			f.host.Command("greet", "").Option(&cmdtree.Option{Name: "name"}).Handler(factory)
			f.host.Command("add", "").Argument(&cmdtree.Argument{Name: "item"}).Handler(factory)

			assert.Equal(t, cmdtree.ExitError, f.run(tt.args...))
			assert.Contains(t, f.errOut.String(), tt.wantErr)
			assert.Zero(t, h.CallCount())
		})
	}
}

func TestHost_ErrorsReportedOnce(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"greet", "--name", "x", "--bogus"}, "unknown flag: --bogus"},
		{"missing option", []string{"greet"}, "Option '--name' is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			host := cmdtree.NewHost("app", "", cmdtree.WithOutput(&out, &errOut))
			host.Command("greet", "").Option(&cmdtree.Option{Name: "name"}).
				HandleFunc(func(context.Context, *cmdtree.Invocation) (int, error) { return 0, nil })

			assert.Equal(t, cmdtree.ExitError, host.Run(context.Background(), tt.args))
			assert.Equal(t, 1, strings.Count(errOut.String(), tt.want), errOut.String())
			assert.NotContains(t, errOut.String(), "ERROR:")
		})
	}
}

func TestHost_Help(t *testing.T) {
	f := newHostFixture()
	h := &cttesting.RecordingHandler{}
	f.host.Command("greet", "Say hello").
		Long("Greets someone by name.").
		Option(&cmdtree.Option{Name: "name", Description: "Who to greet"}).
		Handler(func(cmdtree.Provider) (cmdtree.Handler, error) { return h, nil })

	assert.Equal(t, cmdtree.ExitSuccess, f.run("greet", "--help"))
	assert.Contains(t, f.out.String(), "Greets someone by name.")
	assert.Contains(t, f.out.String(), "--name")
	assert.Contains(t, f.out.String(), "--verbosity")
	assert.Zero(t, h.CallCount())
}

func TestHost_VersionShortCircuits(t *testing.T) {
	f := newHostFixture(cmdtree.WithVersion("1.2.3"))
	preActions := 0
	f.host.Registry().Root().Options = append(f.host.Registry().Root().Options, &cmdtree.Option{
		Name:    "trace",
		Default: "off",
		Action: func(context.Context, *cmdtree.Invocation, any) (any, error) {
			preActions++
			return nil, nil
		},
	})
	f.host.Command("echo", "")

	assert.Equal(t, cmdtree.ExitSuccess, f.run("--version"))
	assert.Equal(t, "app 1.2.3\n", f.out.String())
	assert.Zero(t, preActions)
}

func TestHost_Verbosity(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "", logger.LevelError)
	out := &bytes.Buffer{}
	host := cmdtree.NewHost("app", "", cmdtree.WithLogger(log), cmdtree.WithOutput(out, out))
	host.Command("a b", "").HandleFunc(func(_ context.Context, inv *cmdtree.Invocation) (int, error) {
		inv.Logger.Debug("handler ran")
		return 0, nil
	})

	require.Equal(t, 0, host.Run(context.Background(), []string{"a", "b"}))
	assert.NotContains(t, buf.String(), "handler ran")

	require.Equal(t, 0, host.Run(context.Background(), []string{"a", "b", "--verbosity", "deb"}))
	assert.Contains(t, buf.String(), "DEBUG: handler ran")
	assert.Equal(t, logger.LevelDebug, log.Level())

	require.Equal(t, 0, host.Run(context.Background(), []string{"--verbosity", "N", "a", "b"}))
	assert.Equal(t, logger.LevelNone, log.Level())
}

func TestHost_DefaultVerbosity(t *testing.T) {
	var buf bytes.Buffer
	host := cmdtree.NewHost("app", "",
		cmdtree.WithLogger(logger.New(&buf, "", logger.LevelError)),
		cmdtree.WithVerbosity(logger.LevelInfo))
	host.Command("x", "").HandleFunc(func(_ context.Context, inv *cmdtree.Invocation) (int, error) {
		inv.Logger.Info("info line")
		return 0, nil
	})

	require.Equal(t, 0, host.Run(context.Background(), []string{"x"}))
	assert.Contains(t, buf.String(), "info line")
}

func TestHost_CustomAction(t *testing.T) {
	f := newHostFixture()
	f.host.Command("raw", "").Action(func(_ context.Context, inv *cmdtree.Invocation) int {
		fmt.Fprint(inv.Out, "custom")
		return 12
	})

	assert.Equal(t, 12, f.run("raw"))
	assert.Equal(t, "custom", f.out.String())
}

func TestHost_ActionPanic(t *testing.T) {
	f := newHostFixture()
	f.host.Command("raw", "").Action(func(context.Context, *cmdtree.Invocation) int {
		panic("broken")
	})

	assert.Equal(t, cmdtree.ExitError, f.run("raw"))
	assert.True(t, f.log.Contains("error", "broken"))
}

type resource struct{ closed *bool }

func (r *resource) Close() error {
	*r.closed = true
	return nil
}

func TestHost_ScopeClosedAfterRun(t *testing.T) {
	f := newHostFixture()
	closed := false
	cmdtree.Provide(f.host.Services(), func(cmdtree.Provider) (*resource, error) {
		return &resource{closed: &closed}, nil
	})
	f.host.Command("use", "").Handler(func(p cmdtree.Provider) (cmdtree.Handler, error) {
		r, err := cmdtree.Require[*resource](p)
		if err != nil {
			return nil, err
		}
		return cmdtree.HandlerFunc(func(context.Context, *cmdtree.Invocation) (int, error) {
			assert.False(t, *r.closed)
			return 0, nil
		}), nil
	})

	assert.Equal(t, 0, f.run("use"))
	assert.True(t, closed)
}

func TestHost_BuildErrors(t *testing.T) {
	f := newHostFixture()
	f.host.Command("dup", "")
	f.host.Command("dup", "")

	_, err := f.host.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, cmdtree.ErrDuplicateKey))

	assert.Equal(t, cmdtree.ExitError, f.run("dup"))
	assert.Contains(t, f.errOut.String(), `"dup"`)
}

func TestHost_Aliases(t *testing.T) {
	f := newHostFixture()
	f.host.Command("remove", "").Alias("rm").
		HandleFunc(func(context.Context, *cmdtree.Invocation) (int, error) { return 5, nil })

	assert.Equal(t, 5, f.run("rm"))
}

func TestHost_Describe(t *testing.T) {
	f := newHostFixture()
	f.host.Command("project echo", "Echo").
		Argument(&cmdtree.Argument{Name: "message"}).
		Option(&cmdtree.Option{Name: "repeat", Type: cmdtree.TypeInt, Default: 1})

	root, err := f.host.Build()
	require.NoError(t, err)
	d, err := cmdtree.Describe(root)
	require.NoError(t, err)

	require.Len(t, d.Commands, 1)
	project := d.Commands[0]
	assert.Equal(t, "project", project.Key)
	assert.True(t, project.Implicit)
	echo := project.Commands[0]
	assert.Equal(t, "project echo", echo.Key)
	assert.Equal(t, "1", echo.Options[0].Default)
	assert.True(t, echo.Arguments[0].Required)
}
